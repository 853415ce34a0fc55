package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/moderation-service/internal/domain"
)

// UserRepository encapsulates marketplace account persistence for moderation.
type UserRepository interface {
	List(ctx context.Context, limit int) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Suspend(ctx context.Context, id string, susp domain.Suspension) error
	Verify(ctx context.Context, id string) error
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, display_name, email, status, risk_level, risk_note,
               suspension_type, suspended_by, suspension_reason, suspended_until, verified_at, created_at, updated_at`

// List returns the accounts needing moderator attention: classified high risk
// or currently suspended.
func (r *userRepository) List(ctx context.Context, limit int) ([]domain.User, error) {
	if limit <= 0 {
		limit = 500
	}
	query := `SELECT ` + userColumns + `
        FROM users
        WHERE risk_level='high' OR status='suspended'
        ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	var user domain.User
	if err := scanUser(r.pool.QueryRow(ctx, query, id), &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Suspend(ctx context.Context, id string, susp domain.Suspension) error {
	const query = `
        UPDATE users SET status='suspended',
            suspension_type=$1, suspended_by=NULLIF($2,''), suspension_reason=NULLIF($3,''),
            suspended_until=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query, string(susp.Type), susp.By, susp.Reason, susp.Until, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// Verify reactivates a suspended account, clears the suspension provenance
// and stamps the account as verified by moderation.
func (r *userRepository) Verify(ctx context.Context, id string) error {
	const query = `
        UPDATE users SET status='active',
            suspension_type=NULL, suspended_by=NULL, suspension_reason=NULL, suspended_until=NULL,
            verified_at=NOW(), updated_at=NOW()
        WHERE id=$1 AND status='suspended'`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanUser(row pgx.Row, user *domain.User) error {
	var suspType, suspBy, suspReason *string
	var suspUntil *time.Time
	if err := row.Scan(
		&user.ID,
		&user.DisplayName,
		&user.Email,
		&user.Status,
		&user.RiskLevel,
		&user.RiskNote,
		&suspType,
		&suspBy,
		&suspReason,
		&suspUntil,
		&user.VerifiedAt,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return err
	}
	user.Suspension = buildSuspension(suspType, suspBy, suspReason, suspUntil)
	return nil
}

func scanUsers(rows pgx.Rows) ([]domain.User, error) {
	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := scanUser(rows, &user); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
