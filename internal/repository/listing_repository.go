package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/moderation-service/internal/domain"
)

// ListingRepository encapsulates listing persistence for moderation.
type ListingRepository interface {
	List(ctx context.Context, limit int) ([]domain.Listing, error)
	GetByID(ctx context.Context, id string) (*domain.Listing, error)
	Suspend(ctx context.Context, id string, susp domain.Suspension) error
	Unsuspend(ctx context.Context, id string) error
}

type listingRepository struct {
	pool *pgxpool.Pool
}

// NewListingRepository instantiates repository.
func NewListingRepository(pool *pgxpool.Pool) ListingRepository {
	return &listingRepository{pool: pool}
}

const listingColumns = `id, title, seller_id, seller_name, status, risk_level, flagged_for_review, flag_reason,
               suspension_type, suspended_by, suspension_reason, suspended_until, created_at, updated_at`

// List returns the listings needing moderator attention: flagged, classified
// high risk, or currently suspended.
func (r *listingRepository) List(ctx context.Context, limit int) ([]domain.Listing, error) {
	if limit <= 0 {
		limit = 500
	}
	query := `SELECT ` + listingColumns + `
        FROM listings
        WHERE flagged_for_review OR risk_level='high' OR status='suspended'
        ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanListings(rows)
}

func (r *listingRepository) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE id=$1`
	var listing domain.Listing
	if err := scanListing(r.pool.QueryRow(ctx, query, id), &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (r *listingRepository) Suspend(ctx context.Context, id string, susp domain.Suspension) error {
	const query = `
        UPDATE listings SET status='suspended',
            suspension_type=$1, suspended_by=NULLIF($2,''), suspension_reason=NULLIF($3,''),
            suspended_until=$4, flagged_for_review=FALSE, updated_at=NOW()
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

// Unsuspend reactivates a listing and clears the suspension provenance.
func (r *listingRepository) Unsuspend(ctx context.Context, id string) error {
	const query = `
        UPDATE listings SET status='active',
            suspension_type=NULL, suspended_by=NULL, suspension_reason=NULL, suspended_until=NULL,
            updated_at=NOW()
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

func scanListing(row pgx.Row, listing *domain.Listing) error {
	var suspType, suspBy, suspReason *string
	var suspUntil *time.Time
	if err := row.Scan(
		&listing.ID,
		&listing.Title,
		&listing.SellerID,
		&listing.SellerName,
		&listing.Status,
		&listing.RiskLevel,
		&listing.FlaggedForReview,
		&listing.FlagReason,
		&suspType,
		&suspBy,
		&suspReason,
		&suspUntil,
		&listing.CreatedAt,
		&listing.UpdatedAt,
	); err != nil {
		return err
	}
	listing.Suspension = buildSuspension(suspType, suspBy, suspReason, suspUntil)
	return nil
}

func scanListings(rows pgx.Rows) ([]domain.Listing, error) {
	var result []domain.Listing
	for rows.Next() {
		var listing domain.Listing
		if err := scanListing(rows, &listing); err != nil {
			return nil, err
		}
		result = append(result, listing)
	}
	return result, rows.Err()
}

// buildSuspension maps nullable provenance columns onto the domain value. A
// NULL type on a suspended row is preserved as the legacy zero value.
func buildSuspension(suspType, suspBy, suspReason *string, suspUntil *time.Time) domain.Suspension {
	var susp domain.Suspension
	if suspType != nil {
		susp.Type = domain.SuspensionType(*suspType)
	}
	if suspBy != nil {
		susp.By = *suspBy
	}
	if suspReason != nil {
		susp.Reason = *suspReason
	}
	susp.Until = suspUntil
	return susp
}
