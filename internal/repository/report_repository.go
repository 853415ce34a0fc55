package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/moderation-service/internal/domain"
)

// ReportRepository encapsulates report persistence.
type ReportRepository interface {
	List(ctx context.Context, limit int) ([]domain.Report, error)
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	SetStatus(ctx context.Context, id string, status domain.ReportStatus, resolvedBy string) error
}

type reportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository instantiates repository.
func NewReportRepository(pool *pgxpool.Pool) ReportRepository {
	return &reportRepository{pool: pool}
}

const reportColumns = `id, reference, subject, target_label, reason, reporter_id, status, resolved_by, created_at, updated_at`

func (r *reportRepository) List(ctx context.Context, limit int) ([]domain.Report, error) {
	if limit <= 0 {
		limit = 500
	}
	query := `SELECT ` + reportColumns + ` FROM reports ORDER BY created_at DESC LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanReports(rows)
}

func (r *reportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE id=$1`
	var report domain.Report
	if err := scanReport(r.pool.QueryRow(ctx, query, id), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) SetStatus(ctx context.Context, id string, status domain.ReportStatus, resolvedBy string) error {
	const query = `
        UPDATE reports SET status=$1, resolved_by=NULLIF($2,''), updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, status, resolvedBy, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanReport(row pgx.Row, report *domain.Report) error {
	return row.Scan(
		&report.ID,
		&report.Reference,
		&report.Subject,
		&report.TargetLabel,
		&report.Reason,
		&report.ReporterID,
		&report.Status,
		&report.ResolvedBy,
		&report.CreatedAt,
		&report.UpdatedAt,
	)
}

func scanReports(rows pgx.Rows) ([]domain.Report, error) {
	var result []domain.Report
	for rows.Next() {
		var report domain.Report
		if err := scanReport(rows, &report); err != nil {
			return nil, err
		}
		result = append(result, report)
	}
	return result, rows.Err()
}
