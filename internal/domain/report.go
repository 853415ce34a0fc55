package domain

import "time"

// ReportStatus enumerates lifecycle states for user reports.
type ReportStatus string

const (
	ReportStatusPending   ReportStatus = "pending"
	ReportStatusInReview  ReportStatus = "in_review"
	ReportStatusResolved  ReportStatus = "resolved"
	ReportStatusDismissed ReportStatus = "dismissed"
)

// Report is a user-submitted complaint about a listing or another user.
type Report struct {
	ID          string
	Reference   string
	Subject     string
	TargetLabel string
	Reason      string
	ReporterID  string
	Status      ReportStatus
	ResolvedBy  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Open reports whether the report still needs moderator attention.
func (r Report) Open() bool {
	return r.Status == ReportStatusPending || r.Status == ReportStatusInReview
}
