package moderation

import (
	"context"

	"github.com/spec-kit/moderation-service/internal/domain"
)

// Each record kind is owned by an external collaborator exposing a current,
// already risk-classified snapshot, a refresh, and its legal mutations.

// ReportSource provides user reports.
type ReportSource interface {
	Reports() []domain.Report
	Refresh(ctx context.Context) error
	ApplyAction(ctx context.Context, id string, req domain.ActionRequest) (bool, error)
}

// ListingSource provides marketplace listings.
type ListingSource interface {
	Listings() []domain.Listing
	Refresh(ctx context.Context) error
	ApplyAction(ctx context.Context, id string, req domain.ActionRequest) (bool, error)
}

// UserSource provides marketplace accounts.
type UserSource interface {
	Users() []domain.User
	Refresh(ctx context.Context) error
	ApplyAction(ctx context.Context, id string, req domain.ActionRequest) (bool, error)
}

// Collaborators bundles the three sources feeding the queue.
type Collaborators struct {
	Reports  ReportSource
	Listings ListingSource
	Users    UserSource
}

type mutator interface {
	Refresh(ctx context.Context) error
	ApplyAction(ctx context.Context, id string, req domain.ActionRequest) (bool, error)
}

func (c Collaborators) forKind(kind domain.ItemKind) (mutator, bool) {
	switch kind {
	case domain.KindReport:
		if c.Reports != nil {
			return c.Reports, true
		}
	case domain.KindListing:
		if c.Listings != nil {
			return c.Listings, true
		}
	case domain.KindUser:
		if c.Users != nil {
			return c.Users, true
		}
	}
	return nil, false
}
