package gateway

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/moderation"
	"github.com/spec-kit/moderation-service/internal/repository"
)

// ListingGateway owns the listing records consumed by the queue.
type ListingGateway struct {
	repo   repository.ListingRepository
	limit  int
	logger *zap.Logger

	mu       sync.RWMutex
	snapshot []domain.Listing
}

// NewListingGateway constructs the gateway.
func NewListingGateway(repo repository.ListingRepository, limit int, logger *zap.Logger) *ListingGateway {
	return &ListingGateway{repo: repo, limit: limit, logger: logger}
}

// Listings returns the current snapshot.
func (g *ListingGateway) Listings() []domain.Listing {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.Listing, len(g.snapshot))
	copy(out, g.snapshot)
	return out
}

// Refresh re-fetches the snapshot.
func (g *ListingGateway) Refresh(ctx context.Context) error {
	listings, err := g.repo.List(ctx, g.limit)
	if err != nil {
		return fmt.Errorf("refresh listings: %w", err)
	}
	g.mu.Lock()
	g.snapshot = listings
	g.mu.Unlock()
	g.logger.Debug("listings refreshed", zap.Int("count", len(listings)))
	return nil
}

// ApplyAction executes one listing mutation. A moderator-imposed suspension is
// stamped with admin provenance so the self-service reactivation path cannot
// reverse it.
func (g *ListingGateway) ApplyAction(ctx context.Context, id string, req domain.ActionRequest) (bool, error) {
	switch req.Type {
	case moderation.ActionSuspendListing:
		susp := domain.Suspension{
			Type:   domain.SuspensionTypeAdmin,
			By:     req.Actor,
			Reason: req.Reason,
			Until:  req.SuspendUntil(time.Now().UTC()),
		}
		if err := g.repo.Suspend(ctx, id, susp); err != nil {
			return false, err
		}
	case moderation.ActionUnsuspend:
		if err := g.repo.Unsuspend(ctx, id); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unsupported listing action %q", req.Type)
	}
	return true, nil
}

var _ moderation.ListingSource = (*ListingGateway)(nil)
