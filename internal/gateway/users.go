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

// UserGateway owns the account records consumed by the queue.
type UserGateway struct {
	repo   repository.UserRepository
	limit  int
	logger *zap.Logger

	mu       sync.RWMutex
	snapshot []domain.User
}

// NewUserGateway constructs the gateway.
func NewUserGateway(repo repository.UserRepository, limit int, logger *zap.Logger) *UserGateway {
	return &UserGateway{repo: repo, limit: limit, logger: logger}
}

// Users returns the current snapshot.
func (g *UserGateway) Users() []domain.User {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.User, len(g.snapshot))
	copy(out, g.snapshot)
	return out
}

// Refresh re-fetches the snapshot.
func (g *UserGateway) Refresh(ctx context.Context) error {
	users, err := g.repo.List(ctx, g.limit)
	if err != nil {
		return fmt.Errorf("refresh users: %w", err)
	}
	g.mu.Lock()
	g.snapshot = users
	g.mu.Unlock()
	g.logger.Debug("users refreshed", zap.Int("count", len(users)))
	return nil
}

// ApplyAction executes one account mutation.
func (g *UserGateway) ApplyAction(ctx context.Context, id string, req domain.ActionRequest) (bool, error) {
	switch req.Type {
	case moderation.ActionSuspendUser:
		susp := domain.Suspension{
			Type:   domain.SuspensionTypeAdmin,
			By:     req.Actor,
			Reason: req.Reason,
			Until:  req.SuspendUntil(time.Now().UTC()),
		}
		if err := g.repo.Suspend(ctx, id, susp); err != nil {
			return false, err
		}
	case moderation.ActionVerify:
		if err := g.repo.Verify(ctx, id); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unsupported user action %q", req.Type)
	}
	return true, nil
}

var _ moderation.UserSource = (*UserGateway)(nil)
