package gateway

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/moderation"
	"github.com/spec-kit/moderation-service/internal/repository"
)

// ReportGateway owns the report records consumed by the queue. It keeps the
// current snapshot in memory and re-fetches it on Refresh.
type ReportGateway struct {
	repo   repository.ReportRepository
	limit  int
	logger *zap.Logger

	mu       sync.RWMutex
	snapshot []domain.Report
}

// NewReportGateway constructs the gateway.
func NewReportGateway(repo repository.ReportRepository, limit int, logger *zap.Logger) *ReportGateway {
	return &ReportGateway{repo: repo, limit: limit, logger: logger}
}

// Reports returns the current snapshot.
func (g *ReportGateway) Reports() []domain.Report {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]domain.Report, len(g.snapshot))
	copy(out, g.snapshot)
	return out
}

// Refresh re-fetches the snapshot.
func (g *ReportGateway) Refresh(ctx context.Context) error {
	reports, err := g.repo.List(ctx, g.limit)
	if err != nil {
		return fmt.Errorf("refresh reports: %w", err)
	}
	g.mu.Lock()
	g.snapshot = reports
	g.mu.Unlock()
	g.logger.Debug("reports refreshed", zap.Int("count", len(reports)))
	return nil
}

// ApplyAction executes one report mutation.
func (g *ReportGateway) ApplyAction(ctx context.Context, id string, req domain.ActionRequest) (bool, error) {
	switch req.Type {
	case moderation.ActionApprove:
		if err := g.repo.SetStatus(ctx, id, domain.ReportStatusResolved, req.Actor); err != nil {
			return false, err
		}
	case moderation.ActionDismiss:
		if err := g.repo.SetStatus(ctx, id, domain.ReportStatusDismissed, req.Actor); err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("unsupported report action %q", req.Type)
	}
	return true, nil
}

var _ moderation.ReportSource = (*ReportGateway)(nil)
