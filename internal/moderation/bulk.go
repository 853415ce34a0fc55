package moderation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/events"
	"github.com/spec-kit/moderation-service/internal/observability"
)

// ErrActionFailed marks a bulk item whose dispatch returned false.
var ErrActionFailed = errors.New("action was not applied")

// BulkItemResult is the per-item outcome of a bulk run.
type BulkItemResult struct {
	QueueID string
	Action  string
	OK      bool
	Skipped bool
	Err     error
}

// BulkCoordinator applies one mode to a selection of queue items, one item at
// a time. The run is intentionally non-transactional: a failed item neither
// aborts the loop nor rolls back earlier items, and the decision log records
// exactly which items actually changed. Collaborators are refreshed once per
// affected kind after the loop.
type BulkCoordinator struct {
	dispatcher    *Dispatcher
	collaborators Collaborators
	eventBus      events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger
}

// NewBulkCoordinator constructs the coordinator.
func NewBulkCoordinator(dispatcher *Dispatcher, collaborators Collaborators, eventBus events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *BulkCoordinator {
	return &BulkCoordinator{
		dispatcher:    dispatcher,
		collaborators: collaborators,
		eventBus:      eventBus,
		metrics:       metrics,
		logger:        logger,
	}
}

// Run executes the mode over the items sequentially, in selection order.
// Items the mode does not apply to are skipped as successful no-ops.
func (b *BulkCoordinator) Run(ctx context.Context, items []domain.QueueItem, mode BulkMode, base domain.ActionRequest) []BulkItemResult {
	results := make([]BulkItemResult, 0, len(items))
	affected := make(map[domain.ItemKind]struct{})

	b.metrics.ObserveBulk(len(items))

	for _, item := range items {
		action, applies := BulkActionFor(item, mode)
		if !applies {
			results = append(results, BulkItemResult{QueueID: item.QueueID, OK: true, Skipped: true})
			continue
		}

		req := base
		req.Type = action
		ok := b.dispatcher.DispatchNoRefresh(ctx, item, action, req)
		result := BulkItemResult{QueueID: item.QueueID, Action: action, OK: ok}
		if !ok {
			result.Err = ErrActionFailed
			b.logger.Warn("bulk item failed",
				zap.String("queue_id", item.QueueID),
				zap.String("action", action))
		} else {
			affected[item.Kind] = struct{}{}
		}
		results = append(results, result)
	}

	for kind := range affected {
		collab, ok := b.collaborators.forKind(kind)
		if !ok {
			continue
		}
		if err := collab.Refresh(ctx); err != nil {
			b.logger.Warn("bulk refresh failed", zap.String("kind", string(kind)), zap.Error(err))
		}
	}

	b.publishCompleted(ctx, mode, results)
	return results
}

func (b *BulkCoordinator) publishCompleted(ctx context.Context, mode BulkMode, results []BulkItemResult) {
	if b.eventBus == nil {
		return
	}
	applied, failed, skipped := 0, 0, 0
	for _, r := range results {
		switch {
		case r.Skipped:
			skipped++
		case r.OK:
			applied++
		default:
			failed++
		}
	}
	_ = b.eventBus.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventBulkCompleted,
		Timestamp: time.Now().UTC(),
		Payload: events.BulkCompletedPayload{
			Mode:    string(mode),
			Total:   len(results),
			Applied: applied,
			Failed:  failed,
			Skipped: skipped,
		},
	})
}
