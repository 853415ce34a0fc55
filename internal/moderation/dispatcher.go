package moderation

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/audit"
	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/events"
	"github.com/spec-kit/moderation-service/internal/observability"
)

// DecisionRecorder receives one entry per successfully applied action.
type DecisionRecorder interface {
	Append(ctx context.Context, entry audit.Entry) bool
}

// Dispatcher routes a queue item action to the owning collaborator, keeping a
// per-item busy flag so duplicate submissions are rejected while a mutation is
// in flight. A successful mutation is recorded in the decision log before the
// collaborator is refreshed; a failed one leaves entity and log untouched.
type Dispatcher struct {
	collaborators Collaborators
	recorder      DecisionRecorder
	dispatcher    events.Dispatcher
	metrics       *observability.Metrics
	logger        *zap.Logger

	mu   sync.Mutex
	busy map[string]struct{}
}

// NewDispatcher constructs the dispatcher. Events and metrics may be nil.
func NewDispatcher(collaborators Collaborators, recorder DecisionRecorder, eventBus events.Dispatcher, metrics *observability.Metrics, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		collaborators: collaborators,
		recorder:      recorder,
		dispatcher:    eventBus,
		metrics:       metrics,
		logger:        logger,
		busy:          make(map[string]struct{}),
	}
}

// Busy reports whether an action is in flight for the queue item.
func (d *Dispatcher) Busy(queueID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.busy[queueID]
	return ok
}

// BusyItems returns the queue ids with actions currently in flight.
func (d *Dispatcher) BusyItems() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]string, 0, len(d.busy))
	for id := range d.busy {
		out = append(out, id)
	}
	return out
}

// Dispatch applies one action to one item and refreshes the owning
// collaborator on success. It returns false, without side effects, when the
// item is busy, the action is not legal for the kind, the suspension is not
// reversible by this actor, or the collaborator mutation fails.
func (d *Dispatcher) Dispatch(ctx context.Context, item domain.QueueItem, action string, req domain.ActionRequest) bool {
	return d.dispatch(ctx, item, action, req, true)
}

// DispatchNoRefresh is Dispatch without the per-item collaborator refresh.
// The bulk coordinator uses it and refreshes once per affected kind instead.
func (d *Dispatcher) DispatchNoRefresh(ctx context.Context, item domain.QueueItem, action string, req domain.ActionRequest) bool {
	return d.dispatch(ctx, item, action, req, false)
}

func (d *Dispatcher) dispatch(ctx context.Context, item domain.QueueItem, action string, req domain.ActionRequest, refresh bool) bool {
	if !LegalAction(item.Kind, action) {
		d.logger.Warn("illegal action for kind",
			zap.String("queue_id", item.QueueID),
			zap.String("kind", string(item.Kind)),
			zap.String("action", action))
		return false
	}

	if IsReversal(action) && !CanReverse(item) {
		d.logger.Info("reactivation refused",
			zap.String("queue_id", item.QueueID),
			zap.String("explanation", ExplainSuspension(item)))
		d.metrics.RecordDecision(string(item.Kind), action, false)
		return false
	}

	if !d.acquire(item.QueueID) {
		d.logger.Debug("action already in flight", zap.String("queue_id", item.QueueID))
		return false
	}
	defer d.release(item.QueueID)

	collab, ok := d.collaborators.forKind(item.Kind)
	if !ok {
		return false
	}

	req.Type = action
	applied, err := collab.ApplyAction(ctx, item.ItemID, req)
	if err != nil || !applied {
		if err != nil {
			d.logger.Warn("collaborator mutation failed",
				zap.String("queue_id", item.QueueID),
				zap.String("action", action),
				zap.Error(err))
		}
		d.metrics.RecordDecision(string(item.Kind), action, false)
		return false
	}

	// The audit entry is written before the refresh so the record cannot be
	// lost to a refresh race.
	entry := d.buildEntry(item, action, req)
	durable := d.recorder.Append(ctx, entry)

	d.publish(ctx, item, action, req, durable)
	d.metrics.RecordDecision(string(item.Kind), action, true)

	if refresh {
		if err := collab.Refresh(ctx); err != nil {
			d.logger.Warn("collaborator refresh failed",
				zap.String("kind", string(item.Kind)),
				zap.Error(err))
		}
	}
	return true
}

func (d *Dispatcher) acquire(queueID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, inFlight := d.busy[queueID]; inFlight {
		return false
	}
	d.busy[queueID] = struct{}{}
	return true
}

func (d *Dispatcher) release(queueID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.busy, queueID)
}

func (d *Dispatcher) buildEntry(item domain.QueueItem, action string, req domain.ActionRequest) audit.Entry {
	meta := map[string]any{}
	if req.NotifyUser {
		meta["notify_user"] = true
	}
	if req.Duration != nil {
		meta["duration_hours"] = req.Duration.Hours()
	}
	return audit.Entry{
		ID:         uuid.NewString(),
		QueueID:    item.QueueID,
		EntityType: item.Kind,
		EntityID:   item.ItemID,
		Action:     action,
		Note:       req.Reason,
		Meta:       meta,
		CreatedBy:  req.Actor,
		CreatedAt:  time.Now().UTC(),
	}
}

func (d *Dispatcher) publish(ctx context.Context, item domain.QueueItem, action string, req domain.ActionRequest, durable bool) {
	if d.dispatcher == nil {
		return
	}
	payload := events.DecisionRecordedPayload{
		EntityID:   item.ItemID,
		Action:     action,
		Actor:      req.Actor,
		Reason:     req.Reason,
		NotifyUser: req.NotifyUser,
		Durable:    durable,
	}
	_ = d.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventDecisionRecorded,
		QueueID:   item.QueueID,
		Kind:      item.Kind,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	})

	if action == ActionSuspendListing || action == ActionSuspendUser {
		_ = d.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventEntitySuspended,
			QueueID:   item.QueueID,
			Kind:      item.Kind,
			Timestamp: time.Now().UTC(),
			Payload:   payload,
		})
	}
}
