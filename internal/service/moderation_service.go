package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/audit"
	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/moderation"
	"github.com/spec-kit/moderation-service/internal/observability"
)

// ModerationService is the single owner of the moderation workspace state:
// the queue snapshot derivation, the selection set, per-item busy flags (via
// the dispatcher) and the decision log handle. Handlers stay stateless.
type ModerationService struct {
	collaborators moderation.Collaborators
	dispatcher    *moderation.Dispatcher
	bulk          *moderation.BulkCoordinator
	decisions     *audit.TieredStore
	metrics       *observability.Metrics
	logger        *zap.Logger
	historyLimit  int

	mu       sync.Mutex
	selected map[string]struct{}
	order    []string
}

// ModerationDependencies bundles collaborators for the service.
type ModerationDependencies struct {
	Collaborators moderation.Collaborators
	Dispatcher    *moderation.Dispatcher
	Bulk          *moderation.BulkCoordinator
	Decisions     *audit.TieredStore
	Metrics       *observability.Metrics
	Logger        *zap.Logger
	HistoryLimit  int
}

// NewModerationService constructs the service.
func NewModerationService(deps ModerationDependencies) *ModerationService {
	historyLimit := deps.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = 5
	}
	return &ModerationService{
		collaborators: deps.Collaborators,
		dispatcher:    deps.Dispatcher,
		bulk:          deps.Bulk,
		decisions:     deps.Decisions,
		metrics:       deps.Metrics,
		logger:        deps.Logger,
		historyLimit:  historyLimit,
		selected:      make(map[string]struct{}),
	}
}

// Start loads the decision history and fetches the initial snapshots. The
// decision log probe happens exactly once per session here.
func (s *ModerationService) Start(ctx context.Context) error {
	if _, err := s.decisions.Load(ctx); err != nil {
		return fmt.Errorf("load decision log: %w", err)
	}
	for _, refresh := range []func(context.Context) error{
		s.collaborators.Reports.Refresh,
		s.collaborators.Listings.Refresh,
		s.collaborators.Users.Refresh,
	} {
		if err := refresh(ctx); err != nil {
			return err
		}
	}
	s.logger.Info("moderation workspace ready",
		zap.String("persistence_mode", string(s.decisions.Mode())),
		zap.Int("queue_size", len(s.snapshot())))
	return nil
}

// Queue returns the filtered view over a freshly normalized snapshot.
func (s *ModerationService) Queue(filter moderation.QueueFilter) []domain.QueueItem {
	return moderation.ApplyFilter(s.snapshot(), filter)
}

// Item resolves a queue id against the current snapshot.
func (s *ModerationService) Item(queueID string) (domain.QueueItem, bool) {
	for _, item := range s.snapshot() {
		if item.QueueID == queueID {
			return item, true
		}
	}
	return domain.QueueItem{}, false
}

// Dispatch applies one action to one item. The boolean mirrors the dispatcher
// outcome; the error is reserved for items missing from the snapshot.
func (s *ModerationService) Dispatch(ctx context.Context, queueID, action string, req domain.ActionRequest) (bool, error) {
	item, ok := s.Item(queueID)
	if !ok {
		return false, fmt.Errorf("queue item %s not found", queueID)
	}
	return s.dispatcher.Dispatch(ctx, item, action, req), nil
}

// Explain returns the suspension provenance statement for an item and whether
// the suspension is reversible by the ordinary reactivation action.
func (s *ModerationService) Explain(queueID string) (string, bool, error) {
	item, ok := s.Item(queueID)
	if !ok {
		return "", false, fmt.Errorf("queue item %s not found", queueID)
	}
	return moderation.ExplainSuspension(item), moderation.CanReverse(item), nil
}

// Select adds queue ids to the selection, ignoring ids that are not part of
// the current snapshot. It returns how many ids are now selected.
func (s *ModerationService) Select(queueIDs []string) int {
	valid := make(map[string]struct{})
	for _, item := range s.snapshot() {
		valid[item.QueueID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range queueIDs {
		if _, ok := valid[id]; !ok {
			continue
		}
		if _, dup := s.selected[id]; dup {
			continue
		}
		s.selected[id] = struct{}{}
		s.order = append(s.order, id)
	}
	return len(s.order)
}

// Selection returns the selected queue ids in selection order.
func (s *ModerationService) Selection() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// ClearSelection empties the selection set.
func (s *ModerationService) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = make(map[string]struct{})
	s.order = nil
}

// RunBulk applies the mode to the current selection sequentially and clears
// the selection afterwards regardless of per-item outcomes.
func (s *ModerationService) RunBulk(ctx context.Context, mode moderation.BulkMode, base domain.ActionRequest) ([]moderation.BulkItemResult, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("unknown bulk mode %q", mode)
	}

	snapshot := s.snapshot()
	byID := make(map[string]domain.QueueItem, len(snapshot))
	for _, item := range snapshot {
		byID[item.QueueID] = item
	}

	var items []domain.QueueItem
	for _, id := range s.Selection() {
		if item, ok := byID[id]; ok {
			items = append(items, item)
		}
	}

	results := s.bulk.Run(ctx, items, mode, base)
	s.ClearSelection()
	return results, nil
}

// History returns the most recent decisions for an item, newest first, capped
// for display.
func (s *ModerationService) History(queueID string) []audit.Entry {
	return s.decisions.History(queueID, s.historyLimit)
}

// PersistenceMode exposes the decision-log tier for the degraded-mode banner.
func (s *ModerationService) PersistenceMode() audit.Mode {
	return s.decisions.Mode()
}

// Busy reports whether an action is in flight for the item.
func (s *ModerationService) Busy(queueID string) bool {
	return s.dispatcher.Busy(queueID)
}

// BusyItems lists the queue ids with in-flight actions.
func (s *ModerationService) BusyItems() []string {
	return s.dispatcher.BusyItems()
}

// snapshot normalizes the collaborator snapshots into the current queue.
func (s *ModerationService) snapshot() []domain.QueueItem {
	items := moderation.Normalize(
		s.collaborators.Reports.Reports(),
		s.collaborators.Listings.Listings(),
		s.collaborators.Users.Users(),
	)

	counts := map[domain.ItemKind]int{domain.KindReport: 0, domain.KindListing: 0, domain.KindUser: 0}
	for _, item := range items {
		counts[item.Kind]++
	}
	for kind, n := range counts {
		s.metrics.SetQueueSize(string(kind), n)
	}
	return items
}
