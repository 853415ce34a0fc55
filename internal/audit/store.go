package audit

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Backend is one persistence tier of the decision log.
type Backend interface {
	Load(ctx context.Context) ([]Entry, error)
	Append(ctx context.Context, entry Entry) error
}

// DowngradeHook is invoked once when the store leaves durable mode.
type DowngradeHook func()

// TieredStore is the append-only decision log with a durable remote tier and
// a local bounded fallback. The durable tier is probed once by Load; any read
// or write failure downgrades the session to the fallback and the store never
// probes the durable tier again. Mode only ever moves durable -> degraded.
type TieredStore struct {
	durable  Backend
	fallback Backend
	logger   *zap.Logger

	onDowngrade DowngradeHook

	mu      sync.Mutex
	mode    Mode
	loaded  bool
	entries []Entry // session copy, append order
}

// NewTieredStore builds the store. Both backends are injected so tests can
// substitute failing fakes.
func NewTieredStore(durable, fallback Backend, logger *zap.Logger) *TieredStore {
	return &TieredStore{
		durable:  durable,
		fallback: fallback,
		logger:   logger,
		mode:     ModeDurable,
	}
}

// OnDowngrade registers a hook called on the durable -> degraded transition.
func (s *TieredStore) OnDowngrade(hook DowngradeHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onDowngrade = hook
}

// Load reads the decision history once at session start. A durable read
// success pins the session to durable mode; any failure falls back to the
// local cache, tolerating absent or corrupt content as an empty history.
func (s *TieredStore) Load(ctx context.Context) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.loaded {
		return s.copyEntriesLocked(), nil
	}

	entries, err := s.durable.Load(ctx)
	if err == nil {
		s.mode = ModeDurable
		s.entries = entries
		s.loaded = true
		s.logger.Info("decision log loaded", zap.Int("entries", len(entries)), zap.String("mode", string(ModeDurable)))
		return s.copyEntriesLocked(), nil
	}

	s.logger.Warn("durable decision log unavailable, using local cache", zap.Error(err))
	s.downgradeLocked()

	cached, cacheErr := s.fallback.Load(ctx)
	if cacheErr != nil {
		// Absent or corrupt cache reads as empty, never as a fatal error.
		s.logger.Warn("local decision cache unreadable, starting empty", zap.Error(cacheErr))
		cached = nil
	}
	s.entries = cached
	s.loaded = true
	return s.copyEntriesLocked(), nil
}

// Append records one decision. In durable mode it writes to the remote store;
// on failure the session downgrades permanently and the entry is written to
// the local cache instead, so the decision itself is never lost. The return
// value reports whether the durable write succeeded.
func (s *TieredStore) Append(ctx context.Context, entry Entry) bool {
	s.mu.Lock()
	mode := s.mode
	s.mu.Unlock()

	if mode == ModeDurable {
		if err := s.durable.Append(ctx, entry); err == nil {
			s.remember(entry)
			return true
		} else {
			s.logger.Warn("durable audit write failed, downgrading session", zap.Error(err))
			s.mu.Lock()
			s.downgradeLocked()
			s.mu.Unlock()
		}
	}

	if err := s.fallback.Append(ctx, entry); err != nil {
		s.logger.Error("local audit write failed", zap.Error(err), zap.String("queue_id", entry.QueueID))
	}
	s.remember(entry)
	return false
}

// History returns up to limit entries for a queue item, most recent first.
func (s *TieredStore) History(queueID string, limit int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Entry
	for i := len(s.entries) - 1; i >= 0; i-- {
		if s.entries[i].QueueID != queueID {
			continue
		}
		out = append(out, s.entries[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Mode reports the current persistence mode.
func (s *TieredStore) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

func (s *TieredStore) remember(entry Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

func (s *TieredStore) downgradeLocked() {
	if s.mode == ModeDegraded {
		return
	}
	s.mode = ModeDegraded
	if s.onDowngrade != nil {
		s.onDowngrade()
	}
}

func (s *TieredStore) copyEntriesLocked() []Entry {
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}
