package audit

import (
	"time"

	"github.com/spec-kit/moderation-service/internal/domain"
)

// Entry is one append-only decision-log record. Entries are created once on a
// successful moderation action and never mutated or deleted.
type Entry struct {
	ID         string          `json:"id"`
	QueueID    string          `json:"queue_id"`
	EntityType domain.ItemKind `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Action     string          `json:"action"`
	Note       string          `json:"note"`
	Meta       map[string]any  `json:"meta,omitempty"`
	CreatedBy  string          `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Mode identifies which persistence tier receives writes for this session.
type Mode string

const (
	// ModeDurable writes go to the remote store.
	ModeDurable Mode = "durable"
	// ModeDegraded writes go to the local bounded cache for the rest of the
	// session. The transition is one-way.
	ModeDegraded Mode = "degraded"
)
