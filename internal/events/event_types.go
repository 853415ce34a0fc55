package events

import (
	"time"

	"github.com/spec-kit/moderation-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDecisionRecorded EventType = "decision_recorded"
	EventEntitySuspended  EventType = "entity_suspended"
	EventBulkCompleted    EventType = "bulk_completed"
)

// Event represents a domain event emitted by the moderation core.
type Event struct {
	ID        string          `json:"id"`
	Type      EventType       `json:"type"`
	QueueID   string          `json:"queue_id,omitempty"`
	Kind      domain.ItemKind `json:"kind,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   interface{}     `json:"payload"`
}

// DecisionRecordedPayload describes one applied moderation action.
type DecisionRecordedPayload struct {
	EntityID   string `json:"entity_id"`
	Action     string `json:"action"`
	Actor      string `json:"actor"`
	Reason     string `json:"reason,omitempty"`
	NotifyUser bool   `json:"notify_user"`
	Durable    bool   `json:"durable"`
}

// BulkCompletedPayload summarizes a finished bulk run.
type BulkCompletedPayload struct {
	Mode    string `json:"mode"`
	Total   int    `json:"total"`
	Applied int    `json:"applied"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
}
