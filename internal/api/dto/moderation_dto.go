package dto

import (
	"time"
)

// QueueItemResponse is one row of the work queue.
type QueueItemResponse struct {
	QueueID    string    `json:"queue_id"`
	Kind       string    `json:"kind"`
	ItemID     string    `json:"item_id"`
	Title      string    `json:"title"`
	Subject    string    `json:"subject"`
	Reason     string    `json:"reason"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	Busy       bool      `json:"busy"`
	Selected   bool      `json:"selected"`
	Reversible bool      `json:"reversible"`
}

// QueueResponse is the full queue view.
type QueueResponse struct {
	Items           []QueueItemResponse `json:"items"`
	Selection       []string            `json:"selection"`
	PersistenceMode string              `json:"persistence_mode"`
}

// ActionRequest is the payload for a single-item action.
type ActionRequest struct {
	Action        string `json:"action"`
	Reason        string `json:"reason"`
	DurationHours *int   `json:"duration_hours,omitempty"`
	NotifyUser    bool   `json:"notify_user,omitempty"`
}

// ActionResponse reports the dispatch outcome.
type ActionResponse struct {
	QueueID string `json:"queue_id"`
	Action  string `json:"action"`
	Applied bool   `json:"applied"`
}

// ExplainResponse carries a suspension provenance statement.
type ExplainResponse struct {
	QueueID     string `json:"queue_id"`
	Explanation string `json:"explanation"`
	Reversible  bool   `json:"reversible"`
}

// SelectionRequest adds queue ids to the selection.
type SelectionRequest struct {
	QueueIDs []string `json:"queue_ids"`
}

// SelectionResponse reports the selection size after an update.
type SelectionResponse struct {
	Selected int `json:"selected"`
}

// BulkRequest starts a bulk run over the current selection.
type BulkRequest struct {
	Mode   string `json:"mode"`
	Reason string `json:"reason,omitempty"`
}

// BulkItemResponse is one per-item bulk outcome.
type BulkItemResponse struct {
	QueueID string `json:"queue_id"`
	Action  string `json:"action,omitempty"`
	OK      bool   `json:"ok"`
	Skipped bool   `json:"skipped,omitempty"`
	Error   string `json:"error,omitempty"`
}

// DecisionResponse is one decision-log entry.
type DecisionResponse struct {
	ID        string    `json:"id"`
	QueueID   string    `json:"queue_id"`
	Action    string    `json:"action"`
	Note      string    `json:"note,omitempty"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}
