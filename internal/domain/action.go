package domain

import "time"

// ActionRequest is the payload passed to a collaborator mutation.
type ActionRequest struct {
	Type       string
	Reason     string
	Duration   *time.Duration
	NotifyUser bool
	Actor      string
}

// SuspendUntil resolves the optional duration against now.
func (r ActionRequest) SuspendUntil(now time.Time) *time.Time {
	if r.Duration == nil {
		return nil
	}
	until := now.Add(*r.Duration)
	return &until
}
