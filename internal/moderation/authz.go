package moderation

import (
	"fmt"

	"github.com/spec-kit/moderation-service/internal/domain"
)

// CanReverse decides whether the ordinary self-service reactivation action may
// reverse the entity's suspension. It is the single source of truth for that
// gate: callers must consult it before exposing or executing unsuspend/verify.
//
// Only currently suspended entities are reversible, and only when the
// suspension was self-imposed (or predates provenance tracking). Admin and
// system suspensions route to escalation instead.
func CanReverse(item domain.QueueItem) bool {
	if !item.Suspended() {
		return false
	}
	susp, ok := item.SuspensionInfo()
	if !ok {
		return false
	}
	return susp.IsSelfService()
}

// ExplainSuspension produces a human-readable provenance statement used both
// for the operator-facing explanation and for routing non-reversible cases to
// support contact.
func ExplainSuspension(item domain.QueueItem) string {
	if !item.Suspended() {
		return "not suspended"
	}
	susp, ok := item.SuspensionInfo()
	if !ok {
		return "not suspended"
	}

	var who string
	switch susp.Type {
	case domain.SuspensionTypeAdmin:
		who = "suspended by an administrator"
		if susp.By != "" {
			who = fmt.Sprintf("suspended by administrator %s", susp.By)
		}
	case domain.SuspensionTypeSystem:
		who = "suspended automatically by the platform"
	default:
		who = "paused by the account owner"
	}

	msg := who
	if susp.Until != nil {
		msg = fmt.Sprintf("%s until %s", msg, susp.Until.Format("2006-01-02"))
	}
	if susp.Reason != "" {
		msg = fmt.Sprintf("%s: %s", msg, susp.Reason)
	}
	if !susp.IsSelfService() {
		msg += " (contact support to appeal)"
	}
	return msg
}
