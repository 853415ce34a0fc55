package moderation

import "github.com/spec-kit/moderation-service/internal/domain"

// The legal actions form a closed set per entity kind.
const (
	ActionApprove        = "approve"
	ActionDismiss        = "dismiss"
	ActionSuspendListing = "suspend_listing"
	ActionUnsuspend      = "unsuspend"
	ActionSuspendUser    = "suspend"
	ActionVerify         = "verify"
)

var legalActions = map[domain.ItemKind]map[string]struct{}{
	domain.KindReport: {
		ActionApprove: {},
		ActionDismiss: {},
	},
	domain.KindListing: {
		ActionSuspendListing: {},
		ActionUnsuspend:      {},
	},
	domain.KindUser: {
		ActionSuspendUser: {},
		ActionVerify:      {},
	},
}

// LegalAction reports whether action is valid for the given kind.
func LegalAction(kind domain.ItemKind, action string) bool {
	actions, ok := legalActions[kind]
	if !ok {
		return false
	}
	_, ok = actions[action]
	return ok
}

// reversalActions reverse a suspension and are gated by CanReverse.
var reversalActions = map[string]struct{}{
	ActionUnsuspend: {},
	ActionVerify:    {},
}

// IsReversal reports whether the action reverses a suspension.
func IsReversal(action string) bool {
	_, ok := reversalActions[action]
	return ok
}

// BulkMode selects the concrete action per item in a bulk run.
type BulkMode string

const (
	BulkModeReactivate BulkMode = "reactivate"
	BulkModeSuspend    BulkMode = "suspend"
)

// Valid reports whether the mode is known.
func (m BulkMode) Valid() bool {
	return m == BulkModeReactivate || m == BulkModeSuspend
}

// BulkActionFor maps (kind, mode, current status) to the concrete action.
// The second return is false when the item is a no-op for the mode: reports
// have no suspension lifecycle, reactivation only applies to suspended
// entities, and suspension only to not-yet-suspended ones.
func BulkActionFor(item domain.QueueItem, mode BulkMode) (string, bool) {
	switch mode {
	case BulkModeReactivate:
		if !item.Suspended() {
			return "", false
		}
		switch item.Kind {
		case domain.KindListing:
			return ActionUnsuspend, true
		case domain.KindUser:
			return ActionVerify, true
		}
	case BulkModeSuspend:
		if item.Suspended() {
			return "", false
		}
		switch item.Kind {
		case domain.KindListing:
			return ActionSuspendListing, true
		case domain.KindUser:
			return ActionSuspendUser, true
		}
	}
	return "", false
}
