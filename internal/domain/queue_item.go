package domain

import "time"

// ItemKind discriminates the three record kinds merged into the queue.
type ItemKind string

const (
	KindReport  ItemKind = "report"
	KindListing ItemKind = "listing"
	KindUser    ItemKind = "user"
)

// QueueItem is the normalized, kind-tagged representation of a moderatable
// entity. Items are derived on every refresh and never stored; exactly one of
// Report, Listing or User is set, matching Kind.
type QueueItem struct {
	QueueID   string
	Kind      ItemKind
	ItemID    string
	Title     string
	Subject   string
	Reason    string
	Status    string
	CreatedAt time.Time

	Report  *Report
	Listing *Listing
	User    *User
}

// QueueIDFor derives the snapshot-unique identity of a queue item.
func QueueIDFor(kind ItemKind, itemID string) string {
	return string(kind) + "-" + itemID
}

// Suspended reports whether the underlying entity is currently suspended.
// Reports have no suspension lifecycle and always return false.
func (q QueueItem) Suspended() bool {
	switch q.Kind {
	case KindListing:
		return q.Listing != nil && q.Listing.Status == ListingStatusSuspended
	case KindUser:
		return q.User != nil && q.User.Status == UserStatusSuspended
	default:
		return false
	}
}

// SuspensionInfo returns the provenance of the underlying entity's suspension.
// The second return is false for kinds that carry no suspension state.
func (q QueueItem) SuspensionInfo() (Suspension, bool) {
	switch q.Kind {
	case KindListing:
		if q.Listing != nil {
			return q.Listing.Suspension, true
		}
	case KindUser:
		if q.User != nil {
			return q.User.Suspension, true
		}
	}
	return Suspension{}, false
}
