package moderation

import (
	"sort"
	"strings"

	"github.com/spec-kit/moderation-service/internal/domain"
)

// Normalize merges the three source snapshots into one kind-tagged queue.
// Inclusion is entity-specific: open reports; listings that are flagged,
// high-risk or suspended; accounts that are high-risk or suspended. The risk
// classification itself is consumed as-is from the sources.
//
// Output is ordered newest first, with a stable tie-break on queue id so
// repeated passes over identical data render identically.
func Normalize(reports []domain.Report, listings []domain.Listing, users []domain.User) []domain.QueueItem {
	items := make([]domain.QueueItem, 0, len(reports)+len(listings)+len(users))

	for i := range reports {
		if !reports[i].Open() {
			continue
		}
		items = append(items, reportItem(&reports[i]))
	}
	for i := range listings {
		if !listings[i].NeedsAttention() {
			continue
		}
		items = append(items, listingItem(&listings[i]))
	}
	for i := range users {
		if !users[i].NeedsAttention() {
			continue
		}
		items = append(items, userItem(&users[i]))
	}

	sort.SliceStable(items, func(a, b int) bool {
		if !items[a].CreatedAt.Equal(items[b].CreatedAt) {
			return items[a].CreatedAt.After(items[b].CreatedAt)
		}
		return items[a].QueueID < items[b].QueueID
	})
	return items
}

func reportItem(r *domain.Report) domain.QueueItem {
	return domain.QueueItem{
		QueueID:   domain.QueueIDFor(domain.KindReport, r.ID),
		Kind:      domain.KindReport,
		ItemID:    r.ID,
		Title:     r.Subject,
		Subject:   r.TargetLabel,
		Reason:    r.Reason,
		Status:    string(r.Status),
		CreatedAt: r.CreatedAt,
		Report:    r,
	}
}

func listingItem(l *domain.Listing) domain.QueueItem {
	return domain.QueueItem{
		QueueID:   domain.QueueIDFor(domain.KindListing, l.ID),
		Kind:      domain.KindListing,
		ItemID:    l.ID,
		Title:     l.Title,
		Subject:   l.SellerName,
		Reason:    listingReason(l),
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt,
		Listing:   l,
	}
}

func userItem(u *domain.User) domain.QueueItem {
	return domain.QueueItem{
		QueueID:   domain.QueueIDFor(domain.KindUser, u.ID),
		Kind:      domain.KindUser,
		ItemID:    u.ID,
		Title:     u.DisplayName,
		Subject:   u.Email,
		Reason:    userReason(u),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
		User:      u,
	}
}

func listingReason(l *domain.Listing) string {
	if l.Status == domain.ListingStatusSuspended && l.Suspension.Reason != "" {
		return l.Suspension.Reason
	}
	if l.FlaggedForReview {
		if strings.TrimSpace(l.FlagReason) != "" {
			return l.FlagReason
		}
		return "flagged for review"
	}
	if l.RiskLevel == domain.RiskLevelHigh {
		return "high risk listing"
	}
	return "suspended"
}

func userReason(u *domain.User) string {
	if u.Status == domain.UserStatusSuspended && u.Suspension.Reason != "" {
		return u.Suspension.Reason
	}
	if u.RiskLevel == domain.RiskLevelHigh {
		if strings.TrimSpace(u.RiskNote) != "" {
			return u.RiskNote
		}
		return "high risk account"
	}
	return "suspended"
}
