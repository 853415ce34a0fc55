package moderation

import (
	"strings"

	"github.com/spec-kit/moderation-service/internal/domain"
)

// FilterAll is the wildcard value for kind and status filters.
const FilterAll = "all"

// QueueFilter narrows the normalized queue. Zero values match everything.
type QueueFilter struct {
	Search string
	Kind   string
	Status string
}

// ApplyFilter returns the items matching all three predicates: exact kind,
// exact status, and a case-insensitive substring search over title, subject
// and reason. It is a pure function of its inputs.
func ApplyFilter(items []domain.QueueItem, filter QueueFilter) []domain.QueueItem {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	kind := strings.TrimSpace(filter.Kind)
	status := strings.TrimSpace(filter.Status)

	out := make([]domain.QueueItem, 0, len(items))
	for _, item := range items {
		if kind != "" && kind != FilterAll && string(item.Kind) != kind {
			continue
		}
		if status != "" && status != FilterAll && item.Status != status {
			continue
		}
		if search != "" && !matchesSearch(item, search) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func matchesSearch(item domain.QueueItem, search string) bool {
	return strings.Contains(strings.ToLower(item.Title), search) ||
		strings.Contains(strings.ToLower(item.Subject), search) ||
		strings.Contains(strings.ToLower(item.Reason), search)
}
