package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/moderation-service/internal/domain"
)

func TestCanReverse(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		status   domain.UserStatus
		suspType domain.SuspensionType
		want     bool
	}{
		{"suspended by user", domain.UserStatusSuspended, domain.SuspensionTypeUser, true},
		{"suspended with none provenance", domain.UserStatusSuspended, domain.SuspensionTypeNone, true},
		{"suspended before provenance tracking", domain.UserStatusSuspended, "", true},
		{"suspended by admin", domain.UserStatusSuspended, domain.SuspensionTypeAdmin, false},
		{"suspended by system", domain.UserStatusSuspended, domain.SuspensionTypeSystem, false},
		{"not suspended", domain.UserStatusActive, domain.SuspensionTypeUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := suspendedUser("u1", tt.suspType, now)
			u.Status = tt.status
			if tt.status != domain.UserStatusSuspended {
				// keep the item queue-eligible without a suspension
				u.RiskLevel = domain.RiskLevelHigh
			}
			assert.Equal(t, tt.want, CanReverse(userQueueItem(u)))
		})
	}
}

func TestCanReverseListing(t *testing.T) {
	listing := domain.Listing{
		ID:     "l1",
		Title:  "vintage camera",
		Status: domain.ListingStatusSuspended,
		Suspension: domain.Suspension{
			Type: domain.SuspensionTypeAdmin,
			By:   "admin-7",
		},
		CreatedAt: time.Now(),
	}
	items := Normalize(nil, []domain.Listing{listing}, nil)

	assert.False(t, CanReverse(items[0]))

	listing.Suspension = domain.Suspension{Type: domain.SuspensionTypeUser}
	items = Normalize(nil, []domain.Listing{listing}, nil)
	assert.True(t, CanReverse(items[0]))
}

func TestCanReverseReportNever(t *testing.T) {
	report := domain.Report{
		ID:        "r1",
		Subject:   "spam listing",
		Status:    domain.ReportStatusPending,
		CreatedAt: time.Now(),
	}
	items := Normalize([]domain.Report{report}, nil, nil)
	assert.False(t, CanReverse(items[0]))
}

func TestExplainSuspension(t *testing.T) {
	now := time.Now()

	t.Run("admin suspension routes to support", func(t *testing.T) {
		u := suspendedUser("u1", domain.SuspensionTypeAdmin, now)
		u.Suspension.By = "admin-3"
		msg := ExplainSuspension(userQueueItem(u))
		assert.Contains(t, msg, "administrator admin-3")
		assert.Contains(t, msg, "contact support")
	})

	t.Run("system suspension routes to support", func(t *testing.T) {
		u := suspendedUser("u1", domain.SuspensionTypeSystem, now)
		msg := ExplainSuspension(userQueueItem(u))
		assert.Contains(t, msg, "automatically by the platform")
		assert.Contains(t, msg, "contact support")
	})

	t.Run("self-service suspension does not", func(t *testing.T) {
		u := suspendedUser("u1", domain.SuspensionTypeUser, now)
		msg := ExplainSuspension(userQueueItem(u))
		assert.Contains(t, msg, "account owner")
		assert.NotContains(t, msg, "contact support")
	})

	t.Run("includes expiry and reason", func(t *testing.T) {
		until := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
		u := suspendedUser("u1", domain.SuspensionTypeAdmin, now)
		u.Suspension.Until = &until
		u.Suspension.Reason = "chargeback abuse"
		msg := ExplainSuspension(userQueueItem(u))
		assert.Contains(t, msg, "2026-09-15")
		assert.Contains(t, msg, "chargeback abuse")
	})

	t.Run("not suspended", func(t *testing.T) {
		u := suspendedUser("u1", domain.SuspensionTypeNone, now)
		u.Status = domain.UserStatusActive
		u.RiskLevel = domain.RiskLevelHigh
		assert.Equal(t, "not suspended", ExplainSuspension(userQueueItem(u)))
	})
}
