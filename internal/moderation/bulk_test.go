package moderation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/domain"
)

func newTestBulk(collab *fakeCollab, recorder *fakeRecorder) *BulkCoordinator {
	d := newTestDispatcher(collab, recorder)
	return NewBulkCoordinator(d, collabsFor(collab), nil, nil, zap.NewNop())
}

func TestBulkActionFor(t *testing.T) {
	now := time.Now()

	suspListing := domain.Listing{ID: "l1", Status: domain.ListingStatusSuspended, Suspension: domain.Suspension{Type: domain.SuspensionTypeUser}, CreatedAt: now}
	activeListing := domain.Listing{ID: "l2", Status: domain.ListingStatusActive, FlaggedForReview: true, CreatedAt: now}
	suspUser := suspendedUser("u1", domain.SuspensionTypeUser, now)
	activeUser := domain.User{ID: "u2", Status: domain.UserStatusActive, RiskLevel: domain.RiskLevelHigh, CreatedAt: now}
	report := domain.Report{ID: "r1", Status: domain.ReportStatusPending, CreatedAt: now}

	items := Normalize([]domain.Report{report}, []domain.Listing{suspListing, activeListing}, []domain.User{suspUser, activeUser})
	byID := make(map[string]domain.QueueItem, len(items))
	for _, item := range items {
		byID[item.QueueID] = item
	}

	tests := []struct {
		queueID string
		mode    BulkMode
		action  string
		applies bool
	}{
		{"listing-l1", BulkModeReactivate, ActionUnsuspend, true},
		{"user-u1", BulkModeReactivate, ActionVerify, true},
		{"listing-l2", BulkModeReactivate, "", false},
		{"user-u2", BulkModeReactivate, "", false},
		{"report-r1", BulkModeReactivate, "", false},
		{"listing-l2", BulkModeSuspend, ActionSuspendListing, true},
		{"user-u2", BulkModeSuspend, ActionSuspendUser, true},
		{"listing-l1", BulkModeSuspend, "", false},
		{"user-u1", BulkModeSuspend, "", false},
		{"report-r1", BulkModeSuspend, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.queueID+"/"+string(tt.mode), func(t *testing.T) {
			item, ok := byID[tt.queueID]
			require.True(t, ok)
			action, applies := BulkActionFor(item, tt.mode)
			assert.Equal(t, tt.applies, applies)
			assert.Equal(t, tt.action, action)
		})
	}
}

func TestBulkRunFailedItemDoesNotAbort(t *testing.T) {
	now := time.Now()
	collab := &fakeCollab{failIDs: map[string]bool{"u2": true}}
	recorder := &fakeRecorder{}
	b := newTestBulk(collab, recorder)

	items := []domain.QueueItem{
		userQueueItem(suspendedUser("u1", domain.SuspensionTypeUser, now)),
		userQueueItem(suspendedUser("u2", domain.SuspensionTypeUser, now)),
		userQueueItem(suspendedUser("u3", domain.SuspensionTypeUser, now)),
	}

	results := b.Run(context.Background(), items, BulkModeReactivate, domain.ActionRequest{Actor: "mod-1", Reason: "sweep"})

	require.Len(t, results, 3)
	assert.True(t, results[0].OK)
	assert.False(t, results[1].OK)
	assert.ErrorIs(t, results[1].Err, ErrActionFailed)
	assert.True(t, results[2].OK)

	// all three were attempted, only the two successes were logged
	assert.Len(t, collab.applied(), 3)
	entries := recorder.recorded()
	require.Len(t, entries, 2)
	assert.Equal(t, "user-u1", entries[0].QueueID)
	assert.Equal(t, "user-u3", entries[1].QueueID)
}

func TestBulkRunRefreshesOncePerKind(t *testing.T) {
	now := time.Now()
	collab := &fakeCollab{}
	recorder := &fakeRecorder{}
	b := newTestBulk(collab, recorder)

	suspListing := domain.Listing{ID: "l1", Status: domain.ListingStatusSuspended, Suspension: domain.Suspension{Type: domain.SuspensionTypeUser}, CreatedAt: now}
	listingItems := Normalize(nil, []domain.Listing{suspListing}, nil)
	items := []domain.QueueItem{
		userQueueItem(suspendedUser("u1", domain.SuspensionTypeUser, now)),
		userQueueItem(suspendedUser("u2", domain.SuspensionTypeUser, now)),
		listingItems[0],
	}

	b.Run(context.Background(), items, BulkModeReactivate, domain.ActionRequest{Actor: "mod-1"})

	// one refresh for users, one for listings, none per item
	assert.Equal(t, 2, collab.refreshes())
}

func TestBulkRunSkipsNonApplicableItems(t *testing.T) {
	now := time.Now()
	collab := &fakeCollab{}
	recorder := &fakeRecorder{}
	b := newTestBulk(collab, recorder)

	report := domain.Report{ID: "r1", Status: domain.ReportStatusPending, CreatedAt: now}
	reportItems := Normalize([]domain.Report{report}, nil, nil)
	items := []domain.QueueItem{
		reportItems[0],
		userQueueItem(suspendedUser("u1", domain.SuspensionTypeUser, now)),
	}

	results := b.Run(context.Background(), items, BulkModeReactivate, domain.ActionRequest{Actor: "mod-1"})

	require.Len(t, results, 2)
	assert.True(t, results[0].OK)
	assert.True(t, results[0].Skipped)
	assert.Empty(t, results[0].Action)
	assert.True(t, results[1].OK)
	assert.False(t, results[1].Skipped)

	// the skipped report produced no mutation and no log entry
	assert.Len(t, collab.applied(), 1)
	assert.Len(t, recorder.recorded(), 1)
}

func TestBulkRunRefusedReversalReportsFailure(t *testing.T) {
	now := time.Now()
	collab := &fakeCollab{}
	recorder := &fakeRecorder{}
	b := newTestBulk(collab, recorder)

	// admin suspension is mapped to verify, then refused by the dispatcher
	items := []domain.QueueItem{
		userQueueItem(suspendedUser("u1", domain.SuspensionTypeAdmin, now)),
	}

	results := b.Run(context.Background(), items, BulkModeReactivate, domain.ActionRequest{Actor: "mod-1"})

	require.Len(t, results, 1)
	assert.False(t, results[0].OK)
	assert.ErrorIs(t, results[0].Err, ErrActionFailed)
	assert.Empty(t, collab.applied())
	assert.Empty(t, recorder.recorded())
}

func TestBulkRunEmptySelection(t *testing.T) {
	collab := &fakeCollab{}
	b := newTestBulk(collab, &fakeRecorder{})

	results := b.Run(context.Background(), nil, BulkModeSuspend, domain.ActionRequest{Actor: "mod-1"})
	assert.Empty(t, results)
	assert.Zero(t, collab.refreshes())
}
