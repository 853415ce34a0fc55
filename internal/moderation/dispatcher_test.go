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

func newTestDispatcher(collab *fakeCollab, recorder *fakeRecorder) *Dispatcher {
	return NewDispatcher(collabsFor(collab), recorder, nil, nil, zap.NewNop())
}

func TestDispatchRejectsIllegalAction(t *testing.T) {
	collab := &fakeCollab{}
	recorder := &fakeRecorder{}
	d := newTestDispatcher(collab, recorder)

	item := userQueueItem(suspendedUser("u1", domain.SuspensionTypeUser, time.Now()))

	// report-only actions are illegal for user items
	ok := d.Dispatch(context.Background(), item, ActionApprove, domain.ActionRequest{Actor: "mod-1"})

	assert.False(t, ok)
	assert.Empty(t, collab.applied())
	assert.Empty(t, recorder.recorded())
}

func TestDispatchRefusesNonSelfServiceReversal(t *testing.T) {
	collab := &fakeCollab{}
	recorder := &fakeRecorder{}
	d := newTestDispatcher(collab, recorder)

	tests := []struct {
		name     string
		suspType domain.SuspensionType
		want     bool
	}{
		{"admin suspension", domain.SuspensionTypeAdmin, false},
		{"system suspension", domain.SuspensionTypeSystem, false},
		{"user suspension", domain.SuspensionTypeUser, true},
		{"legacy row without provenance", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := userQueueItem(suspendedUser("u-"+tt.name, tt.suspType, time.Now()))
			ok := d.Dispatch(context.Background(), item, ActionVerify, domain.ActionRequest{Actor: "mod-1"})
			assert.Equal(t, tt.want, ok)
		})
	}

	// the two refusals must have produced no mutation and no log entry
	assert.Len(t, collab.applied(), 2)
	assert.Len(t, recorder.recorded(), 2)
}

func TestDispatchRecordsDecisionOnSuccess(t *testing.T) {
	collab := &fakeCollab{}
	recorder := &fakeRecorder{}
	d := newTestDispatcher(collab, recorder)

	item := userQueueItem(suspendedUser("u1", domain.SuspensionTypeUser, time.Now()))
	dur := 48 * time.Hour
	req := domain.ActionRequest{
		Reason:     "appeal accepted",
		Actor:      "mod-7",
		NotifyUser: true,
		Duration:   &dur,
	}

	ok := d.Dispatch(context.Background(), item, ActionVerify, req)
	require.True(t, ok)

	entries := recorder.recorded()
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, "user-u1", entry.QueueID)
	assert.Equal(t, domain.KindUser, entry.EntityType)
	assert.Equal(t, "u1", entry.EntityID)
	assert.Equal(t, ActionVerify, entry.Action)
	assert.Equal(t, "appeal accepted", entry.Note)
	assert.Equal(t, "mod-7", entry.CreatedBy)
	assert.Equal(t, true, entry.Meta["notify_user"])
	assert.Equal(t, float64(48), entry.Meta["duration_hours"])
}

func TestDispatchNoAuditOnFailure(t *testing.T) {
	collab := &fakeCollab{failIDs: map[string]bool{"u1": true}}
	recorder := &fakeRecorder{}
	d := newTestDispatcher(collab, recorder)

	item := userQueueItem(suspendedUser("u1", domain.SuspensionTypeUser, time.Now()))
	ok := d.Dispatch(context.Background(), item, ActionVerify, domain.ActionRequest{Actor: "mod-1"})

	assert.False(t, ok)
	assert.Len(t, collab.applied(), 1)
	assert.Empty(t, recorder.recorded())
	assert.Zero(t, collab.refreshes())
}

func TestDispatchAppendsBeforeRefresh(t *testing.T) {
	log := &seqLog{}
	collab := &fakeCollab{log: log}
	recorder := &fakeRecorder{log: log}
	d := newTestDispatcher(collab, recorder)

	item := userQueueItem(suspendedUser("u1", domain.SuspensionTypeUser, time.Now()))
	ok := d.Dispatch(context.Background(), item, ActionVerify, domain.ActionRequest{Actor: "mod-1"})

	require.True(t, ok)
	assert.Equal(t, []string{"apply", "append", "refresh"}, log.steps())
}

func TestDispatchNoRefreshSkipsRefresh(t *testing.T) {
	collab := &fakeCollab{}
	recorder := &fakeRecorder{}
	d := newTestDispatcher(collab, recorder)

	item := userQueueItem(suspendedUser("u1", domain.SuspensionTypeUser, time.Now()))
	ok := d.DispatchNoRefresh(context.Background(), item, ActionVerify, domain.ActionRequest{Actor: "mod-1"})

	require.True(t, ok)
	assert.Zero(t, collab.refreshes())
	assert.Len(t, recorder.recorded(), 1)
}

func TestDispatchSerializesPerItem(t *testing.T) {
	collab := &fakeCollab{
		started: make(chan struct{}),
		block:   make(chan struct{}),
	}
	recorder := &fakeRecorder{}
	d := newTestDispatcher(collab, recorder)

	item := userQueueItem(suspendedUser("u1", domain.SuspensionTypeUser, time.Now()))

	done := make(chan bool, 1)
	go func() {
		done <- d.Dispatch(context.Background(), item, ActionVerify, domain.ActionRequest{Actor: "mod-1"})
	}()

	// wait until the first action holds the busy flag
	<-collab.started
	assert.True(t, d.Busy(item.QueueID))

	// second submission for the same item is rejected outright
	ok := d.Dispatch(context.Background(), item, ActionVerify, domain.ActionRequest{Actor: "mod-2"})
	assert.False(t, ok)

	close(collab.block)
	assert.True(t, <-done)

	assert.Len(t, collab.applied(), 1)
	assert.Len(t, recorder.recorded(), 1)
	assert.False(t, d.Busy(item.QueueID))
}

func TestBusyItems(t *testing.T) {
	collab := &fakeCollab{
		started: make(chan struct{}),
		block:   make(chan struct{}),
	}
	d := newTestDispatcher(collab, &fakeRecorder{})

	item := userQueueItem(suspendedUser("u1", domain.SuspensionTypeUser, time.Now()))

	done := make(chan bool, 1)
	go func() {
		done <- d.Dispatch(context.Background(), item, ActionVerify, domain.ActionRequest{Actor: "mod-1"})
	}()

	<-collab.started
	assert.Equal(t, []string{"user-u1"}, d.BusyItems())

	close(collab.block)
	<-done
	assert.Empty(t, d.BusyItems())
}
