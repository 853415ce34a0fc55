package moderation

import (
	"context"
	"sync"
	"time"

	"github.com/spec-kit/moderation-service/internal/audit"
	"github.com/spec-kit/moderation-service/internal/domain"
)

// seqLog records the order of collaborator and recorder side effects.
type seqLog struct {
	mu  sync.Mutex
	seq []string
}

func (l *seqLog) add(step string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq = append(l.seq, step)
}

func (l *seqLog) steps() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.seq))
	copy(out, l.seq)
	return out
}

// fakeCollab implements all three source interfaces with scripted outcomes.
type fakeCollab struct {
	mu           sync.Mutex
	reports      []domain.Report
	listings     []domain.Listing
	users        []domain.User
	failIDs      map[string]bool
	applyCalls   []string
	refreshCalls int

	log     *seqLog
	started chan struct{} // closed when ApplyAction begins, if set
	block   chan struct{} // ApplyAction waits on this, if set

	startOnce sync.Once
}

func (f *fakeCollab) Reports() []domain.Report   { return f.reports }
func (f *fakeCollab) Listings() []domain.Listing { return f.listings }
func (f *fakeCollab) Users() []domain.User       { return f.users }

func (f *fakeCollab) Refresh(ctx context.Context) error {
	f.mu.Lock()
	f.refreshCalls++
	f.mu.Unlock()
	if f.log != nil {
		f.log.add("refresh")
	}
	return nil
}

func (f *fakeCollab) ApplyAction(ctx context.Context, id string, req domain.ActionRequest) (bool, error) {
	if f.started != nil {
		f.startOnce.Do(func() { close(f.started) })
	}
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	f.applyCalls = append(f.applyCalls, id+":"+req.Type)
	fail := f.failIDs[id]
	f.mu.Unlock()

	if f.log != nil {
		f.log.add("apply")
	}
	return !fail, nil
}

func (f *fakeCollab) applied() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.applyCalls))
	copy(out, f.applyCalls)
	return out
}

func (f *fakeCollab) refreshes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshCalls
}

// fakeRecorder captures decision entries.
type fakeRecorder struct {
	mu      sync.Mutex
	entries []audit.Entry
	log     *seqLog
}

func (r *fakeRecorder) Append(ctx context.Context, entry audit.Entry) bool {
	r.mu.Lock()
	r.entries = append(r.entries, entry)
	r.mu.Unlock()
	if r.log != nil {
		r.log.add("append")
	}
	return true
}

func (r *fakeRecorder) recorded() []audit.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]audit.Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

func collabsFor(f *fakeCollab) Collaborators {
	return Collaborators{Reports: f, Listings: f, Users: f}
}

func suspendedUser(id string, suspType domain.SuspensionType, createdAt time.Time) domain.User {
	return domain.User{
		ID:          id,
		DisplayName: "user " + id,
		Email:       id + "@example.com",
		Status:      domain.UserStatusSuspended,
		RiskLevel:   domain.RiskLevelLow,
		Suspension:  domain.Suspension{Type: suspType, Reason: "tos violation"},
		CreatedAt:   createdAt,
	}
}

func userQueueItem(u domain.User) domain.QueueItem {
	items := Normalize(nil, nil, []domain.User{u})
	return items[0]
}
