package gateway

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/moderation-service/internal/domain"
	"github.com/spec-kit/moderation-service/internal/moderation"
)

type fakeListingRepo struct {
	listings []domain.Listing
	listErr  error

	suspended   map[string]domain.Suspension
	unsuspended []string
}

func (r *fakeListingRepo) List(ctx context.Context, limit int) ([]domain.Listing, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	if limit > 0 && len(r.listings) > limit {
		return r.listings[:limit], nil
	}
	return r.listings, nil
}

func (r *fakeListingRepo) GetByID(ctx context.Context, id string) (*domain.Listing, error) {
	for i := range r.listings {
		if r.listings[i].ID == id {
			return &r.listings[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeListingRepo) Suspend(ctx context.Context, id string, susp domain.Suspension) error {
	if r.suspended == nil {
		r.suspended = make(map[string]domain.Suspension)
	}
	r.suspended[id] = susp
	return nil
}

func (r *fakeListingRepo) Unsuspend(ctx context.Context, id string) error {
	r.unsuspended = append(r.unsuspended, id)
	return nil
}

type fakeUserRepo struct {
	users []domain.User

	suspended map[string]domain.Suspension
	verified  []string
}

func (r *fakeUserRepo) List(ctx context.Context, limit int) ([]domain.User, error) {
	return r.users, nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for i := range r.users {
		if r.users[i].ID == id {
			return &r.users[i], nil
		}
	}
	return nil, errors.New("not found")
}

func (r *fakeUserRepo) Suspend(ctx context.Context, id string, susp domain.Suspension) error {
	if r.suspended == nil {
		r.suspended = make(map[string]domain.Suspension)
	}
	r.suspended[id] = susp
	return nil
}

func (r *fakeUserRepo) Verify(ctx context.Context, id string) error {
	r.verified = append(r.verified, id)
	return nil
}

func TestListingGatewayRefresh(t *testing.T) {
	repo := &fakeListingRepo{listings: []domain.Listing{{ID: "l1"}, {ID: "l2"}}}
	g := NewListingGateway(repo, 500, zap.NewNop())

	assert.Empty(t, g.Listings())
	require.NoError(t, g.Refresh(context.Background()))
	assert.Len(t, g.Listings(), 2)

	repo.listErr = errors.New("db down")
	assert.Error(t, g.Refresh(context.Background()))
	// the previous snapshot survives a failed refresh
	assert.Len(t, g.Listings(), 2)
}

func TestListingGatewaySuspendStampsAdminProvenance(t *testing.T) {
	repo := &fakeListingRepo{}
	g := NewListingGateway(repo, 500, zap.NewNop())

	dur := 72 * time.Hour
	ok, err := g.ApplyAction(context.Background(), "l1", domain.ActionRequest{
		Type:     moderation.ActionSuspendListing,
		Actor:    "mod-4",
		Reason:   "prohibited item",
		Duration: &dur,
	})

	require.NoError(t, err)
	assert.True(t, ok)
	susp := repo.suspended["l1"]
	assert.Equal(t, domain.SuspensionTypeAdmin, susp.Type)
	assert.Equal(t, "mod-4", susp.By)
	assert.Equal(t, "prohibited item", susp.Reason)
	require.NotNil(t, susp.Until)
	assert.WithinDuration(t, time.Now().UTC().Add(dur), *susp.Until, time.Minute)
}

func TestListingGatewayUnsuspend(t *testing.T) {
	repo := &fakeListingRepo{}
	g := NewListingGateway(repo, 500, zap.NewNop())

	ok, err := g.ApplyAction(context.Background(), "l1", domain.ActionRequest{Type: moderation.ActionUnsuspend, Actor: "mod-4"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"l1"}, repo.unsuspended)
}

func TestListingGatewayRejectsForeignAction(t *testing.T) {
	g := NewListingGateway(&fakeListingRepo{}, 500, zap.NewNop())

	ok, err := g.ApplyAction(context.Background(), "l1", domain.ActionRequest{Type: moderation.ActionVerify})
	assert.False(t, ok)
	assert.Error(t, err)
}

func TestUserGatewayActions(t *testing.T) {
	repo := &fakeUserRepo{}
	g := NewUserGateway(repo, 500, zap.NewNop())

	ok, err := g.ApplyAction(context.Background(), "u1", domain.ActionRequest{
		Type:   moderation.ActionSuspendUser,
		Actor:  "mod-2",
		Reason: "fraud review",
	})
	require.NoError(t, err)
	assert.True(t, ok)
	susp := repo.suspended["u1"]
	assert.Equal(t, domain.SuspensionTypeAdmin, susp.Type)
	assert.Equal(t, "mod-2", susp.By)
	assert.Nil(t, susp.Until)

	ok, err = g.ApplyAction(context.Background(), "u1", domain.ActionRequest{Type: moderation.ActionVerify})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"u1"}, repo.verified)
}
