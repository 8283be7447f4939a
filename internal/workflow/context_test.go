package workflow

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatedlife/community-server/internal/models"
)

func TestCurrentApartmentLazyInit(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	first := e.approve(e.owner.ID, e.apartment.ID, models.OwnershipOwner)
	second := e.addApartment("B-201")
	later := e.approve(e.owner.ID, second.ID, models.OwnershipOwner)
	later.CreatedAt = first.CreatedAt.Add(time.Hour)

	apCtx, ownership, err := e.resolver.CurrentApartment(ctx, e.owner.ID)
	require.NoError(t, err)

	// Earliest approved ownership wins
	assert.Equal(t, e.apartment.ID, apCtx.CurrentApartmentID)
	assert.Equal(t, models.OwnershipOwner, ownership.OwnershipType)

	// The pointer is persisted, not recomputed
	again, _, err := e.resolver.CurrentApartment(ctx, e.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, apCtx.CurrentApartmentID, again.CurrentApartmentID)
}

func TestCurrentApartmentNoAccess(t *testing.T) {
	e := newEnv(t)

	_, _, err := e.resolver.CurrentApartment(context.Background(), e.owner.ID)
	require.Error(t, err)
	assert.Equal(t, KindNotFound, KindOf(err))
}

func TestCurrentApartmentStalePointerReinitialized(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	revoked := e.addApartment("C-301")
	o := e.approve(e.owner.ID, revoked.ID, models.OwnershipOwner)
	require.NoError(t, e.store.SaveApartmentContext(ctx, e.owner.ID, revoked.ID))

	// Revoke access to the pointed-at apartment, keep another
	o.IsAdminApproved = false
	e.approve(e.owner.ID, e.apartment.ID, models.OwnershipOwner)

	apCtx, _, err := e.resolver.CurrentApartment(ctx, e.owner.ID)
	require.NoError(t, err)
	assert.Equal(t, e.apartment.ID, apCtx.CurrentApartmentID)
}

func TestSwitchApartment(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	e.approve(e.owner.ID, e.apartment.ID, models.OwnershipOwner)
	second := e.addApartment("B-201")
	e.approve(e.owner.ID, second.ID, models.OwnershipTenant)

	apCtx, err := e.resolver.SwitchApartment(ctx, e.owner.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, apCtx.CurrentApartmentID)
}

func TestSwitchApartmentWithoutAccess(t *testing.T) {
	e := newEnv(t)

	e.approve(e.owner.ID, e.apartment.ID, models.OwnershipOwner)
	second := e.addApartment("B-201")

	_, err := e.resolver.SwitchApartment(context.Background(), e.owner.ID, second.ID)
	require.Error(t, err)
	assert.Equal(t, KindForbidden, KindOf(err))
}

func TestListApartments(t *testing.T) {
	e := newEnv(t)

	e.approve(e.owner.ID, e.apartment.ID, models.OwnershipOwner)
	second := e.addApartment("B-201")
	e.approve(e.owner.ID, second.ID, models.OwnershipTenant)

	access, err := e.resolver.ListApartments(context.Background(), e.owner.ID)
	require.NoError(t, err)
	require.Len(t, access, 2)
	assert.Equal(t, "Green Meadows", access[0].CommunityName)
}
