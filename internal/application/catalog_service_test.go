package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	addonDomain "github.com/staybook/service-booking/internal/domain/addon"
	"github.com/staybook/service-booking/internal/domain/pricing"
	roomDomain "github.com/staybook/service-booking/internal/domain/room"
)

func TestCatalogService_Rooms(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.catalog.CreateRoom(ctx, CreateRoomRequest{
		Name: "Garden Suite", Type: "suite", NightlyRate: 900000, Capacity: 4,
		Amenities: []string{"balcony", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"balcony"}, created.Amenities)

	got, err := env.catalog.GetRoom(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Garden Suite", got.Name)
	assert.Equal(t, 4, got.Capacity)

	_, err = env.catalog.GetRoom(ctx, uuid.New())
	assert.ErrorIs(t, err, roomDomain.ErrRoomNotFound)

	_, err = env.catalog.CreateRoom(ctx, CreateRoomRequest{Name: "Broken", NightlyRate: 0, Capacity: 1})
	assert.ErrorIs(t, err, roomDomain.ErrInvalidRoom)
}

func TestCatalogService_AddOns(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	created, err := env.catalog.CreateAddOn(ctx, CreateAddOnRequest{Code: "Late_Checkout", Mode: "per_stay", UnitPrice: 150000})
	require.NoError(t, err)
	assert.Equal(t, "late_checkout", created.Code)
	assert.Equal(t, pricing.ModePerStay, created.Mode)

	list, err := env.catalog.ListAddOns(ctx)
	require.NoError(t, err)
	codes := make([]string, len(list))
	for i, a := range list {
		codes[i] = a.Code
	}
	assert.Equal(t, []string{"airport_pickup", "breakfast", "late_checkout"}, codes)

	_, err = env.catalog.CreateAddOn(ctx, CreateAddOnRequest{Code: "x", Mode: "hourly"})
	assert.ErrorIs(t, err, pricing.ErrUnknownMode)

	_, err = env.catalog.CreateAddOn(ctx, CreateAddOnRequest{Code: " ", Mode: "one_time"})
	assert.ErrorIs(t, err, addonDomain.ErrInvalidAddOn)
}
