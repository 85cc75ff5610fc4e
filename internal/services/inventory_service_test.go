package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"palletbay/internal/domain"
)

func TestAdminViewJoinsNames(t *testing.T) {
	e := newEnv(t)
	id := e.inbound(t, e.clientA, 50, "B3", domain.PalletEuro)

	views, err := e.inv.AdminView(context.Background(), e.admin())
	require.NoError(t, err)
	require.Len(t, views, 1)
	v := views[0]
	assert.Equal(t, id, v.ID)
	assert.Equal(t, "Impresora Laser", v.ProductName)
	assert.Equal(t, "PRD001", v.SKU)
	assert.Equal(t, "Cliente Demo", v.ClientName)
	assert.Equal(t, 50, v.Quantity)
	assert.Equal(t, "B3", v.Location)
	assert.Equal(t, domain.PalletEuro, v.PalletType)
}

func TestClientViewIsolation(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	mine := e.inbound(t, e.clientA, 50, "B3", domain.PalletEuro)
	e.inbound(t, e.clientB, 7, "A9", domain.PalletStandard)

	views, err := e.inv.ClientView(ctx, e.as(e.clientA))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, mine, views[0].ID)
	assert.Equal(t, "Impresora Laser", views[0].ProductName)
	assert.Empty(t, views[0].ClientName)

	other, err := e.inv.ClientView(ctx, e.as(e.clientB))
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.NotEqual(t, mine, other[0].ID)

	all, err := e.inv.AdminView(ctx, e.admin())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestClientViewEmptyIsNotNil(t *testing.T) {
	e := newEnv(t)
	views, err := e.inv.ClientView(context.Background(), e.as(e.clientB))
	require.NoError(t, err)
	assert.NotNil(t, views)
	assert.Empty(t, views)
}

func TestViewsRequireRole(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	_, err := e.inv.AdminView(ctx, e.as(e.clientA))
	assert.ErrorIs(t, err, domain.ErrAuthorization)
	_, err = e.inv.AdminView(ctx, domain.Identity{})
	assert.ErrorIs(t, err, domain.ErrAuthorization)

	_, err = e.inv.ClientView(ctx, e.admin())
	assert.ErrorIs(t, err, domain.ErrAuthorization)
	_, err = e.inv.ClientView(ctx, domain.Identity{Role: domain.RoleClient})
	assert.ErrorIs(t, err, domain.ErrAuthorization)
}

func TestViewsReflectOutbound(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	id := e.inbound(t, e.clientA, 10, "A1", domain.PalletStandard)

	_, err := e.stock.Outbound(ctx, id, 4)
	require.NoError(t, err)
	views, err := e.inv.ClientView(ctx, e.as(e.clientA))
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, 6, views[0].Quantity)

	_, err = e.stock.Outbound(ctx, id, 6)
	require.NoError(t, err)
	views, err = e.inv.ClientView(ctx, e.as(e.clientA))
	require.NoError(t, err)
	assert.Empty(t, views)
}
