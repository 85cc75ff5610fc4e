package services_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"palletbay/internal/domain"
	"palletbay/internal/repos"
	"palletbay/internal/services"
	"palletbay/internal/token"
)

type env struct {
	db      *sqlx.DB
	auth    *services.AuthService
	catalog *services.CatalogService
	stock   *services.StockService
	inv     *services.InventoryService

	adminID   int64
	productID int64
	clientA   int64
	clientB   int64
}

func (e *env) admin() domain.Identity {
	return domain.Identity{ClientID: e.adminID, Role: domain.RoleAdmin}
}

func (e *env) as(clientID int64) domain.Identity {
	return domain.Identity{ClientID: clientID, Role: domain.RoleClient}
}

// newEnv wires the services over a fresh sqlite file with one admin, two
// clients and one product.
func newEnv(t testing.TB) *env {
	t.Helper()
	ctx := context.Background()
	db, err := repos.OpenDB("sqlite", filepath.Join(t.TempDir(), "palletbay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repos.Migrate(ctx, db))

	tx := repos.NewTxRunner(db)
	clients := repos.NewClientRepo(db)
	e := &env{
		db:      db,
		auth:    services.NewAuthService(clients, token.NewIssuer("test-secret", "palletbay-test", time.Hour)),
		catalog: services.NewCatalogService(repos.NewProductRepo(db), clients, tx),
		stock:   services.NewStockService(tx),
		inv:     services.NewInventoryService(repos.NewInventoryRepo(db)),
	}

	_, err = e.auth.EnsureAdmin(ctx, "Admin", "admin@palletbay.test", "Admin123!")
	require.NoError(t, err)
	admin, err := clients.Admin(ctx)
	require.NoError(t, err)
	e.adminID = admin.ID

	e.productID, err = e.catalog.CreateProduct(ctx, services.ProductInput{
		SKU: "PRD001", Name: "Impresora Laser", Weight: decimal.RequireFromString("15.5"),
	})
	require.NoError(t, err)
	e.clientA, err = e.catalog.CreateClient(ctx, services.ClientInput{
		Name: "Cliente Demo", Email: "cliente@demo.com", Password: "Client123!", CUIT: "20-12345678-9",
	})
	require.NoError(t, err)
	e.clientB, err = e.catalog.CreateClient(ctx, services.ClientInput{
		Name: "Otro Cliente", Email: "otro@demo.com", Password: "Client123!",
	})
	require.NoError(t, err)
	return e
}

func (e *env) inbound(t testing.TB, clientID int64, qty int, loc, pallet string) int64 {
	t.Helper()
	id, err := e.stock.Inbound(context.Background(), services.InboundInput{
		ProductID: e.productID, ClientID: clientID, Quantity: qty, Location: loc, PalletType: pallet,
	})
	require.NoError(t, err)
	return id
}

func (e *env) entry(t testing.TB, id int64) (*domain.Entry, error) {
	t.Helper()
	return repos.NewInventoryRepo(e.db).Get(context.Background(), id)
}
