package repos_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"palletbay/internal/domain"
	"palletbay/internal/repos"
)

// testDB opens a migrated sqlite file under t.TempDir so concurrent
// connections share one database.
func testDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := repos.OpenDB("sqlite", filepath.Join(t.TempDir(), "palletbay.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, repos.Migrate(context.Background(), db))
	return db
}

type fixture struct {
	productID int64
	clientID  int64
}

func seed(t *testing.T, db *sqlx.DB) fixture {
	t.Helper()
	ctx := context.Background()
	pid, err := repos.NewProductRepo(db).Create(ctx, domain.Product{
		SKU: "PRD001", Name: "Impresora Laser", Description: "Impresora de alta velocidad",
		Weight: decimal.RequireFromString("15.5"),
	})
	require.NoError(t, err)
	cid, err := repos.NewClientRepo(db).Create(ctx, domain.Client{
		Name: "Cliente Demo", Email: "cliente@demo.com", Hash: "x", Role: domain.RoleClient, CUIT: "20-12345678-9",
	})
	require.NoError(t, err)
	return fixture{productID: pid, clientID: cid}
}
