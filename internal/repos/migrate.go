package repos

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type migration struct {
	Version  int
	Name     string
	SQLite   []string
	Postgres []string
}

// migrations is append-only: never edit a released step, add a new one.
var migrations = []migration{
	{
		Version: 1,
		Name:    "catalog_and_inventory",
		SQLite: []string{
			`CREATE TABLE clients(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'client' CHECK (role IN ('admin','client'))
)`,
			`CREATE UNIQUE INDEX idx_clients_email ON clients(LOWER(email))`,
			`CREATE TABLE products(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  weight REAL NOT NULL DEFAULT 0 CHECK (weight >= 0)
)`,
			`CREATE TABLE inventory(
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  client_id INTEGER NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  location TEXT NOT NULL,
  pallet_type TEXT NOT NULL CHECK (pallet_type IN ('Standard','Euro','Especial')),
  date_entry TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`,
		},
		Postgres: []string{
			`CREATE TABLE clients(
  id BIGSERIAL PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL DEFAULT 'client' CHECK (role IN ('admin','client'))
)`,
			`CREATE UNIQUE INDEX idx_clients_email ON clients(LOWER(email))`,
			`CREATE TABLE products(
  id BIGSERIAL PRIMARY KEY,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  description TEXT,
  weight NUMERIC(12,3) NOT NULL DEFAULT 0 CHECK (weight >= 0)
)`,
			`CREATE TABLE inventory(
  id BIGSERIAL PRIMARY KEY,
  product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE RESTRICT,
  client_id BIGINT NOT NULL REFERENCES clients(id) ON DELETE RESTRICT,
  quantity INTEGER NOT NULL CHECK (quantity > 0),
  location TEXT NOT NULL,
  pallet_type TEXT NOT NULL CHECK (pallet_type IN ('Standard','Euro','Especial')),
  date_entry TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		},
	},
	{
		Version:  2,
		Name:     "clients_cuit",
		SQLite:   []string{`ALTER TABLE clients ADD COLUMN cuit TEXT`},
		Postgres: []string{`ALTER TABLE clients ADD COLUMN cuit TEXT`},
	},
	{
		Version: 3,
		Name:    "single_admin_and_lookup_indexes",
		SQLite: []string{
			`CREATE UNIQUE INDEX idx_clients_single_admin ON clients(role) WHERE role = 'admin'`,
			`CREATE INDEX idx_inventory_client ON inventory(client_id)`,
			`CREATE INDEX idx_inventory_product ON inventory(product_id)`,
		},
		Postgres: []string{
			`CREATE UNIQUE INDEX idx_clients_single_admin ON clients(role) WHERE role = 'admin'`,
			`CREATE INDEX idx_inventory_client ON inventory(client_id)`,
			`CREATE INDEX idx_inventory_product ON inventory(product_id)`,
		},
	},
}

// Migrate applies every pending migration, each in its own transaction,
// and records it in schema_migrations. Already-applied versions are skipped.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations(
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at TEXT NOT NULL
)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied, err := AppliedVersions(ctx, db)
	if err != nil {
		return err
	}
	done := make(map[int]bool, len(applied))
	for _, v := range applied {
		done[v] = true
	}

	for _, m := range migrations {
		if done[m.Version] {
			continue
		}
		stmts := m.SQLite
		if isPostgres(db) {
			stmts = m.Postgres
		}
		if err := applyMigration(ctx, db, m, stmts); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
	}
	return nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, m migration, stmts []string) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, s := range stmts {
		if _, err := tx.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		tx.Rebind(`INSERT INTO schema_migrations(version, name, applied_at) VALUES (?, ?, ?)`),
		m.Version, m.Name, time.Now().UTC().Format(time.RFC3339),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// AppliedVersions lists recorded migration versions in ascending order.
func AppliedVersions(ctx context.Context, db *sqlx.DB) ([]int, error) {
	var out []int
	if err := db.SelectContext(ctx, &out, `SELECT version FROM schema_migrations ORDER BY version`); err != nil {
		return nil, fmt.Errorf("list schema_migrations: %w", err)
	}
	return out, nil
}

// LatestVersion is the schema version the code expects.
func LatestVersion() int { return migrations[len(migrations)-1].Version }
