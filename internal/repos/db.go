package repos

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Querier is satisfied by *sqlx.DB and *sqlx.Tx, so every repo can run
// either standalone or bound to a transaction.
type Querier interface {
	sqlx.ExtContext
}

const (
	driverSQLite   = "sqlite"
	driverPostgres = "pgx"
)

// OpenDB opens the store and checks it is reachable. Schema changes are
// not applied here; call Migrate before serving requests.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	if driver == "" {
		driver = driverSQLite
	}
	if driver == driverSQLite {
		dsn = sqliteDSN(dsn)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == driverSQLite && strings.Contains(dsn, ":memory:") {
		// every new connection would see its own empty database
		db.SetMaxOpenConns(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// sqliteDSN turns on foreign keys, waits on locks instead of failing, and
// makes BEGIN take the write lock up front so a read-then-write
// transaction cannot interleave with another writer.
func sqliteDSN(dsn string) string {
	params := []struct{ marker, param string }{
		{"foreign_keys", "_pragma=foreign_keys(1)"},
		{"busy_timeout", "_pragma=busy_timeout(5000)"},
		{"_txlock", "_txlock=immediate"},
	}
	if !strings.Contains(dsn, ":memory:") {
		params = append(params, struct{ marker, param string }{"journal_mode", "_pragma=journal_mode(WAL)"})
	}
	var add []string
	for _, p := range params {
		if !strings.Contains(dsn, p.marker) {
			add = append(add, p.param)
		}
	}
	if len(add) == 0 {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + strings.Join(add, "&")
}

func isPostgres(q Querier) bool { return q.DriverName() == driverPostgres }

// forUpdate returns the row-lock suffix for SELECTs inside a transaction.
// SQLite already holds the database write lock from BEGIN IMMEDIATE.
func forUpdate(q Querier) string {
	if isPostgres(q) {
		return " FOR UPDATE"
	}
	return ""
}
