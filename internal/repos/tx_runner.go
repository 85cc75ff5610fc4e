package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"palletbay/internal/domain"
)

// Tx holds repos bound to one open transaction.
type Tx struct {
	Products  *ProductRepo
	Clients   *ClientRepo
	Inventory *InventoryRepo
}

// TxRunner runs callbacks inside a database transaction.
type TxRunner struct {
	db *sqlx.DB
}

func NewTxRunner(db *sqlx.DB) *TxRunner { return &TxRunner{db: db} }

// Run begins a transaction, hands fn repos bound to it and commits when fn
// returns nil. Any error rolls everything back, so a failed mutation leaves
// no partial effect.
func (r *TxRunner) Run(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.Storage("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(Tx{
		Products:  NewProductRepo(tx),
		Clients:   NewClientRepo(tx),
		Inventory: NewInventoryRepo(tx),
	}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return domain.Storage("commit transaction", fmt.Errorf("commit: %w", err))
	}
	return nil
}
