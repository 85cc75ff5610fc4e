package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"palletbay/internal/domain"
)

// InventoryRepo is the ledger: one row per stock placement. Rows never
// hold a non-positive quantity; callers delete instead.
type InventoryRepo struct{ q Querier }

func NewInventoryRepo(q Querier) *InventoryRepo { return &InventoryRepo{q: q} }

const entryCols = `i.id, i.product_id, i.client_id, i.quantity, i.location, i.pallet_type, i.date_entry`

// Create inserts a new placement. Entries are never merged with existing
// rows for the same product, client and location.
func (r *InventoryRepo) Create(ctx context.Context, e domain.NewEntry) (int64, error) {
	if err := checkPlacement(e.Quantity, e.PalletType); err != nil {
		return 0, err
	}
	if err := r.checkRefs(ctx, e.ProductID, e.ClientID); err != nil {
		return 0, err
	}

	var id int64
	err := sqlx.GetContext(ctx, r.q, &id, r.q.Rebind(`
		INSERT INTO inventory(product_id, client_id, quantity, location, pallet_type)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`), e.ProductID, e.ClientID, e.Quantity, e.Location, e.PalletType)
	if err != nil {
		if isForeignKeyViolation(err) {
			return 0, domain.Referencef("product %d or client %d does not exist", e.ProductID, e.ClientID)
		}
		return 0, domain.Storage("create inventory entry", err)
	}
	return id, nil
}

func (r *InventoryRepo) checkRefs(ctx context.Context, productID, clientID int64) error {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, r.q.Rebind(`SELECT COUNT(*) FROM products WHERE id = ?`), productID); err != nil {
		return domain.Storage("check product", err)
	}
	if n == 0 {
		return domain.Referencef("product %d does not exist", productID)
	}
	if err := sqlx.GetContext(ctx, r.q, &n, r.q.Rebind(`SELECT COUNT(*) FROM clients WHERE id = ?`), clientID); err != nil {
		return domain.Storage("check client", err)
	}
	if n == 0 {
		return domain.Referencef("client %d does not exist", clientID)
	}
	return nil
}

func (r *InventoryRepo) Get(ctx context.Context, id int64) (*domain.Entry, error) {
	return r.get(ctx, id, "")
}

// GetForUpdate reads an entry and locks it until the transaction ends.
// Only meaningful on a repo bound to a transaction.
func (r *InventoryRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Entry, error) {
	return r.get(ctx, id, forUpdate(r.q))
}

func (r *InventoryRepo) get(ctx context.Context, id int64, suffix string) (*domain.Entry, error) {
	var e domain.Entry
	err := sqlx.GetContext(ctx, r.q, &e, r.q.Rebind(`SELECT `+entryCols+` FROM inventory i WHERE i.id = ?`+suffix), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("inventory entry %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.Storage("get inventory entry", err)
	}
	return &e, nil
}

// Replace overwrites quantity, location and pallet type of an entry.
func (r *InventoryRepo) Replace(ctx context.Context, id int64, quantity int, location, pallet string) error {
	if err := checkPlacement(quantity, pallet); err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
		UPDATE inventory SET quantity = ?, location = ?, pallet_type = ?
		WHERE id = ?
	`), quantity, location, pallet, id)
	if err != nil {
		return domain.Storage("replace inventory entry", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("inventory entry %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ReplaceIfQuantity is Replace guarded by the quantity the caller read.
// It fails with ErrConflict when the persisted quantity moved since then
// or the row is gone.
func (r *InventoryRepo) ReplaceIfQuantity(ctx context.Context, id int64, expected, quantity int, location, pallet string) error {
	if err := checkPlacement(quantity, pallet); err != nil {
		return err
	}
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
		UPDATE inventory SET quantity = ?, location = ?, pallet_type = ?
		WHERE id = ? AND quantity = ?
	`), quantity, location, pallet, id, expected)
	if err != nil {
		return domain.Storage("replace inventory entry", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("inventory entry %d: %w", id, domain.ErrConflict)
	}
	return nil
}

// Remove deletes an entry. Removing an absent id is not an error.
func (r *InventoryRepo) Remove(ctx context.Context, id int64) error {
	if _, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM inventory WHERE id = ?`), id); err != nil {
		return domain.Storage("remove inventory entry", err)
	}
	return nil
}

// RemoveIfQuantity deletes the entry only while it still holds expected.
func (r *InventoryRepo) RemoveIfQuantity(ctx context.Context, id int64, expected int) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM inventory WHERE id = ? AND quantity = ?`), id, expected)
	if err != nil {
		return domain.Storage("remove inventory entry", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("inventory entry %d: %w", id, domain.ErrConflict)
	}
	return nil
}

// ListAll returns every entry with product and client display fields,
// in insertion order.
func (r *InventoryRepo) ListAll(ctx context.Context) ([]domain.EntryView, error) {
	out := []domain.EntryView{}
	err := sqlx.SelectContext(ctx, r.q, &out, `
		SELECT `+entryCols+`, p.name AS product_name, p.sku, c.name AS client_name
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		JOIN clients c ON c.id = i.client_id
		ORDER BY i.id
	`)
	if err != nil {
		return nil, domain.Storage("list inventory", err)
	}
	return out, nil
}

// ListByClient returns the entries owned by one client, without the
// client name column.
func (r *InventoryRepo) ListByClient(ctx context.Context, clientID int64) ([]domain.EntryView, error) {
	out := []domain.EntryView{}
	err := sqlx.SelectContext(ctx, r.q, &out, r.q.Rebind(`
		SELECT `+entryCols+`, p.name AS product_name, p.sku
		FROM inventory i
		JOIN products p ON p.id = i.product_id
		WHERE i.client_id = ?
		ORDER BY i.id
	`), clientID)
	if err != nil {
		return nil, domain.Storage("list client inventory", err)
	}
	return out, nil
}

func (r *InventoryRepo) CountByClient(ctx context.Context, clientID int64) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, r.q.Rebind(`SELECT COUNT(*) FROM inventory WHERE client_id = ?`), clientID); err != nil {
		return 0, domain.Storage("count client inventory", err)
	}
	return n, nil
}

func (r *InventoryRepo) CountByProduct(ctx context.Context, productID int64) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, r.q.Rebind(`SELECT COUNT(*) FROM inventory WHERE product_id = ?`), productID); err != nil {
		return 0, domain.Storage("count product inventory", err)
	}
	return n, nil
}

func checkPlacement(quantity int, pallet string) error {
	if quantity <= 0 || quantity > domain.MaxQuantity {
		return domain.ErrBadQuantity
	}
	if !domain.ValidPalletType(pallet) {
		return domain.ErrBadPalletType
	}
	return nil
}
