package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"palletbay/internal/domain"
)

type ProductRepo struct{ q Querier }

func NewProductRepo(q Querier) *ProductRepo { return &ProductRepo{q: q} }

const productCols = `id, sku, name, COALESCE(description,'') AS description, weight`

func (r *ProductRepo) Create(ctx context.Context, p domain.Product) (int64, error) {
	var id int64
	err := sqlx.GetContext(ctx, r.q, &id, r.q.Rebind(`
		INSERT INTO products(sku, name, description, weight)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`), p.SKU, p.Name, p.Description, p.Weight)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domain.Validationf("sku %q already exists", p.SKU)
		}
		return 0, domain.Storage("create product", err)
	}
	return id, nil
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var p domain.Product
	err := sqlx.GetContext(ctx, r.q, &p, r.q.Rebind(`SELECT `+productCols+` FROM products WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.Storage("get product", err)
	}
	return &p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	out := []domain.Product{}
	if err := sqlx.SelectContext(ctx, r.q, &out, `SELECT `+productCols+` FROM products ORDER BY id`); err != nil {
		return nil, domain.Storage("list products", err)
	}
	return out, nil
}

// Update replaces every mutable field. The sku is the product's display
// identity and is left untouched.
func (r *ProductRepo) Update(ctx context.Context, p domain.Product) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
		UPDATE products SET name = ?, description = ?, weight = ?
		WHERE id = ?
	`), p.Name, p.Description, p.Weight, p.ID)
	if err != nil {
		return domain.Storage("update product", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("product %d: %w", p.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *ProductRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, r.q.Rebind(`SELECT COUNT(*) FROM products WHERE id = ?`), id); err != nil {
		return false, domain.Storage("check product", err)
	}
	return n > 0, nil
}
