package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"palletbay/internal/domain"
)

type ClientRepo struct{ q Querier }

func NewClientRepo(q Querier) *ClientRepo { return &ClientRepo{q: q} }

const clientCols = `id, name, email, password_hash, role, COALESCE(cuit,'') AS cuit`

func (r *ClientRepo) Create(ctx context.Context, c domain.Client) (int64, error) {
	var id int64
	err := sqlx.GetContext(ctx, r.q, &id, r.q.Rebind(`
		INSERT INTO clients(name, email, password_hash, role, cuit)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`), c.Name, c.Email, c.Hash, c.Role, nullable(c.CUIT))
	if err != nil {
		if isUniqueViolation(err) {
			if c.Role == domain.RoleAdmin {
				return 0, domain.Validationf("an admin account already exists")
			}
			return 0, domain.Validationf("email %q is already registered", c.Email)
		}
		return 0, domain.Storage("create client", err)
	}
	return id, nil
}

func (r *ClientRepo) ByID(ctx context.Context, id int64) (*domain.Client, error) {
	var c domain.Client
	err := sqlx.GetContext(ctx, r.q, &c, r.q.Rebind(`SELECT `+clientCols+` FROM clients WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.Storage("get client", err)
	}
	return &c, nil
}

func (r *ClientRepo) ByEmail(ctx context.Context, email string) (*domain.Client, error) {
	var c domain.Client
	err := sqlx.GetContext(ctx, r.q, &c, r.q.Rebind(`SELECT `+clientCols+` FROM clients WHERE LOWER(email) = LOWER(?)`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %q: %w", email, domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.Storage("get client by email", err)
	}
	return &c, nil
}

// List returns client accounts; the admin row is not part of the catalog.
func (r *ClientRepo) List(ctx context.Context) ([]domain.Client, error) {
	out := []domain.Client{}
	err := sqlx.SelectContext(ctx, r.q, &out, r.q.Rebind(`SELECT `+clientCols+` FROM clients WHERE role = ? ORDER BY id`), domain.RoleClient)
	if err != nil {
		return nil, domain.Storage("list clients", err)
	}
	return out, nil
}

func (r *ClientRepo) Update(ctx context.Context, c domain.Client) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`
		UPDATE clients SET name = ?, email = ?, cuit = ?
		WHERE id = ?
	`), c.Name, c.Email, nullable(c.CUIT), c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Validationf("email %q is already registered", c.Email)
		}
		return domain.Storage("update client", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("client %d: %w", c.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *ClientRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, r.q.Rebind(`DELETE FROM clients WHERE id = ?`), id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrClientHasStock
		}
		return domain.Storage("delete client", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("client %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

func (r *ClientRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	if err := sqlx.GetContext(ctx, r.q, &n, r.q.Rebind(`SELECT COUNT(*) FROM clients WHERE id = ?`), id); err != nil {
		return false, domain.Storage("check client", err)
	}
	return n > 0, nil
}

// Admin returns the single admin account, or ErrNotFound before bootstrap.
func (r *ClientRepo) Admin(ctx context.Context) (*domain.Client, error) {
	var c domain.Client
	err := sqlx.GetContext(ctx, r.q, &c, r.q.Rebind(`SELECT `+clientCols+` FROM clients WHERE role = ?`), domain.RoleAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("admin: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, domain.Storage("get admin", err)
	}
	return &c, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
