package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"palletbay/internal/domain"
	"palletbay/internal/repos"
	"palletbay/internal/validate"
)

type CatalogService struct {
	Products *repos.ProductRepo
	Clients  *repos.ClientRepo
	Tx       *repos.TxRunner
}

func NewCatalogService(products *repos.ProductRepo, clients *repos.ClientRepo, tx *repos.TxRunner) *CatalogService {
	return &CatalogService{Products: products, Clients: clients, Tx: tx}
}

type ProductInput struct {
	SKU         string
	Name        string
	Description string
	Weight      decimal.Decimal
}

func (in ProductInput) check(withSKU bool) (ProductInput, error) {
	fe := validate.FieldErrors{}
	if withSKU {
		sku, ok := validate.SKU(in.SKU)
		if !ok {
			fe["sku"] = "letters, digits, - and _ only"
		}
		in.SKU = sku
	}
	name, ok := validate.Name(in.Name)
	if !ok {
		fe["name"] = "is required"
	}
	in.Name = name
	in.Description = strings.TrimSpace(in.Description)
	if in.Weight.IsNegative() {
		fe["weight"] = "must not be negative"
	}
	if len(fe) > 0 {
		return in, fe
	}
	return in, nil
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (int64, error) {
	in, err := in.check(true)
	if err != nil {
		return 0, err
	}
	return s.Products.Create(ctx, domain.Product{SKU: in.SKU, Name: in.Name, Description: in.Description, Weight: in.Weight})
}

// UpdateProduct replaces name, description and weight. The sku stays as
// created.
func (s *CatalogService) UpdateProduct(ctx context.Context, id int64, in ProductInput) error {
	in, err := in.check(false)
	if err != nil {
		return err
	}
	return s.Products.Update(ctx, domain.Product{ID: id, Name: in.Name, Description: in.Description, Weight: in.Weight})
}

func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.Products.Get(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.Products.List(ctx)
}

type ClientInput struct {
	Name     string
	Email    string
	Password string
	CUIT     string
}

func (in ClientInput) check(withPassword bool) (ClientInput, error) {
	fe := validate.FieldErrors{}
	name, ok := validate.Name(in.Name)
	if !ok {
		fe["name"] = "is required"
	}
	in.Name = name
	email, ok := validate.Email(in.Email)
	if !ok {
		fe["email"] = "must be a valid email"
	}
	in.Email = email
	if withPassword && !validate.Password(in.Password) {
		fe["password"] = "8+ characters with upper, lower, digit and symbol"
	}
	in.CUIT = strings.TrimSpace(in.CUIT)
	if len(fe) > 0 {
		return in, fe
	}
	return in, nil
}

func (s *CatalogService) CreateClient(ctx context.Context, in ClientInput) (int64, error) {
	in, err := in.check(true)
	if err != nil {
		return 0, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return 0, err
	}
	return s.Clients.Create(ctx, domain.Client{
		Name: in.Name, Email: in.Email, Hash: hash, Role: domain.RoleClient, CUIT: in.CUIT,
	})
}

// UpdateClient changes name, email and cuit of a client account. The
// password and role are owned by the access gate and never change here.
func (s *CatalogService) UpdateClient(ctx context.Context, id int64, in ClientInput) error {
	in, err := in.check(false)
	if err != nil {
		return err
	}
	return s.Tx.Run(ctx, func(tx repos.Tx) error {
		c, err := tx.Clients.ByID(ctx, id)
		if err != nil {
			return err
		}
		if c.Role != domain.RoleClient {
			return domain.Validationf("the admin account is not editable here")
		}
		c.Name, c.Email, c.CUIT = in.Name, in.Email, in.CUIT
		return tx.Clients.Update(ctx, *c)
	})
}

// DeleteClient removes a client account. Accounts that still own stock are
// refused, and the admin row can never be removed.
func (s *CatalogService) DeleteClient(ctx context.Context, id int64) error {
	return s.Tx.Run(ctx, func(tx repos.Tx) error {
		c, err := tx.Clients.ByID(ctx, id)
		if err != nil {
			return err
		}
		if c.Role == domain.RoleAdmin {
			return domain.Validationf("the admin account cannot be deleted")
		}
		n, err := tx.Inventory.CountByClient(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrClientHasStock
		}
		return tx.Clients.Delete(ctx, id)
	})
}

func (s *CatalogService) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	c, err := s.Clients.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.Role != domain.RoleClient {
		return nil, domain.Referencef("client %d does not exist", id)
	}
	return c, nil
}

func (s *CatalogService) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.Clients.List(ctx)
}

// Resources is what an inbound form needs to offer: owners and products.
type Resources struct {
	Clients  []ResourceClient  `json:"clients"`
	Products []ResourceProduct `json:"products"`
}

type ResourceClient struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ResourceProduct struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	SKU  string `json:"sku"`
}

func (s *CatalogService) Resources(ctx context.Context) (*Resources, error) {
	clients, err := s.Clients.List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	out := &Resources{
		Clients:  make([]ResourceClient, 0, len(clients)),
		Products: make([]ResourceProduct, 0, len(products)),
	}
	for _, c := range clients {
		out.Clients = append(out.Clients, ResourceClient{ID: c.ID, Name: c.Name})
	}
	for _, p := range products {
		out.Products = append(out.Products, ResourceProduct{ID: p.ID, Name: p.Name, SKU: p.SKU})
	}
	return out, nil
}
