package handlers

import (
	"time"

	"github.com/jmoiron/sqlx"

	"palletbay/internal/config"
	"palletbay/internal/repos"
	"palletbay/internal/services"
	"palletbay/internal/token"
)

type Deps struct {
	DB   *sqlx.DB
	Auth *services.AuthService

	AuthHandler      *AuthHandler
	InventoryHandler *InventoryHandler
	ProductHandler   *ProductHandler
	AdminHandler     *AdminHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config) *Deps {
	prodRepo := repos.NewProductRepo(db)
	clientRepo := repos.NewClientRepo(db)
	invRepo := repos.NewInventoryRepo(db)
	tx := repos.NewTxRunner(db)

	issuer := token.NewIssuer(cfg.JWTSecret, cfg.JWTIssuer, time.Duration(cfg.JWTExpiration)*time.Minute)
	authSvc := services.NewAuthService(clientRepo, issuer)
	catalogSvc := services.NewCatalogService(prodRepo, clientRepo, tx)
	stockSvc := services.NewStockService(tx)
	invSvc := services.NewInventoryService(invRepo)

	return &Deps{
		DB:               db,
		Auth:             authSvc,
		AuthHandler:      &AuthHandler{Auth: authSvc},
		InventoryHandler: &InventoryHandler{Stock: stockSvc, Inv: invSvc},
		ProductHandler:   &ProductHandler{Catalog: catalogSvc},
		AdminHandler:     &AdminHandler{Catalog: catalogSvc},
	}
}
