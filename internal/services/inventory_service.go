package services

import (
	"context"

	"palletbay/internal/domain"
	"palletbay/internal/repos"
)

// InventoryService builds the read-only projections of the ledger. Every
// call reads the store; nothing is cached between requests.
type InventoryService struct {
	Inv *repos.InventoryRepo
}

func NewInventoryService(inv *repos.InventoryRepo) *InventoryService {
	return &InventoryService{Inv: inv}
}

// AdminView lists every entry joined with product and client names.
func (s *InventoryService) AdminView(ctx context.Context, who domain.Identity) ([]domain.EntryView, error) {
	if !who.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.Inv.ListAll(ctx)
}

// ClientView lists the caller's own entries. The owner is always taken
// from the verified identity.
func (s *InventoryService) ClientView(ctx context.Context, who domain.Identity) ([]domain.EntryView, error) {
	if who.Role != domain.RoleClient || who.ClientID <= 0 {
		return nil, domain.ErrForbidden
	}
	return s.Inv.ListByClient(ctx, who.ClientID)
}
