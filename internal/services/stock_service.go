package services

import (
	"context"
	"errors"
	"fmt"

	"palletbay/internal/domain"
	"palletbay/internal/repos"
	"palletbay/internal/validate"
)

// StockService is the only writer of ledger rows. Each operation runs in
// one transaction; the conditional writes re-check the quantity that was
// read, so concurrent callers cannot lose an update or go negative.
type StockService struct {
	Tx *repos.TxRunner
}

func NewStockService(tx *repos.TxRunner) *StockService {
	return &StockService{Tx: tx}
}

type InboundInput struct {
	ProductID  int64
	ClientID   int64
	Quantity   int
	Location   string
	PalletType string
}

// Inbound records goods arriving as a new ledger entry and returns its id.
func (s *StockService) Inbound(ctx context.Context, in InboundInput) (int64, error) {
	if in.Quantity <= 0 || in.Quantity > domain.MaxQuantity {
		return 0, domain.ErrBadQuantity
	}
	loc, err := checkSlot(in.Location, in.PalletType)
	if err != nil {
		return 0, err
	}

	var id int64
	err = s.Tx.Run(ctx, func(tx repos.Tx) error {
		owner, err := tx.Clients.ByID(ctx, in.ClientID)
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Referencef("client %d does not exist", in.ClientID)
		}
		if err != nil {
			return err
		}
		if owner.Role != domain.RoleClient {
			return domain.Validationf("stock can only be stored for client accounts")
		}
		id, err = tx.Inventory.Create(ctx, domain.NewEntry{
			ProductID:  in.ProductID,
			ClientID:   in.ClientID,
			Quantity:   in.Quantity,
			Location:   loc,
			PalletType: in.PalletType,
		})
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

type OutboundResult struct {
	EntryID   int64 `json:"entry_id"`
	Withdrawn int   `json:"withdrawn"`
	Remaining int   `json:"remaining"`
	Removed   bool  `json:"removed"`
}

// Outbound withdraws quantity from an entry. Taking everything deletes the
// row; taking more than is stored is rejected and changes nothing.
func (s *StockService) Outbound(ctx context.Context, entryID int64, withdraw int) (OutboundResult, error) {
	if withdraw <= 0 || withdraw > domain.MaxQuantity {
		return OutboundResult{}, domain.ErrBadQuantity
	}

	var res OutboundResult
	err := s.Tx.Run(ctx, func(tx repos.Tx) error {
		e, err := tx.Inventory.GetForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if withdraw > e.Quantity {
			return fmt.Errorf("entry %d holds %d, asked for %d: %w", entryID, e.Quantity, withdraw, domain.ErrInsufficient)
		}
		remaining := e.Quantity - withdraw
		res = OutboundResult{EntryID: entryID, Withdrawn: withdraw, Remaining: remaining, Removed: remaining == 0}
		if remaining == 0 {
			return tx.Inventory.RemoveIfQuantity(ctx, entryID, e.Quantity)
		}
		return tx.Inventory.ReplaceIfQuantity(ctx, entryID, e.Quantity, remaining, e.Location, e.PalletType)
	})
	if err != nil {
		return OutboundResult{}, err
	}
	return res, nil
}

// Relocate moves an entry to another bin or pallet type. Quantity is
// carried over untouched.
func (s *StockService) Relocate(ctx context.Context, entryID int64, location, pallet string) (*domain.Entry, error) {
	loc, err := checkSlot(location, pallet)
	if err != nil {
		return nil, err
	}
	var out *domain.Entry
	err = s.Tx.Run(ctx, func(tx repos.Tx) error {
		e, err := tx.Inventory.GetForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		if err := tx.Inventory.ReplaceIfQuantity(ctx, entryID, e.Quantity, e.Quantity, loc, pallet); err != nil {
			return err
		}
		e.Location, e.PalletType = loc, pallet
		out = e
		return nil
	})
	return out, err
}

func checkSlot(location, pallet string) (string, error) {
	fe := validate.FieldErrors{}
	loc, ok := validate.Location(location)
	if !ok {
		fe["location"] = "must be a short bin label such as A1"
	}
	if !domain.ValidPalletType(pallet) {
		fe["pallet_type"] = "must be Standard, Euro or Especial"
	}
	if len(fe) > 0 {
		return "", fe
	}
	return loc, nil
}
