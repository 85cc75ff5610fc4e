package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// MaxQuantity is the largest quantity a ledger row can hold; the column is
// a 32-bit INTEGER on Postgres.
const MaxQuantity = math.MaxInt32

type Product struct {
	ID          int64           `db:"id" json:"id"`
	SKU         string          `db:"sku" json:"sku"`
	Name        string          `db:"name" json:"name"`
	Description string          `db:"description" json:"description,omitempty"`
	Weight      decimal.Decimal `db:"weight" json:"weight"`
}

// Pallet types accepted by the ledger.
const (
	PalletStandard = "Standard"
	PalletEuro     = "Euro"
	PalletEspecial = "Especial"
)

var PalletTypes = []string{PalletStandard, PalletEuro, PalletEspecial}

func ValidPalletType(s string) bool {
	for _, p := range PalletTypes {
		if s == p {
			return true
		}
	}
	return false
}

// Entry is one stock placement: a quantity of a product owned by a client
// sitting at a location. Quantity is always > 0 while the row exists.
type Entry struct {
	ID         int64  `db:"id" json:"id"`
	ProductID  int64  `db:"product_id" json:"product_id"`
	ClientID   int64  `db:"client_id" json:"client_id"`
	Quantity   int    `db:"quantity" json:"quantity"`
	Location   string `db:"location" json:"location"`
	PalletType string `db:"pallet_type" json:"pallet_type"`
	DateEntry  string `db:"date_entry" json:"date_entry"`
}

// NewEntry carries the fields of an inbound placement.
type NewEntry struct {
	ProductID  int64
	ClientID   int64
	Quantity   int
	Location   string
	PalletType string
}

// EntryView is a ledger row joined with its catalog display attributes.
type EntryView struct {
	Entry
	ProductName string `db:"product_name" json:"product_name"`
	SKU         string `db:"sku" json:"sku"`
	ClientName  string `db:"client_name" json:"client_name,omitempty"`
}
