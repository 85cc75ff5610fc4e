package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"palletbay/internal/domain"
	"palletbay/internal/validate"
)

// FlexInt decodes either 12 or "12". Browser forms post numbers as strings.
type FlexInt int64

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*n = 0
		return nil
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = strings.TrimSpace(unq)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("expected an integer, got %s", s)
	}
	*n = FlexInt(v)
	return nil
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type inboundRequest struct {
	ProductID  FlexInt `json:"product_id" validate:"gt=0"`
	ClientID   FlexInt `json:"client_id" validate:"gt=0"`
	Quantity   FlexInt `json:"quantity" validate:"gt=0,lte=2147483647"`
	Location   string  `json:"location" validate:"required,location"`
	PalletType string  `json:"pallet_type" validate:"required,pallet"`
}

type outboundRequest struct {
	WithdrawQuantity FlexInt `json:"withdraw_quantity" validate:"gt=0,lte=2147483647"`
}

type relocateRequest struct {
	Location   string `json:"location" validate:"required,location"`
	PalletType string `json:"pallet_type" validate:"required,pallet"`
}

type productRequest struct {
	SKU         string          `json:"sku"`
	Name        string          `json:"name" validate:"required,max=80"`
	Description string          `json:"description" validate:"max=500"`
	Weight      decimal.Decimal `json:"weight"`
}

type clientRequest struct {
	Name     string `json:"name" validate:"required,max=80"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password"`
	CUIT     string `json:"cuit" validate:"cuit"`
}

// bind decodes the JSON body into dst and runs its validate tags.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return domain.Validationf("malformed request body")
	}
	return validate.Struct(dst)
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return 0, domain.Validationf("id must be a positive integer")
	}
	return id, nil
}
