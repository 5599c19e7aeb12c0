// Package pricing computes order quotes and owns promo codes.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"jetfood/internal/types"
)

type PromoType string

const (
	PromoPercentage  PromoType = "percentage"
	PromoFixedAmount PromoType = "fixed_amount"
)

type Promo struct {
	ID        types.ID
	Code      string
	Type      PromoType
	Value     decimal.Decimal
	IsActive  bool
	ValidFrom time.Time
	ValidTo   time.Time
	MaxUses   int
	TimesUsed int
}

// Redeemable reports whether the promo may be applied on the given day.
func (p *Promo) Redeemable(day time.Time) bool {
	d := day.Truncate(24 * time.Hour)
	return p.IsActive &&
		!d.Before(p.ValidFrom.Truncate(24*time.Hour)) &&
		!d.After(p.ValidTo.Truncate(24*time.Hour)) &&
		p.TimesUsed < p.MaxUses
}

type CartLine struct {
	DishID   types.ID
	Quantity int
}

type QuoteLine struct {
	DishID    types.ID
	Quantity  int
	UnitPrice decimal.Decimal
}

// Quote is the priced breakdown of a cart. All amounts are rounded to
// two decimal places; Total = max(0, subtotal - discount + fees).
type Quote struct {
	ItemsSubtotal decimal.Decimal
	ServiceFee    decimal.Decimal
	DeliveryFee   decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	Lines         []QuoteLine
}
