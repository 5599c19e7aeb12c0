// Package settlement divides an order's total between the restaurant and the
// platform and obtains a payable link from the payment provider.
package settlement

import (
	"errors"

	"github.com/shopspring/decimal"

	"jetfood/internal/types"
)

// ErrSplitMismatch means the computed shares do not add up to the order total.
// It is an internal defect: the customer must never be charged for it.
var ErrSplitMismatch = errors.New("split shares do not reconcile with order total")

// Order is the priced view settlement needs. The order module maps its
// aggregate into this before calling CreatePayment.
type Order struct {
	ID            types.ID
	Code          string
	ItemsSubtotal decimal.Decimal
	ServiceFee    decimal.Decimal
	DeliveryFee   decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal

	// CourierDelivery routes the delivery fee into the platform share,
	// where it is held until the courier is credited on delivery.
	CourierDelivery bool
}

type Plan struct {
	Commission      decimal.Decimal
	RestaurantShare decimal.Decimal
	PlatformShare   decimal.Decimal
}

var centTolerance = decimal.NewFromFloat(0.01)

// Split computes the monetary division of an order:
//
//	commission       = items_subtotal × percent/100
//	restaurant_share = items_subtotal − commission
//	platform_share   = service_fee + commission − discount (+ delivery fee in escrow)
//
// The shares must reconcile with the order total within one cent.
func Split(o Order, commissionPercent decimal.Decimal) (Plan, error) {
	commission := types.Percent(o.ItemsSubtotal, commissionPercent)
	restaurant := o.ItemsSubtotal.Sub(commission)
	platform := o.ServiceFee.Add(commission).Sub(o.Discount)
	if o.CourierDelivery && o.DeliveryFee.IsPositive() {
		platform = platform.Add(o.DeliveryFee)
	}

	p := Plan{
		Commission:      types.RoundMoney(commission),
		RestaurantShare: types.RoundMoney(restaurant),
		PlatformShare:   types.RoundMoney(platform),
	}
	diff := p.RestaurantShare.Add(p.PlatformShare).Sub(o.Total).Abs()
	if diff.GreaterThan(centTolerance) {
		return Plan{}, ErrSplitMismatch
	}
	return p, nil
}
