// Package order owns the order aggregate and its lifecycle state machine.
package order

import (
	"time"

	"github.com/shopspring/decimal"

	"jetfood/internal/types"
)

type Status string

const (
	StatusPending               Status = "pending"
	StatusPaid                  Status = "paid"
	StatusAccepted              Status = "accepted"
	StatusAwaitingCourierSearch Status = "awaiting_courier_search"
	StatusPreparing             Status = "preparing"
	StatusReadyForPickup        Status = "ready_for_pickup"
	StatusOnTheWay              Status = "on_the_way"
	StatusDelivered             Status = "delivered"
	StatusCancelled             Status = "cancelled"
)

type DeliveryType string

const (
	DeliveryAppCourier DeliveryType = "app_courier"
	DeliverySelf       DeliveryType = "self_delivery"
)

type Order struct {
	ID               types.ID
	Code             string
	UserID           types.ID
	RestaurantID     types.ID
	CourierID        *types.ID
	AddressText      string
	DeliveryPoint    *types.Point
	ItemsSubtotal    decimal.Decimal
	ServiceFee       decimal.Decimal
	DeliveryFee      decimal.Decimal
	Discount         decimal.Decimal
	Total            decimal.Decimal
	Status           Status
	CreatedAt        time.Time
	PaymentInvoiceID *string
	DeliveryType     *DeliveryType
	PrepMinutes      *int
	ReadyBy          *time.Time
	Items            []Item
}

// Item is a line snapshot: the unit price is frozen at order time and never
// reflects later menu changes.
type Item struct {
	ID        types.ID
	DishID    types.ID
	Quantity  int
	UnitPrice decimal.Decimal
}

type Event struct {
	ID         int64
	OrderID    types.ID
	FromStatus Status
	ToStatus   Status
	ActorType  string
	ActorID    *types.ID
	CreatedAt  time.Time
}

// AllowedTransitions represents the order state flow (diagram) as code.
// Acceptance moves a paid order straight to its post-accept status; the
// transient "accepted" state is kept for completeness.
var AllowedTransitions = map[Status][]Status{
	StatusPending:               {StatusPaid, StatusCancelled},
	StatusPaid:                  {StatusAccepted, StatusAwaitingCourierSearch, StatusPreparing, StatusCancelled},
	StatusAccepted:              {StatusAwaitingCourierSearch, StatusPreparing, StatusCancelled},
	StatusAwaitingCourierSearch: {StatusReadyForPickup, StatusCancelled},
	StatusPreparing:             {StatusReadyForPickup, StatusCancelled},
	StatusReadyForPickup:        {StatusOnTheWay, StatusCancelled},
	StatusOnTheWay:              {StatusDelivered, StatusCancelled},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}

// restaurantCancellable lists the states a restaurant may cancel from.
// Once a courier is on the way only the courier can abort the delivery.
var restaurantCancellable = map[Status]bool{
	StatusPaid:                  true,
	StatusAccepted:              true,
	StatusPreparing:             true,
	StatusAwaitingCourierSearch: true,
	StatusReadyForPickup:        true,
}
