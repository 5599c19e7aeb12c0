// Package insights aggregates dashboard statistics for administrators.
package insights

import (
	"github.com/shopspring/decimal"

	"jetfood/internal/types"
)

type GeneralStats struct {
	TotalRevenue decimal.Decimal `json:"total_revenue"`
	TotalOrders  int             `json:"total_orders"`
	NewUsers     int             `json:"new_users"`
}

type TopRestaurant struct {
	ID           types.ID        `json:"id"`
	Name         string          `json:"name"`
	OrderCount   int             `json:"order_count"`
	TotalRevenue decimal.Decimal `json:"total_revenue"`
}

type TopCourier struct {
	ID              types.ID        `json:"id"`
	FirstName       string          `json:"first_name"`
	DeliveriesCount int             `json:"deliveries_count"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
}

type TopClient struct {
	ID          types.ID        `json:"id"`
	FirstName   string          `json:"first_name"`
	Phone       string          `json:"phone"`
	OrdersCount int             `json:"orders_count"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
}

// Dashboard covers delivered orders within a date range.
type Dashboard struct {
	General        GeneralStats    `json:"general"`
	TopRestaurants []TopRestaurant `json:"top_restaurants"`
	TopCouriers    []TopCourier    `json:"top_couriers"`
	TopClients     []TopClient     `json:"top_clients"`
	Summary        string          `json:"summary,omitempty"`
}
