// Package catalog holds restaurants, their menus, and reviews.
package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"jetfood/internal/types"
)

type Restaurant struct {
	ID               types.ID
	OwnerID          types.ID
	Name             string
	Description      string
	Address          string
	Location         *types.Point
	IsApproved       bool
	IsActive         bool
	AverageRating    decimal.Decimal
	ReviewCount      int
	PaylinkAccountID *string
}

type Category struct {
	ID   types.ID `json:"id"`
	Name string   `json:"name"`
}

type Dish struct {
	ID           types.ID
	RestaurantID types.ID
	CategoryID   types.ID
	Name         string
	Description  string
	Price        decimal.Decimal
	IsAvailable  bool
}

type Review struct {
	ID           types.ID
	OrderID      types.ID
	UserID       types.ID
	RestaurantID types.ID
	Rating       int
	Comment      *string
	CreatedAt    time.Time
}
