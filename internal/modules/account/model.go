// Package account holds users and their delivery addresses.
package account

import (
	"fmt"
	"time"

	"jetfood/internal/types"
)

type Role string

const (
	RoleClient     Role = "client"
	RoleRestaurant Role = "restaurant"
	RoleCourier    Role = "courier"
	RoleAdmin      Role = "admin"
)

type User struct {
	ID         types.ID
	Phone      string
	FirstName  string
	Role       Role
	IsActive   bool
	DateJoined time.Time
}

type Address struct {
	ID          types.ID
	UserID      types.ID
	City        string
	Street      string
	HouseNumber string
	Location    *types.Point
}

// Text renders the address as the free-form snapshot stored on orders.
func (a *Address) Text() string {
	return fmt.Sprintf("%s, %s, %s", a.City, a.Street, a.HouseNumber)
}
