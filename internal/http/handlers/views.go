package handlers

import (
	"time"

	"github.com/shopspring/decimal"

	"jetfood/internal/modules/account"
	"jetfood/internal/modules/catalog"
	"jetfood/internal/modules/courier"
	"jetfood/internal/modules/order"
	"jetfood/internal/types"
)

// Response views. Decimal amounts marshal as strings, which is what the
// mobile clients expect for money.

type orderItemView struct {
	DishID    types.ID        `json:"dish_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type orderView struct {
	ID            types.ID            `json:"id"`
	Code          string              `json:"code"`
	RestaurantID  types.ID            `json:"restaurant_id"`
	CourierID     *types.ID           `json:"courier_id,omitempty"`
	AddressText   string              `json:"address_text"`
	ItemsSubtotal decimal.Decimal     `json:"items_subtotal"`
	ServiceFee    decimal.Decimal     `json:"service_fee"`
	DeliveryFee   decimal.Decimal     `json:"delivery_fee"`
	Discount      decimal.Decimal     `json:"discount"`
	Total         decimal.Decimal     `json:"total"`
	Status        order.Status        `json:"status"`
	DeliveryType  *order.DeliveryType `json:"delivery_type,omitempty"`
	ReadyBy       *time.Time          `json:"ready_by,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	Items         []orderItemView     `json:"items,omitempty"`
}

func viewOrder(o *order.Order) orderView {
	v := orderView{
		ID:            o.ID,
		Code:          o.Code,
		RestaurantID:  o.RestaurantID,
		CourierID:     o.CourierID,
		AddressText:   o.AddressText,
		ItemsSubtotal: o.ItemsSubtotal,
		ServiceFee:    o.ServiceFee,
		DeliveryFee:   o.DeliveryFee,
		Discount:      o.Discount,
		Total:         o.Total,
		Status:        o.Status,
		DeliveryType:  o.DeliveryType,
		ReadyBy:       o.ReadyBy,
		CreatedAt:     o.CreatedAt,
	}
	for _, it := range o.Items {
		v.Items = append(v.Items, orderItemView{
			DishID:    it.DishID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
	}
	return v
}

func viewOrders(orders []*order.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, o := range orders {
		out = append(out, viewOrder(o))
	}
	return out
}

type restaurantView struct {
	ID            types.ID        `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Address       string          `json:"address"`
	Location      *types.Point    `json:"location,omitempty"`
	IsApproved    bool            `json:"is_approved"`
	IsActive      bool            `json:"is_active"`
	AverageRating decimal.Decimal `json:"average_rating"`
	ReviewCount   int             `json:"review_count"`
}

func viewRestaurant(r *catalog.Restaurant) restaurantView {
	return restaurantView{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Address:       r.Address,
		Location:      r.Location,
		IsApproved:    r.IsApproved,
		IsActive:      r.IsActive,
		AverageRating: r.AverageRating,
		ReviewCount:   r.ReviewCount,
	}
}

func viewRestaurants(rs []*catalog.Restaurant) []restaurantView {
	out := make([]restaurantView, 0, len(rs))
	for _, r := range rs {
		out = append(out, viewRestaurant(r))
	}
	return out
}

type dishView struct {
	ID          types.ID        `json:"id"`
	CategoryID  types.ID        `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"is_available"`
}

func viewDish(d *catalog.Dish) dishView {
	return dishView{
		ID:          d.ID,
		CategoryID:  d.CategoryID,
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		IsAvailable: d.IsAvailable,
	}
}

func viewDishes(ds []*catalog.Dish) []dishView {
	out := make([]dishView, 0, len(ds))
	for _, d := range ds {
		out = append(out, viewDish(d))
	}
	return out
}

type addressView struct {
	ID          types.ID     `json:"id"`
	City        string       `json:"city"`
	Street      string       `json:"street"`
	HouseNumber string       `json:"house_number"`
	Location    *types.Point `json:"location,omitempty"`
}

func viewAddress(a *account.Address) addressView {
	return addressView{
		ID:          a.ID,
		City:        a.City,
		Street:      a.Street,
		HouseNumber: a.HouseNumber,
		Location:    a.Location,
	}
}

type courierProfileView struct {
	ID           types.ID                   `json:"id"`
	UserID       types.ID                   `json:"user_id"`
	Verification courier.VerificationStatus `json:"verification_status"`
	IsOnline     bool                       `json:"is_online"`
	CardNumber   *string                    `json:"card_number,omitempty"`
	Balance      decimal.Decimal            `json:"balance"`
}

func viewCourierProfile(p *courier.Profile) courierProfileView {
	return courierProfileView{
		ID:           p.ID,
		UserID:       p.UserID,
		Verification: p.Verification,
		IsOnline:     p.IsOnline,
		CardNumber:   p.CardNumber,
		Balance:      p.Balance,
	}
}

type payoutView struct {
	ID          types.ID             `json:"id"`
	Amount      decimal.Decimal      `json:"amount"`
	CardNumber  string               `json:"card_number"`
	Status      courier.PayoutStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	ProcessedAt *time.Time           `json:"processed_at,omitempty"`
}

func viewPayout(p *courier.PayoutRequest) payoutView {
	return payoutView{
		ID:          p.ID,
		Amount:      p.Amount,
		CardNumber:  p.CardNumber,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		ProcessedAt: p.ProcessedAt,
	}
}

func viewPayouts(ps []*courier.PayoutRequest) []payoutView {
	out := make([]payoutView, 0, len(ps))
	for _, p := range ps {
		out = append(out, viewPayout(p))
	}
	return out
}
