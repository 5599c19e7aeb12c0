package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"jetfood/internal/config"
	"jetfood/internal/modules/catalog"
	"jetfood/internal/modules/settings"
	"jetfood/internal/types"
)

var (
	ErrDishUnavailable = errors.New("dish is unavailable")
	ErrEmptyCart       = errors.New("cart is empty")
)

type DishFinder interface {
	DishByID(ctx context.Context, id types.ID) (*catalog.Dish, error)
}

type PromoFinder interface {
	PromoByCode(ctx context.Context, code string) (*Promo, error)
}

type SettingsProvider interface {
	Get(ctx context.Context) (settings.Settings, error)
}

type Service struct {
	dishes   DishFinder
	promos   PromoFinder
	settings SettingsProvider
	fees     config.FeesConfig
}

func NewService(dishes DishFinder, promos PromoFinder, settings SettingsProvider, fees config.FeesConfig) *Service {
	return &Service{dishes: dishes, promos: promos, settings: settings, fees: fees}
}

// Price computes the full cost breakdown for a cart. The reference time is an
// explicit argument so quotes are reproducible: identical inputs always yield
// an identical quote.
//
// An unknown, expired, or exhausted promo code degrades to a zero discount.
// A missing or unavailable dish fails the whole quote.
func (s *Service) Price(ctx context.Context, lines []CartLine, promoCode string, now time.Time) (*Quote, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	q := &Quote{
		ItemsSubtotal: decimal.Zero,
		Discount:      decimal.Zero,
	}

	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, ErrEmptyCart
		}
		dish, err := s.dishes.DishByID(ctx, line.DishID)
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, ErrDishUnavailable
		}
		if err != nil {
			return nil, err
		}
		if !dish.IsAvailable {
			return nil, ErrDishUnavailable
		}
		q.ItemsSubtotal = q.ItemsSubtotal.Add(dish.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		q.Lines = append(q.Lines, QuoteLine{
			DishID:    dish.ID,
			Quantity:  line.Quantity,
			UnitPrice: dish.Price,
		})
	}

	q.ServiceFee = s.serviceFee(q.ItemsSubtotal)

	if promoCode != "" {
		promo, err := s.promos.PromoByCode(ctx, promoCode)
		if err != nil && !errors.Is(err, ErrPromoNotFound) {
			return nil, err
		}
		if promo != nil && promo.Redeemable(now) {
			switch promo.Type {
			case PromoPercentage:
				q.Discount = types.Percent(q.ItemsSubtotal, promo.Value)
			case PromoFixedAmount:
				q.Discount = promo.Value
			}
		}
	}

	st, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if st.IsNightHour(now.Hour()) {
		q.DeliveryFee = st.NightBaseRate
	} else {
		q.DeliveryFee = st.DayBaseRate
	}

	total := q.ItemsSubtotal.Sub(q.Discount).Add(q.ServiceFee).Add(q.DeliveryFee)
	if total.IsNegative() {
		total = decimal.Zero
	}

	q.ItemsSubtotal = types.RoundMoney(q.ItemsSubtotal)
	q.ServiceFee = types.RoundMoney(q.ServiceFee)
	q.DeliveryFee = types.RoundMoney(q.DeliveryFee)
	q.Discount = types.RoundMoney(q.Discount)
	q.Total = types.RoundMoney(total)
	return q, nil
}

// serviceFee is the percentage fee clamped into [min, max].
func (s *Service) serviceFee(subtotal decimal.Decimal) decimal.Decimal {
	fee := types.Percent(subtotal, decimal.NewFromFloat(s.fees.ServiceFeePercent))
	min := decimal.NewFromFloat(s.fees.MinServiceFee)
	max := decimal.NewFromFloat(s.fees.MaxServiceFee)
	if fee.LessThan(min) {
		fee = min
	}
	if fee.GreaterThan(max) {
		fee = max
	}
	return fee
}
