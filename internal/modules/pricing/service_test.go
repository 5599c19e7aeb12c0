package pricing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"jetfood/internal/config"
	"jetfood/internal/modules/catalog"
	"jetfood/internal/modules/settings"
	"jetfood/internal/types"
)

type fakeDishes map[types.ID]*catalog.Dish

func (f fakeDishes) DishByID(_ context.Context, id types.ID) (*catalog.Dish, error) {
	d, ok := f[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return d, nil
}

type fakePromos map[string]*Promo

func (f fakePromos) PromoByCode(_ context.Context, code string) (*Promo, error) {
	p, ok := f[code]
	if !ok {
		return nil, ErrPromoNotFound
	}
	return p, nil
}

type fakeSettings struct {
	st settings.Settings
}

func (f fakeSettings) Get(context.Context) (settings.Settings, error) {
	return f.st, nil
}

func testFees() config.FeesConfig {
	return config.FeesConfig{
		ServiceFeePercent: 10,
		MinServiceFee:     100,
		MaxServiceFee:     1000,
		CommissionPercent: 15,
	}
}

func testService(promos fakePromos) *Service {
	dishes := fakeDishes{
		1: {ID: 1, Price: decimal.NewFromInt(1500), IsAvailable: true},
		2: {ID: 2, Price: decimal.NewFromInt(2500), IsAvailable: true},
		3: {ID: 3, Price: decimal.NewFromInt(100), IsAvailable: true},
		4: {ID: 4, Price: decimal.NewFromInt(20000), IsAvailable: true},
		9: {ID: 9, Price: decimal.NewFromInt(900), IsAvailable: false},
	}
	return NewService(dishes, promos, fakeSettings{st: settings.Defaults()}, testFees())
}

var (
	noon     = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	midnight = time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	twoItems = []CartLine{{DishID: 1, Quantity: 1}, {DishID: 2, Quantity: 1}}
)

func assertAmount(t *testing.T, name string, got decimal.Decimal, want int64) {
	t.Helper()
	if !got.Equal(decimal.NewFromInt(want)) {
		t.Errorf("%s = %s, want %d", name, got, want)
	}
}

func TestPriceBasicCart(t *testing.T) {
	svc := testService(fakePromos{})

	q, err := svc.Price(context.Background(), twoItems, "", noon)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	assertAmount(t, "subtotal", q.ItemsSubtotal, 4000)
	assertAmount(t, "service fee", q.ServiceFee, 400)
	assertAmount(t, "delivery fee", q.DeliveryFee, 500)
	assertAmount(t, "discount", q.Discount, 0)
	assertAmount(t, "total", q.Total, 4900)
}

func TestPricePercentagePromo(t *testing.T) {
	svc := testService(fakePromos{
		"TEN": {
			Code: "TEN", Type: PromoPercentage, Value: decimal.NewFromInt(10),
			IsActive: true, ValidFrom: noon.AddDate(0, 0, -1), ValidTo: noon.AddDate(0, 0, 1),
			MaxUses: 10,
		},
	})

	q, err := svc.Price(context.Background(), twoItems, "TEN", noon)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	assertAmount(t, "discount", q.Discount, 400)
	assertAmount(t, "total", q.Total, 4500)
}

func TestPriceFixedPromo(t *testing.T) {
	svc := testService(fakePromos{
		"FLAT300": {
			Code: "FLAT300", Type: PromoFixedAmount, Value: decimal.NewFromInt(300),
			IsActive: true, ValidFrom: noon.AddDate(0, 0, -1), ValidTo: noon.AddDate(0, 0, 1),
			MaxUses: 10,
		},
	})

	q, err := svc.Price(context.Background(), twoItems, "FLAT300", noon)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	assertAmount(t, "discount", q.Discount, 300)
	assertAmount(t, "total", q.Total, 4600)
}

// Invalid promo codes must never fail the quote: they degrade to no discount.
func TestPricePromoDegradation(t *testing.T) {
	expired := &Promo{
		Code: "OLD", Type: PromoPercentage, Value: decimal.NewFromInt(50),
		IsActive: true, ValidFrom: noon.AddDate(0, -2, 0), ValidTo: noon.AddDate(0, -1, 0),
		MaxUses: 10,
	}
	exhausted := &Promo{
		Code: "USEDUP", Type: PromoPercentage, Value: decimal.NewFromInt(50),
		IsActive: true, ValidFrom: noon.AddDate(0, 0, -1), ValidTo: noon.AddDate(0, 0, 1),
		MaxUses: 3, TimesUsed: 3,
	}
	inactive := &Promo{
		Code: "OFF", Type: PromoPercentage, Value: decimal.NewFromInt(50),
		IsActive: false, ValidFrom: noon.AddDate(0, 0, -1), ValidTo: noon.AddDate(0, 0, 1),
		MaxUses: 10,
	}
	svc := testService(fakePromos{"OLD": expired, "USEDUP": exhausted, "OFF": inactive})

	for _, code := range []string{"OLD", "USEDUP", "OFF", "NO_SUCH_CODE"} {
		q, err := svc.Price(context.Background(), twoItems, code, noon)
		if err != nil {
			t.Fatalf("promo %q: unexpected error %v", code, err)
		}
		assertAmount(t, "discount for "+code, q.Discount, 0)
		assertAmount(t, "total for "+code, q.Total, 4900)
	}
}

func TestPriceUnavailableDishFailsWholeCart(t *testing.T) {
	svc := testService(fakePromos{})

	_, err := svc.Price(context.Background(), []CartLine{
		{DishID: 1, Quantity: 1},
		{DishID: 9, Quantity: 1}, // marked unavailable
	}, "", noon)
	if err != ErrDishUnavailable {
		t.Fatalf("expected ErrDishUnavailable, got %v", err)
	}

	_, err = svc.Price(context.Background(), []CartLine{{DishID: 404, Quantity: 1}}, "", noon)
	if err != ErrDishUnavailable {
		t.Fatalf("unknown dish: expected ErrDishUnavailable, got %v", err)
	}
}

func TestPriceNightTariff(t *testing.T) {
	svc := testService(fakePromos{})

	q, err := svc.Price(context.Background(), twoItems, "", midnight)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	assertAmount(t, "delivery fee", q.DeliveryFee, 800)
	assertAmount(t, "total", q.Total, 5200)
}

func TestPriceServiceFeeClamp(t *testing.T) {
	svc := testService(fakePromos{})

	// 10% of 100 is 10, clamped up to the 100 minimum.
	q, err := svc.Price(context.Background(), []CartLine{{DishID: 3, Quantity: 1}}, "", noon)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	assertAmount(t, "min-clamped fee", q.ServiceFee, 100)

	// 10% of 20000 is 2000, clamped down to the 1000 maximum.
	q, err = svc.Price(context.Background(), []CartLine{{DishID: 4, Quantity: 1}}, "", noon)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	assertAmount(t, "max-clamped fee", q.ServiceFee, 1000)
}

func TestPriceTotalClampedToZero(t *testing.T) {
	svc := testService(fakePromos{
		"HUGE": {
			Code: "HUGE", Type: PromoFixedAmount, Value: decimal.NewFromInt(100000),
			IsActive: true, ValidFrom: noon.AddDate(0, 0, -1), ValidTo: noon.AddDate(0, 0, 1),
			MaxUses: 10,
		},
	})

	q, err := svc.Price(context.Background(), []CartLine{{DishID: 3, Quantity: 1}}, "HUGE", noon)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	assertAmount(t, "total", q.Total, 0)
}

func TestPriceDeterminism(t *testing.T) {
	svc := testService(fakePromos{})

	first, err := svc.Price(context.Background(), twoItems, "", noon)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	for i := 0; i < 5; i++ {
		q, err := svc.Price(context.Background(), twoItems, "", noon)
		if err != nil {
			t.Fatalf("price: %v", err)
		}
		if !q.Total.Equal(first.Total) || !q.ServiceFee.Equal(first.ServiceFee) ||
			!q.DeliveryFee.Equal(first.DeliveryFee) || !q.Discount.Equal(first.Discount) {
			t.Fatalf("quote changed between identical calls: %+v vs %+v", q, first)
		}
	}
}

func TestPriceEmptyCart(t *testing.T) {
	svc := testService(fakePromos{})

	if _, err := svc.Price(context.Background(), nil, "", noon); err != ErrEmptyCart {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if _, err := svc.Price(context.Background(), []CartLine{{DishID: 1, Quantity: 0}}, "", noon); err != ErrEmptyCart {
		t.Fatalf("zero quantity: expected ErrEmptyCart, got %v", err)
	}
}
