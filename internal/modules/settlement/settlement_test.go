package settlement

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"jetfood/internal/config"
	"jetfood/internal/paylink"
	"jetfood/internal/types"
)

var fifteenPercent = decimal.NewFromInt(15)

func sampleOrder() Order {
	return Order{
		ID:              7,
		Code:            "JET-0A1B2C3D",
		ItemsSubtotal:   decimal.NewFromInt(4000),
		ServiceFee:      decimal.NewFromInt(400),
		DeliveryFee:     decimal.NewFromInt(500),
		Discount:        decimal.Zero,
		Total:           decimal.NewFromInt(4900),
		CourierDelivery: true,
	}
}

func TestSplitCourierDelivery(t *testing.T) {
	plan, err := Split(sampleOrder(), fifteenPercent)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if !plan.Commission.Equal(decimal.NewFromInt(600)) {
		t.Errorf("commission = %s, want 600", plan.Commission)
	}
	if !plan.RestaurantShare.Equal(decimal.NewFromInt(3400)) {
		t.Errorf("restaurant share = %s, want 3400", plan.RestaurantShare)
	}
	// service fee 400 + commission 600 + escrowed delivery fee 500
	if !plan.PlatformShare.Equal(decimal.NewFromInt(1500)) {
		t.Errorf("platform share = %s, want 1500", plan.PlatformShare)
	}
}

func TestSplitConservation(t *testing.T) {
	orders := []Order{
		sampleOrder(),
		{
			ItemsSubtotal:   decimal.NewFromFloat(1234.56),
			ServiceFee:      decimal.NewFromFloat(123.46),
			DeliveryFee:     decimal.NewFromInt(800),
			Discount:        decimal.NewFromFloat(123.46),
			Total:           decimal.NewFromFloat(2034.56),
			CourierDelivery: true,
		},
		{
			ItemsSubtotal: decimal.NewFromInt(4000),
			ServiceFee:    decimal.NewFromInt(400),
			DeliveryFee:   decimal.Zero,
			Discount:      decimal.NewFromInt(400),
			Total:         decimal.NewFromInt(4000),
		},
	}
	for i, o := range orders {
		plan, err := Split(o, fifteenPercent)
		if err != nil {
			t.Fatalf("order %d: %v", i, err)
		}
		sum := plan.RestaurantShare.Add(plan.PlatformShare)
		if sum.Sub(o.Total).Abs().GreaterThan(decimal.NewFromFloat(0.01)) {
			t.Errorf("order %d: shares %s do not conserve total %s", i, sum, o.Total)
		}
	}
}

func TestSplitMismatch(t *testing.T) {
	// Delivery fee in the total but not routed to any share.
	o := sampleOrder()
	o.CourierDelivery = false
	if _, err := Split(o, fifteenPercent); err != ErrSplitMismatch {
		t.Fatalf("expected ErrSplitMismatch, got %v", err)
	}

	// Tampered total.
	o = sampleOrder()
	o.Total = decimal.NewFromInt(5000)
	if _, err := Split(o, fifteenPercent); err != ErrSplitMismatch {
		t.Fatalf("expected ErrSplitMismatch, got %v", err)
	}
}

func TestSplitTolerance(t *testing.T) {
	o := sampleOrder()
	o.Total = decimal.NewFromFloat(4900.01)
	if _, err := Split(o, fifteenPercent); err != nil {
		t.Fatalf("one-cent drift should pass: %v", err)
	}
	o.Total = decimal.NewFromFloat(4900.02)
	if _, err := Split(o, fifteenPercent); err != ErrSplitMismatch {
		t.Fatalf("two-cent drift should fail, got %v", err)
	}
}

type fakePayments struct {
	calls int
	split []paylink.SplitEntry
}

func (f *fakePayments) CreatePayment(_ context.Context, _ types.ID, _ decimal.Decimal, _ string, split []paylink.SplitEntry) (*paylink.PaymentLink, error) {
	f.calls++
	f.split = split
	return &paylink.PaymentLink{URL: "https://pay.example.com/invoice/x1", InvoiceID: "x1"}, nil
}

func testService(fake *fakePayments) *Service {
	return NewService(fake,
		config.PaylinkConfig{PlatformAccountID: "platform-main"},
		config.FeesConfig{CommissionPercent: 15})
}

func TestCreatePayment(t *testing.T) {
	fake := &fakePayments{}
	link, err := testService(fake).CreatePayment(context.Background(), sampleOrder(), "rest-42")
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if link.InvoiceID != "x1" {
		t.Errorf("invoice id = %q", link.InvoiceID)
	}
	if len(fake.split) != 2 {
		t.Fatalf("split entries = %d, want 2", len(fake.split))
	}
	if fake.split[0].AccountID != "rest-42" || fake.split[0].Amount != "3400" {
		t.Errorf("restaurant entry = %+v", fake.split[0])
	}
	if fake.split[1].AccountID != "platform-main" || fake.split[1].Amount != "1500" {
		t.Errorf("platform entry = %+v", fake.split[1])
	}
}

func TestCreatePaymentAbortsOnMismatch(t *testing.T) {
	fake := &fakePayments{}
	o := sampleOrder()
	o.Total = decimal.NewFromInt(9999)

	_, err := testService(fake).CreatePayment(context.Background(), o, "rest-42")
	if err != ErrSplitMismatch {
		t.Fatalf("expected ErrSplitMismatch, got %v", err)
	}
	if fake.calls != 0 {
		t.Fatalf("provider was called %d times for an unreconciled split", fake.calls)
	}
}
