package settlement

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"jetfood/internal/config"
	"jetfood/internal/paylink"
	"jetfood/internal/types"
)

type PaymentCreator interface {
	CreatePayment(ctx context.Context, orderID types.ID, amount decimal.Decimal, description string, split []paylink.SplitEntry) (*paylink.PaymentLink, error)
}

type Service struct {
	payments          PaymentCreator
	platformAccountID string
	commissionPercent decimal.Decimal
	log               *logrus.Entry
}

func NewService(payments PaymentCreator, cfg config.PaylinkConfig, fees config.FeesConfig) *Service {
	return &Service{
		payments:          payments,
		platformAccountID: cfg.PlatformAccountID,
		commissionPercent: decimal.NewFromFloat(fees.CommissionPercent),
		log:               logrus.WithField("component", "settlement"),
	}
}

// CreatePayment splits the order and requests a payable link. A split
// mismatch aborts before any provider call is made.
func (s *Service) CreatePayment(ctx context.Context, o Order, restaurantAccountID string) (*paylink.PaymentLink, error) {
	plan, err := Split(o, s.commissionPercent)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"order_id": o.ID,
			"total":    o.Total,
		}).Error("refusing to charge an unreconciled split")
		return nil, err
	}

	split := []paylink.SplitEntry{
		{AccountID: restaurantAccountID, Amount: plan.RestaurantShare.String()},
		{AccountID: s.platformAccountID, Amount: plan.PlatformShare.String()},
	}
	return s.payments.CreatePayment(ctx, o.ID, o.Total, paylink.Description(o.Code), split)
}
