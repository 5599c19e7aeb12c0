package insights

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type Service struct {
	store     *Store
	geminiKey string
	log       *logrus.Entry
}

func NewService(store *Store, geminiKey string) *Service {
	return &Service{
		store:     store,
		geminiKey: geminiKey,
		log:       logrus.WithField("component", "insights"),
	}
}

// Dashboard returns the aggregated stats for the range. With withSummary set
// and a Gemini key configured, a short operations summary is attached; a
// summary failure never fails the dashboard itself.
func (s *Service) Dashboard(ctx context.Context, from, to time.Time, withSummary bool) (*Dashboard, error) {
	d, err := s.store.Dashboard(ctx, from, to)
	if err != nil {
		return nil, err
	}

	if withSummary && s.geminiKey != "" {
		summary, err := callGemini(ctx, s.geminiKey, s.buildPrompt(d, from, to))
		if err != nil {
			s.log.WithError(err).Warn("dashboard summary generation failed")
		} else {
			d.Summary = summary
		}
	}
	return d, nil
}

func (s *Service) buildPrompt(d *Dashboard, from, to time.Time) string {
	return fmt.Sprintf(
		"You are an operations analyst for a food delivery marketplace. "+
			"Write a short summary (3-4 sentences) of this period's performance.\n"+
			"Period: %s to %s\n"+
			"Delivered orders: %d\nRevenue: %s\nNew users: %d\n"+
			"Top restaurants: %d listed, top couriers: %d listed.",
		from.Format("2006-01-02"), to.Format("2006-01-02"),
		d.General.TotalOrders, d.General.TotalRevenue, d.General.NewUsers,
		len(d.TopRestaurants), len(d.TopCouriers))
}
