// Package dispatch releases awaiting orders to the courier marketplace
// shortly before they are ready. The deadline lives on the order row, so the
// poller is idempotent and survives process restarts.
package dispatch

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"jetfood/internal/config"
	"jetfood/internal/types"
)

type Releaser interface {
	ReleaseDue(ctx context.Context, deadline time.Time) ([]types.ID, error)
}

type Service struct {
	store Releaser
	tick  time.Duration
	lead  time.Duration
	log   *logrus.Entry
}

func NewService(store Releaser, cfg config.DispatchConfig) *Service {
	return &Service{
		store: store,
		tick:  time.Duration(cfg.TickSeconds) * time.Second,
		lead:  time.Duration(cfg.LeadMinutes) * time.Minute,
		log:   logrus.WithField("component", "dispatch"),
	}
}

// Run polls until the context is cancelled.
func (s *Service) Run(ctx context.Context) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.FireDue(ctx, time.Now().UTC())
		}
	}
}

// FireDue releases every order due at `now`: those whose ready-by timestamp is
// within the lead window. An order is due when now ≥ ready_by − lead.
func (s *Service) FireDue(ctx context.Context, now time.Time) {
	ids, err := s.store.ReleaseDue(ctx, now.Add(s.lead))
	if err != nil {
		s.log.WithError(err).Error("dispatch sweep failed")
		return
	}
	for _, id := range ids {
		s.log.WithField("order_id", id).Info("order released for pickup")
	}
}
