package courier

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"jetfood/internal/types"
)

var (
	ErrNotVerified  = errors.New("courier is not verified")
	ErrOffline      = errors.New("courier is offline")
	ErrNoCard       = errors.New("no payout card on profile")
	ErrBadRequest   = errors.New("bad request")
	ErrNotOnReview  = errors.New("verification is not awaiting review")
	ErrCannotSubmit = errors.New("verification already submitted or approved")
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) Profile(ctx context.Context, userID types.ID) (*Profile, error) {
	return s.store.GetOrCreate(ctx, userID)
}

// CanTakeOrders gates access to the courier marketplace: the courier must be
// verified and online.
func (s *Service) CanTakeOrders(ctx context.Context, userID types.ID) error {
	p, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	if p.Verification != VerificationApproved {
		return ErrNotVerified
	}
	if !p.IsOnline {
		return ErrOffline
	}
	return nil
}

func (s *Service) SetOnline(ctx context.Context, userID types.ID, online bool) (*Profile, error) {
	if _, err := s.store.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}
	ok, err := s.store.SetOnline(ctx, userID, online)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotVerified
	}
	return s.store.ByUser(ctx, userID)
}

func (s *Service) SetCard(ctx context.Context, userID types.ID, card string) error {
	if card == "" {
		return ErrBadRequest
	}
	if _, err := s.store.GetOrCreate(ctx, userID); err != nil {
		return err
	}
	return s.store.SetCard(ctx, userID, card)
}

func (s *Service) SubmitVerification(ctx context.Context, userID types.ID) (*Profile, error) {
	if _, err := s.store.GetOrCreate(ctx, userID); err != nil {
		return nil, err
	}
	ok, err := s.store.SubmitVerification(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCannotSubmit
	}
	return s.store.ByUser(ctx, userID)
}

// Verify records the admin decision for a profile on review.
func (s *Service) Verify(ctx context.Context, profileID types.ID, approved bool) error {
	status := VerificationRejected
	if approved {
		status = VerificationApproved
	}
	ok, err := s.store.SetVerification(ctx, profileID, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotOnReview
	}
	return nil
}

func (s *Service) ListOnReview(ctx context.Context) ([]*Profile, error) {
	return s.store.ListOnReview(ctx)
}

// RequestPayout reserves funds from the balance and snapshots the card.
func (s *Service) RequestPayout(ctx context.Context, userID types.ID, amount decimal.Decimal) (*PayoutRequest, error) {
	if !amount.IsPositive() {
		return nil, ErrBadRequest
	}
	p, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.CardNumber == nil || *p.CardNumber == "" {
		return nil, ErrNoCard
	}
	return s.store.CreatePayout(ctx, p.ID, amount, *p.CardNumber)
}

func (s *Service) MyPayouts(ctx context.Context, userID types.ID) ([]*PayoutRequest, error) {
	p, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.store.ListPayoutsByProfile(ctx, p.ID)
}

func (s *Service) PendingPayouts(ctx context.Context) ([]*PayoutRequest, error) {
	return s.store.ListPendingPayouts(ctx)
}

// ProcessPayout applies the admin decision; rejection refunds the courier.
func (s *Service) ProcessPayout(ctx context.Context, requestID types.ID, approved bool) error {
	status := PayoutRejected
	if approved {
		status = PayoutApproved
	}
	return s.store.ProcessPayout(ctx, requestID, status)
}
