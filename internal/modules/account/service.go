package account

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"jetfood/internal/types"
)

var ErrBadRequest = errors.New("bad address input")

// Geocoder resolves a free-form address into coordinates. Optional: a nil
// geocoder leaves addresses without coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*types.Point, error)
}

type Service struct {
	store    *Store
	geocoder Geocoder
	log      *logrus.Entry
}

func NewService(store *Store, geocoder Geocoder) *Service {
	return &Service{
		store:    store,
		geocoder: geocoder,
		log:      logrus.WithField("component", "account"),
	}
}

// CreateAddress stores an address, geocoding it when no coordinates were
// supplied. Geocoding failure is not fatal: the address is saved without
// coordinates and the zone validator will fail closed for it.
func (s *Service) CreateAddress(ctx context.Context, a *Address) (types.ID, error) {
	if a.Street == "" || a.HouseNumber == "" {
		return 0, ErrBadRequest
	}
	if a.Location == nil && s.geocoder != nil {
		p, err := s.geocoder.Geocode(ctx, a.Text())
		if err != nil {
			s.log.WithError(err).WithField("address", a.Text()).Warn("geocoding failed")
		} else {
			a.Location = p
		}
	}
	return s.store.CreateAddress(ctx, a)
}

func (s *Service) AddressByID(ctx context.Context, id, userID types.ID) (*Address, error) {
	return s.store.AddressByID(ctx, id, userID)
}

func (s *Service) ListAddresses(ctx context.Context, userID types.ID) ([]*Address, error) {
	return s.store.ListAddresses(ctx, userID)
}

func (s *Service) DeleteAddress(ctx context.Context, id, userID types.ID) error {
	return s.store.DeleteAddress(ctx, id, userID)
}

func (s *Service) UserByID(ctx context.Context, id types.ID) (*User, error) {
	return s.store.UserByID(ctx, id)
}

func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.store.ListUsers(ctx)
}

func (s *Service) SetUserActive(ctx context.Context, id types.ID, active bool) error {
	return s.store.SetUserActive(ctx, id, active)
}
