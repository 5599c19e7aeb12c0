package catalog

import (
	"context"
	"errors"

	"jetfood/internal/types"
)

var ErrRestaurantExists = errors.New("owner already has a restaurant")

// Service wraps the store with the ownership rules the handlers rely on.
type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) CreateRestaurant(ctx context.Context, r *Restaurant) (types.ID, error) {
	if r.Name == "" {
		return 0, ErrBadRequest
	}
	if _, err := s.store.RestaurantByOwner(ctx, r.OwnerID); err == nil {
		return 0, ErrRestaurantExists
	} else if !errors.Is(err, ErrNotFound) {
		return 0, err
	}
	return s.store.CreateRestaurant(ctx, r)
}

func (s *Service) MyRestaurant(ctx context.Context, ownerID types.ID) (*Restaurant, error) {
	return s.store.RestaurantByOwner(ctx, ownerID)
}

func (s *Service) RestaurantByID(ctx context.Context, id types.ID) (*Restaurant, error) {
	return s.store.RestaurantByID(ctx, id)
}

func (s *Service) ListActive(ctx context.Context) ([]*Restaurant, error) {
	return s.store.ListActiveRestaurants(ctx)
}

func (s *Service) ListAll(ctx context.Context) ([]*Restaurant, error) {
	return s.store.ListAllRestaurants(ctx)
}

func (s *Service) UpdateProfile(ctx context.Context, r *Restaurant) error {
	return s.store.UpdateRestaurantProfile(ctx, r)
}

func (s *Service) SetActive(ctx context.Context, id types.ID, active bool) error {
	return s.store.SetRestaurantActive(ctx, id, active)
}

func (s *Service) Approve(ctx context.Context, id types.ID, approved bool) error {
	return s.store.SetRestaurantApproved(ctx, id, approved)
}

func (s *Service) CreateCategory(ctx context.Context, name string) (types.ID, error) {
	if name == "" {
		return 0, ErrBadRequest
	}
	return s.store.CreateCategory(ctx, name)
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *Service) CreateDish(ctx context.Context, d *Dish) (types.ID, error) {
	if d.Name == "" || d.Price.IsNegative() || d.Price.IsZero() {
		return 0, ErrBadRequest
	}
	return s.store.CreateDish(ctx, d)
}

func (s *Service) DishByID(ctx context.Context, id types.ID) (*Dish, error) {
	return s.store.DishByID(ctx, id)
}

func (s *Service) Menu(ctx context.Context, restaurantID types.ID) ([]*Dish, error) {
	return s.store.ListDishesByRestaurant(ctx, restaurantID)
}

func (s *Service) UpdateDish(ctx context.Context, d *Dish) error {
	if d.Name == "" || d.Price.IsNegative() || d.Price.IsZero() {
		return ErrBadRequest
	}
	return s.store.UpdateDish(ctx, d)
}

func (s *Service) DeleteDish(ctx context.Context, dishID, restaurantID types.ID) error {
	return s.store.DeleteDish(ctx, dishID, restaurantID)
}

func (s *Service) CreateReview(ctx context.Context, r *Review) (types.ID, error) {
	if r.Rating < 1 || r.Rating > 5 {
		return 0, ErrBadRequest
	}
	return s.store.CreateReview(ctx, r)
}
