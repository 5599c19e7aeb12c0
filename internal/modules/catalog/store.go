package catalog

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"jetfood/internal/types"
)

var (
	ErrNotFound   = errors.New("catalog entry not found")
	ErrDuplicate  = errors.New("catalog entry already exists")
	ErrBadRequest = errors.New("bad catalog request")
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const restaurantColumns = `
	id, owner_id, name, description, address, latitude, longitude,
	is_approved, is_active, average_rating::text, review_count, paylink_account_id`

func (s *Store) CreateRestaurant(ctx context.Context, r *Restaurant) (types.ID, error) {
	var id types.ID
	err := s.db.QueryRow(ctx, `
		INSERT INTO restaurants (owner_id, name, description, address, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		int64(r.OwnerID), r.Name, r.Description, r.Address, latPtr(r.Location), lngPtr(r.Location),
	).Scan(&id)
	return id, err
}

func (s *Store) RestaurantByID(ctx context.Context, id types.ID) (*Restaurant, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants WHERE id = $1`, int64(id))
	return scanRestaurant(row)
}

func (s *Store) RestaurantByOwner(ctx context.Context, ownerID types.ID) (*Restaurant, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants WHERE owner_id = $1`, int64(ownerID))
	return scanRestaurant(row)
}

func (s *Store) ListActiveRestaurants(ctx context.Context) ([]*Restaurant, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+restaurantColumns+` FROM restaurants
		 WHERE is_approved AND is_active
		 ORDER BY average_rating DESC, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRestaurants(rows)
}

func (s *Store) ListAllRestaurants(ctx context.Context) ([]*Restaurant, error) {
	rows, err := s.db.Query(ctx, `SELECT `+restaurantColumns+` FROM restaurants ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRestaurants(rows)
}

func (s *Store) UpdateRestaurantProfile(ctx context.Context, r *Restaurant) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE restaurants
		SET name = $1, description = $2, address = $3,
		    latitude = $4, longitude = $5, paylink_account_id = $6
		WHERE id = $7`,
		r.Name, r.Description, r.Address,
		latPtr(r.Location), lngPtr(r.Location), r.PaylinkAccountID,
		int64(r.ID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetRestaurantActive(ctx context.Context, id types.ID, active bool) error {
	return s.setRestaurantFlag(ctx, id, "is_active", active)
}

func (s *Store) SetRestaurantApproved(ctx context.Context, id types.ID, approved bool) error {
	return s.setRestaurantFlag(ctx, id, "is_approved", approved)
}

func (s *Store) setRestaurantFlag(ctx context.Context, id types.ID, column string, v bool) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE restaurants SET `+column+` = $1 WHERE id = $2`, v, int64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateCategory(ctx context.Context, name string) (types.ID, error) {
	var id types.ID
	err := s.db.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) ON CONFLICT (name) DO NOTHING RETURNING id`,
		name,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrDuplicate
	}
	return id, err
}

func (s *Store) ListCategories(ctx context.Context) ([]Category, error) {
	rows, err := s.db.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) CreateDish(ctx context.Context, d *Dish) (types.ID, error) {
	var id types.ID
	err := s.db.QueryRow(ctx, `
		INSERT INTO dishes (restaurant_id, category_id, name, description, price, is_available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		int64(d.RestaurantID), int64(d.CategoryID), d.Name, d.Description,
		d.Price.String(), d.IsAvailable,
	).Scan(&id)
	return id, err
}

func (s *Store) DishByID(ctx context.Context, id types.ID) (*Dish, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, restaurant_id, category_id, name, description, price::text, is_available
		FROM dishes WHERE id = $1`, int64(id))
	return scanDish(row)
}

func (s *Store) ListDishesByRestaurant(ctx context.Context, restaurantID types.ID) ([]*Dish, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, restaurant_id, category_id, name, description, price::text, is_available
		FROM dishes WHERE restaurant_id = $1 ORDER BY category_id, name`, int64(restaurantID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Dish
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) UpdateDish(ctx context.Context, d *Dish) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE dishes
		SET name = $1, description = $2, price = $3, is_available = $4
		WHERE id = $5 AND restaurant_id = $6`,
		d.Name, d.Description, d.Price.String(), d.IsAvailable,
		int64(d.ID), int64(d.RestaurantID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteDish(ctx context.Context, dishID, restaurantID types.ID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM dishes WHERE id = $1 AND restaurant_id = $2`,
		int64(dishID), int64(restaurantID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateReview inserts a review and refreshes the restaurant's aggregate
// rating in the same transaction.
func (s *Store) CreateReview(ctx context.Context, r *Review) (types.ID, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	var id types.ID
	err = tx.QueryRow(ctx, `
		INSERT INTO reviews (order_id, user_id, restaurant_id, rating, comment)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		int64(r.OrderID), int64(r.UserID), int64(r.RestaurantID), r.Rating, r.Comment,
	).Scan(&id)
	if err != nil {
		return 0, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE restaurants SET
			average_rating = (SELECT COALESCE(AVG(rating), 0) FROM reviews WHERE restaurant_id = $1),
			review_count = (SELECT COUNT(*) FROM reviews WHERE restaurant_id = $1)
		WHERE id = $1`, int64(r.RestaurantID))
	if err != nil {
		return 0, err
	}
	return id, tx.Commit(ctx)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRestaurant(row rowScanner) (*Restaurant, error) {
	var r Restaurant
	var lat, lng sql.NullFloat64
	var rating string
	var account sql.NullString
	err := row.Scan(
		&r.ID, &r.OwnerID, &r.Name, &r.Description, &r.Address, &lat, &lng,
		&r.IsApproved, &r.IsActive, &rating, &r.ReviewCount, &account,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		r.Location = &types.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	if account.Valid {
		r.PaylinkAccountID = &account.String
	}
	if r.AverageRating, err = decimal.NewFromString(rating); err != nil {
		return nil, err
	}
	return &r, nil
}

func collectRestaurants(rows pgx.Rows) ([]*Restaurant, error) {
	var out []*Restaurant
	for rows.Next() {
		r, err := scanRestaurant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func scanDish(row rowScanner) (*Dish, error) {
	var d Dish
	var price string
	err := row.Scan(&d.ID, &d.RestaurantID, &d.CategoryID, &d.Name, &d.Description, &price, &d.IsAvailable)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if d.Price, err = decimal.NewFromString(price); err != nil {
		return nil, err
	}
	return &d, nil
}

func latPtr(p *types.Point) *float64 {
	if p == nil {
		return nil
	}
	return &p.Lat
}

func lngPtr(p *types.Point) *float64 {
	if p == nil {
		return nil
	}
	return &p.Lng
}
