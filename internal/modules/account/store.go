package account

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jetfood/internal/types"
)

var ErrNotFound = errors.New("account record not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) UserByID(ctx context.Context, id types.ID) (*User, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, phone, first_name, role, is_active, date_joined
		FROM users WHERE id = $1`, int64(id))
	var u User
	var role string
	err := row.Scan(&u.ID, &u.Phone, &u.FirstName, &role, &u.IsActive, &u.DateJoined)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	u.Role = Role(role)
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, phone, first_name, role, is_active, date_joined
		FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		var u User
		var role string
		if err := rows.Scan(&u.ID, &u.Phone, &u.FirstName, &role, &u.IsActive, &u.DateJoined); err != nil {
			return nil, err
		}
		u.Role = Role(role)
		out = append(out, &u)
	}
	return out, rows.Err()
}

// SetUserActive deactivates or reactivates a user. Users with financial
// history are never deleted.
func (s *Store) SetUserActive(ctx context.Context, id types.ID, active bool) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE users SET is_active = $1 WHERE id = $2`, active, int64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateAddress(ctx context.Context, a *Address) (types.ID, error) {
	var id types.ID
	err := s.db.QueryRow(ctx, `
		INSERT INTO addresses (user_id, city, street, house_number, latitude, longitude)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		int64(a.UserID), a.City, a.Street, a.HouseNumber, latPtr(a.Location), lngPtr(a.Location),
	).Scan(&id)
	return id, err
}

// AddressByID is scoped to the owner: another user's address behaves as absent.
func (s *Store) AddressByID(ctx context.Context, id, userID types.ID) (*Address, error) {
	row := s.db.QueryRow(ctx, `
		SELECT id, user_id, city, street, house_number, latitude, longitude
		FROM addresses WHERE id = $1 AND user_id = $2`, int64(id), int64(userID))
	return scanAddress(row)
}

func (s *Store) ListAddresses(ctx context.Context, userID types.ID) ([]*Address, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, user_id, city, street, house_number, latitude, longitude
		FROM addresses WHERE user_id = $1 ORDER BY id`, int64(userID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) DeleteAddress(ctx context.Context, id, userID types.ID) error {
	tag, err := s.db.Exec(ctx,
		`DELETE FROM addresses WHERE id = $1 AND user_id = $2`, int64(id), int64(userID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAddress(row rowScanner) (*Address, error) {
	var a Address
	var lat, lng sql.NullFloat64
	err := row.Scan(&a.ID, &a.UserID, &a.City, &a.Street, &a.HouseNumber, &lat, &lng)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if lat.Valid && lng.Valid {
		a.Location = &types.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	return &a, nil
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
