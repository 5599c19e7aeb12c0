package insights

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

func (s *Store) Dashboard(ctx context.Context, from, to time.Time) (*Dashboard, error) {
	d := &Dashboard{}

	var revenue string
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_price), 0)::text, COUNT(*)
		FROM orders
		WHERE status = 'delivered' AND created_at BETWEEN $1 AND $2`,
		from, to,
	).Scan(&revenue, &d.General.TotalOrders)
	if err != nil {
		return nil, err
	}
	if d.General.TotalRevenue, err = decimal.NewFromString(revenue); err != nil {
		return nil, err
	}

	err = s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM users WHERE date_joined BETWEEN $1 AND $2`,
		from, to,
	).Scan(&d.General.NewUsers)
	if err != nil {
		return nil, err
	}

	if d.TopRestaurants, err = s.topRestaurants(ctx, from, to); err != nil {
		return nil, err
	}
	if d.TopCouriers, err = s.topCouriers(ctx, from, to); err != nil {
		return nil, err
	}
	if d.TopClients, err = s.topClients(ctx, from, to); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Store) topRestaurants(ctx context.Context, from, to time.Time) ([]TopRestaurant, error) {
	rows, err := s.db.Query(ctx, `
		SELECT r.id, r.name, COUNT(o.id), SUM(o.total_price)::text
		FROM restaurants r
		JOIN orders o ON o.restaurant_id = r.id
		WHERE o.status = 'delivered' AND o.created_at BETWEEN $1 AND $2
		GROUP BY r.id
		ORDER BY SUM(o.total_price) DESC
		LIMIT 5`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TopRestaurant
	for rows.Next() {
		var t TopRestaurant
		var revenue string
		if err := rows.Scan(&t.ID, &t.Name, &t.OrderCount, &revenue); err != nil {
			return nil, err
		}
		if t.TotalRevenue, err = decimal.NewFromString(revenue); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) topCouriers(ctx context.Context, from, to time.Time) ([]TopCourier, error) {
	rows, err := s.db.Query(ctx, `
		SELECT u.id, u.first_name, COUNT(o.id), SUM(o.delivery_fee)::text
		FROM users u
		JOIN orders o ON o.courier_id = u.id
		WHERE o.status = 'delivered' AND o.created_at BETWEEN $1 AND $2
		GROUP BY u.id
		ORDER BY SUM(o.delivery_fee) DESC
		LIMIT 5`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TopCourier
	for rows.Next() {
		var t TopCourier
		var earnings string
		if err := rows.Scan(&t.ID, &t.FirstName, &t.DeliveriesCount, &earnings); err != nil {
			return nil, err
		}
		if t.TotalEarnings, err = decimal.NewFromString(earnings); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) topClients(ctx context.Context, from, to time.Time) ([]TopClient, error) {
	rows, err := s.db.Query(ctx, `
		SELECT u.id, u.first_name, u.phone, COUNT(o.id), SUM(o.total_price)::text
		FROM users u
		JOIN orders o ON o.user_id = u.id
		WHERE o.status = 'delivered' AND o.created_at BETWEEN $1 AND $2
		GROUP BY u.id
		ORDER BY SUM(o.total_price) DESC
		LIMIT 5`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TopClient
	for rows.Next() {
		var t TopClient
		var spent string
		if err := rows.Scan(&t.ID, &t.FirstName, &t.Phone, &t.OrdersCount, &spent); err != nil {
			return nil, err
		}
		if t.TotalSpent, err = decimal.NewFromString(spent); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
