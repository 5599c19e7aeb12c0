package order

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"jetfood/internal/types"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Create inserts the order with its frozen line items in one transaction.
// When promoCode is set, the promo usage counter is incremented in the same
// transaction under its cap; a failed increment aborts the whole creation.
func (s *Store) Create(ctx context.Context, o *Order, promoCode string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO orders (
			code, user_id, restaurant_id, address_text, delivery_lat, delivery_lng,
			items_subtotal, service_fee, delivery_fee, discount, total_price, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at`,
		o.Code, int64(o.UserID), int64(o.RestaurantID), o.AddressText,
		latPtr(o.DeliveryPoint), lngPtr(o.DeliveryPoint),
		o.ItemsSubtotal.String(), o.ServiceFee.String(), o.DeliveryFee.String(),
		o.Discount.String(), o.Total.String(), string(o.Status),
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return err
	}

	for i := range o.Items {
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, dish_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4)
			RETURNING id`,
			int64(o.ID), int64(o.Items[i].DishID), o.Items[i].Quantity, o.Items[i].UnitPrice.String(),
		).Scan(&o.Items[i].ID)
		if err != nil {
			return err
		}
	}

	if promoCode != "" {
		tag, err := tx.Exec(ctx, `
			UPDATE promo_codes
			SET times_used = times_used + 1
			WHERE code = $1 AND is_active AND times_used < max_uses`,
			promoCode,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrPromoExhausted
		}
	}

	return tx.Commit(ctx)
}

const orderColumns = `
	id, code, user_id, restaurant_id, courier_id, address_text,
	delivery_lat, delivery_lng,
	items_subtotal::text, service_fee::text, delivery_fee::text, discount::text, total_price::text,
	status, created_at, payment_invoice_id, delivery_type, prep_minutes, ready_by`

func (s *Store) Get(ctx context.Context, id types.ID) (*Order, error) {
	row := s.db.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, int64(id))
	o, err := scanOrder(row)
	if err != nil {
		return nil, err
	}
	if o.Items, err = s.items(ctx, id); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Store) items(ctx context.Context, orderID types.ID) ([]Item, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, dish_id, quantity, unit_price::text
		FROM order_items WHERE order_id = $1 ORDER BY id`, int64(orderID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		var price string
		if err := rows.Scan(&it.ID, &it.DishID, &it.Quantity, &price); err != nil {
			return nil, err
		}
		if it.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) SetInvoice(ctx context.Context, id types.ID, invoiceID string) error {
	_, err := s.db.Exec(ctx,
		`UPDATE orders SET payment_invoice_id = $1 WHERE id = $2`, invoiceID, int64(id))
	return err
}

// UpdateStatus performs a conditional transition: the row moves only if it is
// still in the expected state. Returns false when another actor won the race.
func (s *Store) UpdateStatus(ctx context.Context, id types.ID, from, to Status) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders SET status = $1 WHERE id = $2 AND status = $3`,
		string(to), int64(id), string(from))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Accept moves a paid order to its post-accept status and records the
// delivery plan in the same statement.
func (s *Store) Accept(ctx context.Context, id types.ID, to Status, dt DeliveryType, prepMinutes int, readyBy time.Time) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET status = $1, delivery_type = $2, prep_minutes = $3, ready_by = $4
		WHERE id = $5 AND status = $6`,
		string(to), string(dt), prepMinutes, readyBy, int64(id), string(StatusPaid))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// AcceptByCourier assigns the courier and starts delivery in one atomic
// statement; at most one courier can win.
func (s *Store) AcceptByCourier(ctx context.Context, id, courierID types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders
		SET status = $1, courier_id = $2
		WHERE id = $3 AND status = $4 AND courier_id IS NULL AND delivery_type = $5`,
		string(StatusOnTheWay), int64(courierID), int64(id), string(StatusReadyForPickup),
		string(DeliveryAppCourier))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// DeliverAndCredit closes the order and credits the courier's balance by the
// delivery fee in a single transaction.
func (s *Store) DeliverAndCredit(ctx context.Context, id, courierID types.ID) (bool, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE orders SET status = $1
		WHERE id = $2 AND status = $3 AND courier_id = $4`,
		string(StatusDelivered), int64(id), string(StatusOnTheWay), int64(courierID))
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() != 1 {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
		UPDATE courier_profiles
		SET balance = balance + (SELECT delivery_fee FROM orders WHERE id = $1)
		WHERE user_id = $2`,
		int64(id), int64(courierID))
	if err != nil {
		return false, err
	}
	return true, tx.Commit(ctx)
}

func (s *Store) CancelByCourier(ctx context.Context, id, courierID types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE orders SET status = $1
		WHERE id = $2 AND status = $3 AND courier_id = $4`,
		string(StatusCancelled), int64(id), string(StatusOnTheWay), int64(courierID))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ReleaseDue flips every awaiting order whose dispatch deadline has passed to
// ready_for_pickup. The status re-check in the WHERE clause makes repeated
// fires and fires after cancellation no-ops.
func (s *Store) ReleaseDue(ctx context.Context, deadline time.Time) ([]types.ID, error) {
	rows, err := s.db.Query(ctx, `
		UPDATE orders SET status = $1
		WHERE status = $2 AND ready_by <= $3
		RETURNING id`,
		string(StatusReadyForPickup), string(StatusAwaitingCourierSearch), deadline)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []types.ID
	for rows.Next() {
		var id types.ID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) AppendEvent(ctx context.Context, e *Event) error {
	var actor *int64
	if e.ActorID != nil {
		v := int64(*e.ActorID)
		actor = &v
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO order_status_events (order_id, from_status, to_status, actor_type, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		int64(e.OrderID), string(e.FromStatus), string(e.ToStatus), e.ActorType, actor, e.CreatedAt)
	return err
}

func (s *Store) ListByUser(ctx context.Context, userID types.ID) ([]*Order, error) {
	return s.list(ctx, `SELECT `+orderColumns+`
		FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, int64(userID))
}

func (s *Store) ListByRestaurant(ctx context.Context, restaurantID types.ID) ([]*Order, error) {
	return s.list(ctx, `SELECT `+orderColumns+`
		FROM orders WHERE restaurant_id = $1 ORDER BY created_at DESC`, int64(restaurantID))
}

// ListAvailableForCouriers returns unclaimed courier-delivery orders visible
// to the courier marketplace. Self-delivered orders never show up here.
func (s *Store) ListAvailableForCouriers(ctx context.Context) ([]*Order, error) {
	return s.list(ctx, `SELECT `+orderColumns+`
		FROM orders
		WHERE status = $1 AND courier_id IS NULL AND delivery_type = $2
		ORDER BY ready_by`,
		string(StatusReadyForPickup), string(DeliveryAppCourier))
}

func (s *Store) ListByCourier(ctx context.Context, courierID types.ID, statuses ...Status) ([]*Order, error) {
	if len(statuses) == 0 {
		return s.list(ctx, `SELECT `+orderColumns+`
			FROM orders WHERE courier_id = $1 ORDER BY created_at DESC`, int64(courierID))
	}
	ss := make([]string, len(statuses))
	for i, st := range statuses {
		ss[i] = string(st)
	}
	return s.list(ctx, `SELECT `+orderColumns+`
		FROM orders WHERE courier_id = $1 AND status = ANY($2) ORDER BY created_at DESC`,
		int64(courierID), ss)
}

func (s *Store) list(ctx context.Context, query string, args ...any) ([]*Order, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*Order, error) {
	var o Order
	var courierID sql.NullInt64
	var lat, lng sql.NullFloat64
	var subtotal, fee, delivery, discount, total string
	var status string
	var invoiceID, deliveryType sql.NullString
	var prepMinutes sql.NullInt64
	var readyBy sql.NullTime

	err := row.Scan(
		&o.ID, &o.Code, &o.UserID, &o.RestaurantID, &courierID, &o.AddressText,
		&lat, &lng,
		&subtotal, &fee, &delivery, &discount, &total,
		&status, &o.CreatedAt, &invoiceID, &deliveryType, &prepMinutes, &readyBy,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	o.Status = Status(status)
	if courierID.Valid {
		id := types.ID(courierID.Int64)
		o.CourierID = &id
	}
	if lat.Valid && lng.Valid {
		o.DeliveryPoint = &types.Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	if invoiceID.Valid {
		o.PaymentInvoiceID = &invoiceID.String
	}
	if deliveryType.Valid {
		dt := DeliveryType(deliveryType.String)
		o.DeliveryType = &dt
	}
	if prepMinutes.Valid {
		n := int(prepMinutes.Int64)
		o.PrepMinutes = &n
	}
	if readyBy.Valid {
		t := readyBy.Time
		o.ReadyBy = &t
	}

	for _, pair := range []struct {
		dst *decimal.Decimal
		src string
	}{
		{&o.ItemsSubtotal, subtotal}, {&o.ServiceFee, fee}, {&o.DeliveryFee, delivery},
		{&o.Discount, discount}, {&o.Total, total},
	} {
		if *pair.dst, err = decimal.NewFromString(pair.src); err != nil {
			return nil, err
		}
	}
	return &o, nil
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
