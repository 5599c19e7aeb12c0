package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"jetfood/internal/types"
)

var ErrPromoNotFound = errors.New("promo code not found")

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const promoColumns = `
	id, code, promo_type, value::text, is_active, valid_from, valid_to, max_uses, times_used`

func (s *Store) PromoByCode(ctx context.Context, code string) (*Promo, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+promoColumns+` FROM promo_codes WHERE code = $1`, code)
	return scanPromo(row)
}

func (s *Store) CreatePromo(ctx context.Context, p *Promo) (types.ID, error) {
	var id types.ID
	err := s.db.QueryRow(ctx, `
		INSERT INTO promo_codes (code, promo_type, value, is_active, valid_from, valid_to, max_uses)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		p.Code, string(p.Type), p.Value.String(), p.IsActive, p.ValidFrom, p.ValidTo, p.MaxUses,
	).Scan(&id)
	return id, err
}

func (s *Store) ListPromos(ctx context.Context) ([]*Promo, error) {
	rows, err := s.db.Query(ctx, `SELECT `+promoColumns+` FROM promo_codes ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Promo
	for rows.Next() {
		p, err := scanPromo(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) UpdatePromo(ctx context.Context, p *Promo) error {
	tag, err := s.db.Exec(ctx, `
		UPDATE promo_codes
		SET promo_type = $1, value = $2, is_active = $3,
		    valid_from = $4, valid_to = $5, max_uses = $6
		WHERE id = $7`,
		string(p.Type), p.Value.String(), p.IsActive,
		p.ValidFrom, p.ValidTo, p.MaxUses, int64(p.ID),
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPromoNotFound
	}
	return nil
}

func (s *Store) DeletePromo(ctx context.Context, id types.ID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM promo_codes WHERE id = $1`, int64(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPromoNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPromo(row rowScanner) (*Promo, error) {
	var p Promo
	var promoType, value string
	var from, to time.Time
	err := row.Scan(&p.ID, &p.Code, &promoType, &value, &p.IsActive, &from, &to, &p.MaxUses, &p.TimesUsed)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPromoNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Type = PromoType(promoType)
	p.ValidFrom = from
	p.ValidTo = to
	if p.Value, err = decimal.NewFromString(value); err != nil {
		return nil, err
	}
	return &p, nil
}
