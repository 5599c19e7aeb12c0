package courier

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
	ErrNotFound            = errors.New("courier profile not found")
	ErrInsufficientBalance = errors.New("insufficient balance for payout")
	ErrAlreadyProcessed    = errors.New("payout request already processed")
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const profileColumns = `id, user_id, verification_status, is_online, card_number, balance::text`

// GetOrCreate returns the courier's profile, lazily creating an empty one.
func (s *Store) GetOrCreate(ctx context.Context, userID types.ID) (*Profile, error) {
	_, err := s.db.Exec(ctx, `
		INSERT INTO courier_profiles (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING`, int64(userID))
	if err != nil {
		return nil, err
	}
	return s.ByUser(ctx, userID)
}

func (s *Store) ByUser(ctx context.Context, userID types.ID) (*Profile, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM courier_profiles WHERE user_id = $1`, int64(userID))
	return scanProfile(row)
}

// SetOnline flips the online flag; only approved couriers may go online.
func (s *Store) SetOnline(ctx context.Context, userID types.ID, online bool) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE courier_profiles SET is_online = $1
		WHERE user_id = $2 AND verification_status = $3`,
		online, int64(userID), string(VerificationApproved))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) SetCard(ctx context.Context, userID types.ID, card string) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE courier_profiles SET card_number = $1 WHERE user_id = $2`,
		card, int64(userID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SubmitVerification puts a fresh or rejected profile on review.
func (s *Store) SubmitVerification(ctx context.Context, userID types.ID) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE courier_profiles SET verification_status = $1
		WHERE user_id = $2 AND verification_status IN ($3, $4)`,
		string(VerificationOnReview), int64(userID),
		string(VerificationNotSubmitted), string(VerificationRejected))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// SetVerification records the admin decision on a profile under review.
func (s *Store) SetVerification(ctx context.Context, profileID types.ID, status VerificationStatus) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		UPDATE courier_profiles SET verification_status = $1
		WHERE id = $2 AND verification_status = $3`,
		string(status), int64(profileID), string(VerificationOnReview))
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) ListOnReview(ctx context.Context) ([]*Profile, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+profileColumns+` FROM courier_profiles WHERE verification_status = $1 ORDER BY id`,
		string(VerificationOnReview))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreatePayout reserves the amount immediately: the balance debit and the
// request insert happen in one transaction, guarded so the balance can never
// go negative. A rejected request refunds the reservation.
func (s *Store) CreatePayout(ctx context.Context, profileID types.ID, amount decimal.Decimal, card string) (*PayoutRequest, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE courier_profiles SET balance = balance - $1
		WHERE id = $2 AND balance >= $1`,
		amount.String(), int64(profileID))
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrInsufficientBalance
	}

	var req PayoutRequest
	req.CourierProfileID = profileID
	req.Amount = amount
	req.CardNumber = card
	req.Status = PayoutPending
	err = tx.QueryRow(ctx, `
		INSERT INTO payout_requests (courier_profile_id, amount, card_number)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		int64(profileID), amount.String(), card,
	).Scan(&req.ID, &req.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &req, tx.Commit(ctx)
}

// ProcessPayout applies the admin decision exactly once. Rejection returns
// the reserved amount to the courier's balance in the same transaction.
func (s *Store) ProcessPayout(ctx context.Context, requestID types.ID, status PayoutStatus) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var profileID int64
	var amount string
	err = tx.QueryRow(ctx, `
		UPDATE payout_requests SET status = $1, processed_at = NOW()
		WHERE id = $2 AND status = $3
		RETURNING courier_profile_id, amount::text`,
		string(status), int64(requestID), string(PayoutPending),
	).Scan(&profileID, &amount)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrAlreadyProcessed
	}
	if err != nil {
		return err
	}

	if status == PayoutRejected {
		_, err = tx.Exec(ctx, `
			UPDATE courier_profiles SET balance = balance + $1 WHERE id = $2`,
			amount, profileID)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *Store) ListPayoutsByProfile(ctx context.Context, profileID types.ID) ([]*PayoutRequest, error) {
	return s.listPayouts(ctx, `
		SELECT id, courier_profile_id, amount::text, card_number, status, created_at, processed_at
		FROM payout_requests WHERE courier_profile_id = $1 ORDER BY created_at DESC`, int64(profileID))
}

func (s *Store) ListPendingPayouts(ctx context.Context) ([]*PayoutRequest, error) {
	return s.listPayouts(ctx, `
		SELECT id, courier_profile_id, amount::text, card_number, status, created_at, processed_at
		FROM payout_requests WHERE status = $1 ORDER BY created_at`, string(PayoutPending))
}

func (s *Store) listPayouts(ctx context.Context, query string, args ...any) ([]*PayoutRequest, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*PayoutRequest
	for rows.Next() {
		var r PayoutRequest
		var amount, status string
		var processedAt sql.NullTime
		if err := rows.Scan(&r.ID, &r.CourierProfileID, &amount, &r.CardNumber, &status, &r.CreatedAt, &processedAt); err != nil {
			return nil, err
		}
		if r.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, err
		}
		r.Status = PayoutStatus(status)
		if processedAt.Valid {
			t := processedAt.Time
			r.ProcessedAt = &t
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*Profile, error) {
	var p Profile
	var status, balance string
	var card sql.NullString
	err := row.Scan(&p.ID, &p.UserID, &status, &p.IsOnline, &card, &balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.Verification = VerificationStatus(status)
	if card.Valid {
		p.CardNumber = &card.String
	}
	if p.Balance, err = decimal.NewFromString(balance); err != nil {
		return nil, err
	}
	return &p, nil
}
