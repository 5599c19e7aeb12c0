package courier

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"jetfood/internal/types"
)

func TestVerificationFlow(t *testing.T) {
	svc, userID := setupTestService(t)
	ctx := context.Background()

	p, err := svc.Profile(ctx, userID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if p.Verification != VerificationNotSubmitted {
		t.Fatalf("fresh profile status = %s", p.Verification)
	}

	// Unverified couriers cannot go online or take orders.
	if _, err := svc.SetOnline(ctx, userID, true); err != ErrNotVerified {
		t.Fatalf("online before approval: expected ErrNotVerified, got %v", err)
	}
	if err := svc.CanTakeOrders(ctx, userID); err != ErrNotVerified {
		t.Fatalf("expected ErrNotVerified, got %v", err)
	}

	p, err = svc.SubmitVerification(ctx, userID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if p.Verification != VerificationOnReview {
		t.Fatalf("status after submit = %s", p.Verification)
	}
	// Double submission while on review is rejected.
	if _, err := svc.SubmitVerification(ctx, userID); err != ErrCannotSubmit {
		t.Fatalf("resubmit: expected ErrCannotSubmit, got %v", err)
	}

	if err := svc.Verify(ctx, p.ID, true); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := svc.Verify(ctx, p.ID, true); err != ErrNotOnReview {
		t.Fatalf("double approve: expected ErrNotOnReview, got %v", err)
	}

	// Approved but offline: still gated.
	if err := svc.CanTakeOrders(ctx, userID); err != ErrOffline {
		t.Fatalf("expected ErrOffline, got %v", err)
	}
	if _, err := svc.SetOnline(ctx, userID, true); err != nil {
		t.Fatalf("go online: %v", err)
	}
	if err := svc.CanTakeOrders(ctx, userID); err != nil {
		t.Fatalf("expected eligible courier, got %v", err)
	}
}

func TestPayoutFlow(t *testing.T) {
	svc, userID := setupTestService(t)
	ctx := context.Background()

	p, err := svc.Profile(ctx, userID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	creditBalance(t, svc, p.ID, 1000)

	// Card required before requesting.
	if _, err := svc.RequestPayout(ctx, userID, decimal.NewFromInt(300)); err != ErrNoCard {
		t.Fatalf("expected ErrNoCard, got %v", err)
	}
	if err := svc.SetCard(ctx, userID, "4400 1234 5678 9010"); err != nil {
		t.Fatalf("set card: %v", err)
	}

	req, err := svc.RequestPayout(ctx, userID, decimal.NewFromInt(300))
	if err != nil {
		t.Fatalf("request payout: %v", err)
	}
	if req.Status != PayoutPending || req.CardNumber == "" {
		t.Fatalf("unexpected request: %+v", req)
	}
	assertBalance(t, svc, userID, 700)

	// Over-withdrawal is rejected before any state change.
	if _, err := svc.RequestPayout(ctx, userID, decimal.NewFromInt(5000)); err != ErrInsufficientBalance {
		t.Fatalf("expected ErrInsufficientBalance, got %v", err)
	}
	assertBalance(t, svc, userID, 700)

	// Rejection refunds the reservation.
	if err := svc.ProcessPayout(ctx, req.ID, false); err != nil {
		t.Fatalf("reject: %v", err)
	}
	assertBalance(t, svc, userID, 1000)
	if err := svc.ProcessPayout(ctx, req.ID, true); err != ErrAlreadyProcessed {
		t.Fatalf("reprocess: expected ErrAlreadyProcessed, got %v", err)
	}

	// Approval keeps the debit.
	req2, err := svc.RequestPayout(ctx, userID, decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if err := svc.ProcessPayout(ctx, req2.ID, true); err != nil {
		t.Fatalf("approve: %v", err)
	}
	assertBalance(t, svc, userID, 0)

	history, err := svc.MyPayouts(ctx, userID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 payout requests, got %d", len(history))
	}
	for _, h := range history {
		if h.ProcessedAt == nil {
			t.Fatalf("request %d missing processed_at", h.ID)
		}
	}
}

// Concurrent payout requests can never overdraw the balance.
func TestConcurrentPayoutRequests(t *testing.T) {
	svc, userID := setupTestService(t)
	ctx := context.Background()

	p, err := svc.Profile(ctx, userID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	creditBalance(t, svc, p.ID, 500)
	if err := svc.SetCard(ctx, userID, "4400 1234 5678 9010"); err != nil {
		t.Fatalf("set card: %v", err)
	}

	const attempts = 5
	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RequestPayout(ctx, userID, decimal.NewFromInt(400))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
			continue
		}
		if err != ErrInsufficientBalance {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if success != 1 {
		t.Fatalf("expected exactly 1 successful reservation, got %d", success)
	}
	assertBalance(t, svc, userID, 100)
}

func creditBalance(t *testing.T, svc *Service, profileID types.ID, amount int64) {
	t.Helper()
	_, err := svc.store.db.Exec(context.Background(),
		`UPDATE courier_profiles SET balance = balance + $1 WHERE id = $2`,
		amount, int64(profileID))
	if err != nil {
		t.Fatalf("credit balance: %v", err)
	}
}

func assertBalance(t *testing.T, svc *Service, userID types.ID, want int64) {
	t.Helper()
	p, err := svc.store.ByUser(context.Background(), userID)
	if err != nil {
		t.Fatalf("read profile: %v", err)
	}
	if !p.Balance.Equal(decimal.NewFromInt(want)) {
		t.Fatalf("balance = %s, want %d", p.Balance, want)
	}
}

func setupTestService(t *testing.T) (*Service, types.ID) {
	t.Helper()

	dsn := os.Getenv("JETFOOD_TEST_DSN")
	if dsn == "" {
		t.Skip("JETFOOD_TEST_DSN not set; skipping DB-backed tests")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := applyMigration(ctx, db); err != nil {
		t.Fatalf("apply migration: %v", err)
	}
	if _, err := db.Exec(ctx,
		`TRUNCATE TABLE payout_requests, courier_profiles, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	var userID types.ID
	err = db.QueryRow(ctx, `
		INSERT INTO users (phone, first_name, role)
		VALUES ('+70000000099', 'Courier', 'courier') RETURNING id`).Scan(&userID)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	return NewService(NewStore(db)), userID
}

func applyMigration(ctx context.Context, db *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	content, err := os.ReadFile(filepath.Join(root, "migrations", "0001_init.sql"))
	if err != nil {
		return err
	}
	cleaned := stripSQLComments(string(content))
	for _, stmt := range splitSQL(cleaned) {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func repoRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for i := 0; i < 6; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

func stripSQLComments(input string) string {
	var b strings.Builder
	scanner := bufio.NewScanner(strings.NewReader(input))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		b.WriteString(scanner.Text())
		b.WriteString("\n")
	}
	return b.String()
}

func splitSQL(input string) []string {
	parts := strings.Split(input, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		stmt := strings.TrimSpace(p)
		if stmt == "" {
			continue
		}
		out = append(out, stmt)
	}
	return out
}
