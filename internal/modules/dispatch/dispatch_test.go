package dispatch

import (
	"context"
	"sync"
	"testing"
	"time"

	"jetfood/internal/config"
	"jetfood/internal/types"
)

type fakeReleaser struct {
	mu        sync.Mutex
	deadlines []time.Time
	ids       []types.ID
}

func (f *fakeReleaser) ReleaseDue(_ context.Context, deadline time.Time) ([]types.ID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deadlines = append(f.deadlines, deadline)
	out := f.ids
	f.ids = nil
	return out, nil
}

func TestFireDueUsesLeadWindow(t *testing.T) {
	fake := &fakeReleaser{ids: []types.ID{1, 2}}
	svc := NewService(fake, config.DispatchConfig{TickSeconds: 5, LeadMinutes: 5})

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.FireDue(context.Background(), now)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.deadlines) != 1 {
		t.Fatalf("expected 1 sweep, got %d", len(fake.deadlines))
	}
	// An order with ready_by = now+5min is exactly due.
	want := now.Add(5 * time.Minute)
	if !fake.deadlines[0].Equal(want) {
		t.Fatalf("deadline = %s, want %s", fake.deadlines[0], want)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	fake := &fakeReleaser{}
	svc := NewService(fake, config.DispatchConfig{TickSeconds: 1, LeadMinutes: 5})
	svc.tick = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		svc.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}

	fake.mu.Lock()
	defer fake.mu.Unlock()
	if len(fake.deadlines) == 0 {
		t.Fatal("expected at least one sweep before cancel")
	}
}
