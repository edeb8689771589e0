package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/support-bot/internal/config"
	"github.com/spec-kit/support-bot/internal/domain"
	"github.com/spec-kit/support-bot/internal/repository"
)

type stubLimits struct {
	lastTicketTS map[int64]int64
	lastCallTS   map[int64]int64
}

func newStubLimits() *stubLimits {
	return &stubLimits{lastTicketTS: make(map[int64]int64), lastCallTS: make(map[int64]int64)}
}

func (s *stubLimits) Get(_ context.Context, userID int64) (*domain.UserLimits, error) {
	return &domain.UserLimits{
		UserID:       userID,
		LastTicketTS: s.lastTicketTS[userID],
		LastCallTS:   s.lastCallTS[userID],
	}, nil
}

func (s *stubLimits) SetLastTicketTS(_ context.Context, userID, ts int64) error {
	s.lastTicketTS[userID] = ts
	return nil
}

func (s *stubLimits) SetLastCallTS(_ context.Context, userID, ts int64) error {
	s.lastCallTS[userID] = ts
	return nil
}

type stubTickets struct {
	repository.TicketRepository

	createdTS map[int64][]int64
}

func newStubTickets() *stubTickets {
	return &stubTickets{createdTS: make(map[int64][]int64)}
}

func (s *stubTickets) CountCreatedSince(_ context.Context, userID, sinceTS int64) (int64, error) {
	var count int64
	for _, ts := range s.createdTS[userID] {
		if ts >= sinceTS {
			count++
		}
	}
	return count, nil
}

func newTestLimiter() (*Limiter, *stubLimits, *stubTickets) {
	limits := newStubLimits()
	tickets := newStubTickets()
	cfg := config.LifecycleConfig{
		TicketCooldown:      60 * time.Second,
		CallCooldown:        60 * time.Second,
		TicketWindow:        600 * time.Second,
		MaxTicketsPerWindow: 3,
	}
	return NewLimiter(limits, tickets, cfg), limits, tickets
}

func TestFirstTicketAlwaysAllowed(t *testing.T) {
	limiter, _, _ := newTestLimiter()

	verdict, err := limiter.CheckTicketCreation(context.Background(), 42, 1000)
	if err != nil {
		t.Fatalf("CheckTicketCreation: %v", err)
	}
	if !verdict.Allowed {
		t.Fatalf("first ticket rejected: %+v", verdict)
	}
}

func TestTicketCooldownWait(t *testing.T) {
	limiter, limits, _ := newTestLimiter()
	ctx := context.Background()

	limits.lastTicketTS[42] = 1000

	verdict, err := limiter.CheckTicketCreation(ctx, 42, 1030)
	if err != nil {
		t.Fatalf("CheckTicketCreation: %v", err)
	}
	if verdict.Allowed {
		t.Fatalf("ticket allowed inside cooldown")
	}
	if verdict.WaitSeconds != 30 {
		t.Fatalf("WaitSeconds = %d, want 30", verdict.WaitSeconds)
	}
	if verdict.WindowExceeded {
		t.Fatalf("cooldown rejection flagged as window rejection")
	}

	verdict, err = limiter.CheckTicketCreation(ctx, 42, 1060)
	if err != nil {
		t.Fatalf("CheckTicketCreation: %v", err)
	}
	if !verdict.Allowed {
		t.Fatalf("ticket rejected at exact cooldown boundary: %+v", verdict)
	}
}

func TestTicketWindowCap(t *testing.T) {
	limiter, _, tickets := newTestLimiter()
	ctx := context.Background()

	tickets.createdTS[42] = []int64{1000, 1100, 1200}

	verdict, err := limiter.CheckTicketCreation(ctx, 42, 1300)
	if err != nil {
		t.Fatalf("CheckTicketCreation: %v", err)
	}
	if verdict.Allowed || !verdict.WindowExceeded {
		t.Fatalf("fourth ticket in window not rejected: %+v", verdict)
	}
	if verdict.WaitSeconds != 0 {
		t.Fatalf("window rejection carries a wait estimate: %d", verdict.WaitSeconds)
	}

	// Once the oldest creation slides out of the window the cap clears.
	verdict, err = limiter.CheckTicketCreation(ctx, 42, 1601)
	if err != nil {
		t.Fatalf("CheckTicketCreation: %v", err)
	}
	if !verdict.Allowed {
		t.Fatalf("ticket rejected after window slid: %+v", verdict)
	}
}

func TestWindowCapIsPerUser(t *testing.T) {
	limiter, _, tickets := newTestLimiter()

	tickets.createdTS[42] = []int64{1000, 1100, 1200}

	verdict, err := limiter.CheckTicketCreation(context.Background(), 77, 1300)
	if err != nil {
		t.Fatalf("CheckTicketCreation: %v", err)
	}
	if !verdict.Allowed {
		t.Fatalf("another user's tickets counted against this user: %+v", verdict)
	}
}

func TestBackwardsClockDelaysInsteadOfFaulting(t *testing.T) {
	limiter, limits, _ := newTestLimiter()

	limits.lastTicketTS[42] = 2000

	verdict, err := limiter.CheckTicketCreation(context.Background(), 42, 1990)
	if err != nil {
		t.Fatalf("CheckTicketCreation: %v", err)
	}
	if verdict.Allowed {
		t.Fatalf("backwards clock bypassed the cooldown")
	}
	if verdict.WaitSeconds != 70 {
		t.Fatalf("WaitSeconds = %d, want 70", verdict.WaitSeconds)
	}
}

func TestOperatorCallCooldownIsIndependent(t *testing.T) {
	limiter, limits, _ := newTestLimiter()
	ctx := context.Background()

	// A recent ticket does not block an operator call.
	if err := limiter.RecordTicketCreation(ctx, 42, 1000); err != nil {
		t.Fatalf("RecordTicketCreation: %v", err)
	}
	verdict, err := limiter.CheckOperatorCall(ctx, 42, 1010)
	if err != nil {
		t.Fatalf("CheckOperatorCall: %v", err)
	}
	if !verdict.Allowed {
		t.Fatalf("operator call blocked by ticket cooldown: %+v", verdict)
	}

	if err := limiter.RecordOperatorCall(ctx, 42, 1010); err != nil {
		t.Fatalf("RecordOperatorCall: %v", err)
	}
	verdict, err = limiter.CheckOperatorCall(ctx, 42, 1020)
	if err != nil {
		t.Fatalf("CheckOperatorCall: %v", err)
	}
	if verdict.Allowed || verdict.WaitSeconds != 50 {
		t.Fatalf("verdict after recent call = %+v, want wait 50", verdict)
	}

	if limits.lastTicketTS[42] != 1000 {
		t.Fatalf("operator call clobbered the ticket stamp")
	}
}
