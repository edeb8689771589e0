// Package ratelimit gatekeeps ticket creation and operator calls with a
// per-action cooldown and a sliding-window cap. Checks and records are
// deliberately separate calls: a rejected attempt must not consume the
// cooldown, so callers record only after the guarded action succeeded.
package ratelimit

import (
	"context"
	"time"

	"github.com/spec-kit/support-bot/internal/config"
	"github.com/spec-kit/support-bot/internal/repository"
)

// Verdict is the outcome of a rate check. WaitSeconds is nonzero only for
// cooldown rejections; the window cap has no single wait estimate.
type Verdict struct {
	Allowed        bool
	WaitSeconds    int64
	WindowExceeded bool
}

// Limiter enforces per-user cooldowns and the ticket window cap.
type Limiter struct {
	limits  repository.UserLimitsRepository
	tickets repository.TicketRepository

	ticketCooldown int64
	callCooldown   int64
	window         int64
	maxPerWindow   int64
}

// NewLimiter constructs a limiter from the lifecycle configuration.
func NewLimiter(limits repository.UserLimitsRepository, tickets repository.TicketRepository, cfg config.LifecycleConfig) *Limiter {
	return &Limiter{
		limits:         limits,
		tickets:        tickets,
		ticketCooldown: int64(cfg.TicketCooldown / time.Second),
		callCooldown:   int64(cfg.CallCooldown / time.Second),
		window:         int64(cfg.TicketWindow / time.Second),
		maxPerWindow:   int64(cfg.MaxTicketsPerWindow),
	}
}

// CheckTicketCreation verifies both the creation cooldown and the window cap.
// A first-ever action sees zero timestamps and is always allowed. A clock
// that moved backwards makes the last action look recent, which only delays
// the user; it never faults.
func (l *Limiter) CheckTicketCreation(ctx context.Context, userID, now int64) (Verdict, error) {
	limits, err := l.limits.Get(ctx, userID)
	if err != nil {
		return Verdict{}, err
	}

	if elapsed := now - limits.LastTicketTS; elapsed < l.ticketCooldown {
		return Verdict{WaitSeconds: l.ticketCooldown - elapsed}, nil
	}

	count, err := l.tickets.CountCreatedSince(ctx, userID, now-l.window)
	if err != nil {
		return Verdict{}, err
	}
	if count >= l.maxPerWindow {
		return Verdict{WindowExceeded: true}, nil
	}

	return Verdict{Allowed: true}, nil
}

// RecordTicketCreation stamps the creation cooldown.
func (l *Limiter) RecordTicketCreation(ctx context.Context, userID, now int64) error {
	return l.limits.SetLastTicketTS(ctx, userID, now)
}

// CheckOperatorCall verifies the operator-call cooldown.
func (l *Limiter) CheckOperatorCall(ctx context.Context, userID, now int64) (Verdict, error) {
	limits, err := l.limits.Get(ctx, userID)
	if err != nil {
		return Verdict{}, err
	}
	if elapsed := now - limits.LastCallTS; elapsed < l.callCooldown {
		return Verdict{WaitSeconds: l.callCooldown - elapsed}, nil
	}
	return Verdict{Allowed: true}, nil
}

// RecordOperatorCall stamps the operator-call cooldown.
func (l *Limiter) RecordOperatorCall(ctx context.Context, userID, now int64) error {
	return l.limits.SetLastCallTS(ctx, userID, now)
}
