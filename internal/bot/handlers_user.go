package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/repository"
	"github.com/spec-kit/support-bot/internal/session"
	"github.com/spec-kit/support-bot/internal/transport"
	apperrors "github.com/spec-kit/support-bot/pkg/util"
)

func (d *Dispatcher) handleUserMessage(ctx context.Context, msg *transport.Message) {
	userID := msg.From.ID
	text := strings.TrimSpace(messageText(msg))

	switch text {
	case "/start", transport.BtnBackToMenu:
		d.clearSession(ctx, userID)
		d.reply(ctx, msg.Chat.ID, textWelcome, transport.MainMenu())
		return
	case transport.BtnFAQ:
		d.reply(ctx, msg.Chat.ID, textFAQ, transport.BackMenu())
		return
	case transport.BtnRules:
		d.reply(ctx, msg.Chat.ID, textRules, transport.BackMenu())
		return
	case transport.BtnNewTicket:
		d.setSession(ctx, userID, session.StateAwaitingBody)
		d.reply(ctx, msg.Chat.ID, textAskTicketBody, transport.BackMenu())
		return
	case transport.BtnTicketStatus:
		d.setSession(ctx, userID, session.StateAwaitingTicketID)
		d.reply(ctx, msg.Chat.ID, textAskTicketID, transport.BackMenu())
		return
	case transport.BtnCallOperator:
		d.callOperator(ctx, msg)
		return
	}

	state, err := d.sessions.Get(ctx, userID)
	if err != nil {
		d.logger.Warn("session lookup failed", zap.Int64("user_id", userID), zap.Error(err))
	}

	switch state {
	case session.StateAwaitingBody:
		d.submitTicket(ctx, msg, text)
	case session.StateAwaitingTicketID:
		d.checkStatus(ctx, msg, text)
	default:
		// Free text outside any flow is ignored, matching the menu-driven
		// conversation model.
	}
}

func (d *Dispatcher) submitTicket(ctx context.Context, msg *transport.Message, body string) {
	userID := msg.From.ID

	if body == "" {
		// Keep the flow open so the user can try again.
		d.reply(ctx, msg.Chat.ID, textTicketBodyEmpty, transport.BackMenu())
		return
	}

	now := time.Now().Unix()
	ticketID, err := d.service.CreateTicket(ctx, userID, msg.From.Username, body, now)
	if err != nil {
		d.clearSession(ctx, userID)
		switch {
		case apperrors.IsCode(err, "RATE_LIMITED"):
			d.reply(ctx, msg.Chat.ID, fmt.Sprintf(textTicketCooldown, apperrors.RateLimitWait(err)), transport.MainMenu())
		case apperrors.IsCode(err, "WINDOW_EXCEEDED"):
			d.reply(ctx, msg.Chat.ID, textTicketWindowExceeded, transport.MainMenu())
		case apperrors.IsCode(err, "VALIDATION_FAILED"):
			d.reply(ctx, msg.Chat.ID, textTicketBodyEmpty, transport.MainMenu())
		default:
			d.logger.Error("create ticket failed", zap.Int64("user_id", userID), zap.Error(err))
			d.reply(ctx, msg.Chat.ID, textSomethingWentWrong, transport.MainMenu())
		}
		return
	}

	d.clearSession(ctx, userID)
	d.reply(ctx, msg.Chat.ID, fmt.Sprintf(textTicketCreated, ticketID), transport.MainMenu())
}

func (d *Dispatcher) checkStatus(ctx context.Context, msg *transport.Message, raw string) {
	userID := msg.From.ID

	raw = strings.TrimPrefix(strings.TrimSpace(raw), "#")
	ticketID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ticketID <= 0 {
		// Keep waiting for a usable number.
		d.reply(ctx, msg.Chat.ID, textTicketIDNotNumeric, transport.BackMenu())
		return
	}

	d.clearSession(ctx, userID)

	ticket, err := d.service.TicketStatus(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			d.reply(ctx, msg.Chat.ID, textTicketNotFound, transport.MainMenu())
			return
		}
		d.logger.Error("status lookup failed", zap.Int64("ticket_id", ticketID), zap.Error(err))
		d.reply(ctx, msg.Chat.ID, textSomethingWentWrong, transport.MainMenu())
		return
	}

	d.reply(ctx, msg.Chat.ID,
		fmt.Sprintf(textTicketStatus, ticket.ID, textStatusOpen, ticket.CreatedAt, ticket.Message),
		transport.MainMenu())
}

func (d *Dispatcher) callOperator(ctx context.Context, msg *transport.Message) {
	now := time.Now().Unix()
	err := d.service.CallOperator(ctx, msg.From.ID, msg.From.Username, now)
	if err != nil {
		if apperrors.IsCode(err, "RATE_LIMITED") {
			d.reply(ctx, msg.Chat.ID, fmt.Sprintf(textTicketCooldown, apperrors.RateLimitWait(err)), transport.MainMenu())
			return
		}
		d.logger.Error("operator call failed", zap.Int64("user_id", msg.From.ID), zap.Error(err))
		d.reply(ctx, msg.Chat.ID, textSomethingWentWrong, transport.MainMenu())
		return
	}
	d.reply(ctx, msg.Chat.ID, textOperatorCalled, transport.MainMenu())
}

func (d *Dispatcher) setSession(ctx context.Context, userID int64, state session.State) {
	if err := d.sessions.Set(ctx, userID, state); err != nil {
		d.logger.Warn("session set failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (d *Dispatcher) clearSession(ctx context.Context, userID int64) {
	if err := d.sessions.Clear(ctx, userID); err != nil {
		d.logger.Warn("session clear failed", zap.Int64("user_id", userID), zap.Error(err))
	}
}
