// Package bot maps inbound chat updates onto the ticket lifecycle engine.
// Handlers never return errors to the transport: every failure is resolved
// into a corrective or informational chat message, so one bad update can
// never stop the stream of future updates.
package bot

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/observability"
	"github.com/spec-kit/support-bot/internal/service"
	"github.com/spec-kit/support-bot/internal/session"
	"github.com/spec-kit/support-bot/internal/transport"
)

// Dispatcher routes inbound updates to the user and admin handlers.
type Dispatcher struct {
	service  *service.TicketService
	sessions session.Store
	sender   transport.Sender
	metrics  *observability.Metrics
	logger   *zap.Logger
	adminID  int64
}

// NewDispatcher constructs the inbound dispatcher.
func NewDispatcher(svc *service.TicketService, sessions session.Store, sender transport.Sender, metrics *observability.Metrics, logger *zap.Logger, adminID int64) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		service:  svc,
		sessions: sessions,
		sender:   sender,
		metrics:  metrics,
		logger:   logger,
		adminID:  adminID,
	}
}

// HandleUpdate processes one inbound update to completion.
func (d *Dispatcher) HandleUpdate(ctx context.Context, update *transport.Update) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic in update handler", zap.Any("panic", r))
		}
	}()

	d.metrics.IncUpdatesHandled()

	switch {
	case update.CallbackQuery != nil:
		d.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		d.handleMessage(ctx, update.Message)
	}
}

func (d *Dispatcher) handleMessage(ctx context.Context, msg *transport.Message) {
	if msg.From == nil {
		return
	}

	// An admin message replying in-context to an earlier notification is an
	// answer to a ticket. Everything else, including the admin using the
	// regular menu, goes through the user flow.
	if msg.From.ID == d.adminID && msg.ReplyToMessage != nil {
		d.handleAdminReply(ctx, msg)
		return
	}

	d.handleUserMessage(ctx, msg)
}

// messageText extracts the usable text of a message; media messages carry it
// in the caption.
func messageText(msg *transport.Message) string {
	if msg.Text != "" {
		return msg.Text
	}
	return msg.Caption
}

func (d *Dispatcher) reply(ctx context.Context, chatID int64, text string, markup any) {
	var opts *transport.SendOptions
	if markup != nil {
		opts = &transport.SendOptions{ReplyMarkup: markup}
	}
	if _, err := d.sender.SendMessage(ctx, chatID, text, opts); err != nil {
		d.metrics.IncDeliveryErrors()
		d.logger.Warn("reply delivery failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
