package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/service"
	"github.com/spec-kit/support-bot/internal/transport"
)

func (d *Dispatcher) handleAdminReply(ctx context.Context, msg *transport.Message) {
	now := time.Now().Unix()
	text := messageText(msg)
	if err := d.service.HandleAdminReply(ctx, msg.ReplyToMessage.MessageID, text, now); err != nil {
		d.logger.Error("admin reply failed",
			zap.Int("replied_message_id", msg.ReplyToMessage.MessageID),
			zap.Error(err))
	}
}

func (d *Dispatcher) handleCallback(ctx context.Context, cq *transport.CallbackQuery) {
	if cq.From == nil || cq.From.ID != d.adminID {
		d.answerCallback(ctx, cq.ID, "No access", true)
		return
	}

	actionTag, idRaw, ok := strings.Cut(cq.Data, ":")
	if !ok {
		d.answerCallback(ctx, cq.ID, "", false)
		return
	}

	var action service.AdminAction
	switch actionTag {
	case transport.CallbackClose:
		action = service.AdminActionClose
	case transport.CallbackDelete:
		action = service.AdminActionDelete
	default:
		d.answerCallback(ctx, cq.ID, "", false)
		return
	}

	ticketID, err := strconv.ParseInt(idRaw, 10, 64)
	if err != nil {
		d.answerCallback(ctx, cq.ID, "", false)
		return
	}

	removed, err := d.service.RemoveTicket(ctx, action, ticketID)
	if err != nil {
		d.logger.Error("admin ticket action failed",
			zap.String("action", string(action)),
			zap.Int64("ticket_id", ticketID),
			zap.Error(err))
		d.answerCallback(ctx, cq.ID, "Something went wrong", true)
		return
	}
	if !removed {
		d.answerCallback(ctx, cq.ID, "Already removed", true)
		return
	}

	// Drop the buttons from the notification so the action cannot fire twice
	// from the same message.
	if cq.Message != nil {
		verb := "deleted"
		if action == service.AdminActionClose {
			verb = "closed"
		}
		done := fmt.Sprintf("✅ Done: ticket #%d %s.", ticketID, verb)
		if err := d.sender.EditMessageText(ctx, cq.Message.Chat.ID, cq.Message.MessageID, done); err != nil {
			d.logger.Warn("edit admin message failed", zap.Int64("ticket_id", ticketID), zap.Error(err))
		}
	}

	d.answerCallback(ctx, cq.ID, "", false)
}

func (d *Dispatcher) answerCallback(ctx context.Context, callbackID, text string, showAlert bool) {
	if err := d.sender.AnswerCallback(ctx, callbackID, text, showAlert); err != nil {
		d.logger.Warn("answer callback failed", zap.Error(err))
	}
}
