package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/events"
)

// SweepOnce runs one sweep pass over the open tickets in ascending id order:
// tickets past the TTL are removed with an expiry notice to both sides, and
// unanswered tickets past the reminder threshold escalate to the admin. A
// delivery failure for one ticket never aborts the rest of the batch.
func (s *TicketService) SweepOnce(ctx context.Context, now int64) error {
	tickets, err := s.tickets.ListOpen(ctx, s.openLimit)
	if err != nil {
		return fmt.Errorf("list open tickets: %w", err)
	}

	for _, t := range tickets {
		age := now - t.CreatedTS

		if age >= s.ttl {
			removed, err := s.tickets.Delete(ctx, t.ID)
			if err != nil {
				s.logger.Error("expire ticket", zap.Int64("ticket_id", t.ID), zap.Error(err))
				continue
			}
			if !removed {
				// Raced with a concurrent admin action; nothing left to do.
				continue
			}

			s.sendBestEffort(ctx, s.adminID,
				fmt.Sprintf("🧹 Ticket #%d was removed automatically (open for too long without being closed).", t.ID), nil)
			s.sendBestEffort(ctx, t.UserID,
				fmt.Sprintf("🧹 Your ticket #%d was cleared automatically. If it is still relevant, please open a new one.", t.ID), nil)

			s.metrics.IncRemoved("expired")
			s.publish(ctx, events.Event{
				Type:     events.EventTicketExpired,
				TicketID: t.ID,
				UserID:   t.UserID,
				Payload:  events.TicketRemovedPayload{AgeSeconds: age},
			})
			continue
		}

		// An admin reply permanently settles the ticket as far as
		// escalation is concerned.
		if t.LastAdminReplyTS != nil {
			continue
		}

		var lastRemind int64
		if t.LastAdminRemindTS != nil {
			lastRemind = *t.LastAdminRemindTS
		}
		if age < s.remindAfter || now-lastRemind < s.remindEvery {
			continue
		}

		reminder := fmt.Sprintf("⏰ Reminder: ticket #%d is waiting for an answer.\nFrom: %d\nCreated: %s",
			t.ID, t.UserID, t.CreatedAt)
		if _, err := s.sender.SendMessage(ctx, s.adminID, reminder, nil); err != nil {
			s.metrics.IncDeliveryErrors()
			s.logger.Warn("reminder delivery failed", zap.Int64("ticket_id", t.ID), zap.Error(err))
			continue
		}
		if err := s.tickets.MarkAdminReminded(ctx, t.ID, now); err != nil {
			s.logger.Error("mark reminded", zap.Int64("ticket_id", t.ID), zap.Error(err))
			continue
		}

		s.metrics.IncRemindersSent()
		s.publish(ctx, events.Event{
			Type:     events.EventTicketReminded,
			TicketID: t.ID,
			UserID:   t.UserID,
		})
	}

	return nil
}
