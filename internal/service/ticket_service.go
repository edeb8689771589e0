package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/config"
	"github.com/spec-kit/support-bot/internal/correlation"
	"github.com/spec-kit/support-bot/internal/domain"
	"github.com/spec-kit/support-bot/internal/events"
	"github.com/spec-kit/support-bot/internal/observability"
	"github.com/spec-kit/support-bot/internal/ratelimit"
	"github.com/spec-kit/support-bot/internal/repository"
	"github.com/spec-kit/support-bot/internal/transport"
	apperrors "github.com/spec-kit/support-bot/pkg/util"
)

// AdminAction distinguishes the two admin removal intents. Both delete the
// row; close additionally notifies the user.
type AdminAction string

const (
	AdminActionClose  AdminAction = "close"
	AdminActionDelete AdminAction = "delete"
)

// TicketService is the ticket lifecycle engine. It owns every transition a
// ticket can take: creation, admin reply, close/delete, and the periodic
// sweep that expires stale tickets and escalates unanswered ones.
type TicketService struct {
	tickets     repository.TicketRepository
	limiter     *ratelimit.Limiter
	correlation *correlation.Table
	sender      transport.Sender
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger

	adminID     int64
	ttl         int64
	remindAfter int64
	remindEvery int64
	openLimit   int
}

// TicketDependencies bundles collaborators for the engine.
type TicketDependencies struct {
	TicketRepo  repository.TicketRepository
	Limiter     *ratelimit.Limiter
	Correlation *correlation.Table
	Sender      transport.Sender
	Dispatcher  events.Dispatcher
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

// NewTicketService constructs the engine.
func NewTicketService(deps TicketDependencies, adminID int64, cfg config.LifecycleConfig) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:     deps.TicketRepo,
		limiter:     deps.Limiter,
		correlation: deps.Correlation,
		sender:      deps.Sender,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      logger,
		adminID:     adminID,
		ttl:         int64(cfg.TicketTTL / time.Second),
		remindAfter: int64(cfg.RemindAfter / time.Second),
		remindEvery: int64(cfg.RemindEvery / time.Second),
		openLimit:   cfg.OpenListLimit,
	}
}

// CreateTicket validates and persists a new ticket, then notifies the admin
// and records the reply correlation. The admin notification is best-effort:
// a delivery failure never rolls back the ticket, which stays discoverable
// through the status query.
func (s *TicketService) CreateTicket(ctx context.Context, userID int64, username, body string, now int64) (int64, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return 0, apperrors.NewValidationError("ticket body must not be empty", nil)
	}

	verdict, err := s.limiter.CheckTicketCreation(ctx, userID, now)
	if err != nil {
		return 0, err
	}
	if !verdict.Allowed {
		if verdict.WindowExceeded {
			return 0, apperrors.NewWindowExceeded()
		}
		return 0, apperrors.NewRateLimited(verdict.WaitSeconds)
	}

	ticket := &domain.Ticket{
		UserID:    userID,
		Username:  username,
		Status:    domain.TicketStatusOpen,
		Message:   body,
		CreatedTS: now,
		CreatedAt: renderCreatedAt(now),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return 0, err
	}

	// Recorded only after the row exists, so a rejected or failed attempt
	// never consumes the cooldown.
	if err := s.limiter.RecordTicketCreation(ctx, userID, now); err != nil {
		s.logger.Error("record ticket cooldown", zap.Int64("user_id", userID), zap.Error(err))
	}

	s.metrics.IncTicketsCreated()
	s.publish(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		UserID:   userID,
		Payload: events.TicketCreatedPayload{
			Username:    username,
			BodyPreview: preview(body, 120),
		},
	})

	s.notifyAdminNewTicket(ctx, ticket)
	return ticket.ID, nil
}

func (s *TicketService) notifyAdminNewTicket(ctx context.Context, ticket *domain.Ticket) {
	text := fmt.Sprintf(
		"🆕 New ticket #%d\nFrom: %d %s\nDate: %s\n\n%s\n\n💡 Reply to this message and the bot will forward your answer to the user.",
		ticket.ID, ticket.UserID, displayUsername(ticket.Username), ticket.CreatedAt, ticket.Message,
	)
	messageID, err := s.sender.SendMessage(ctx, s.adminID, text, &transport.SendOptions{
		ReplyMarkup: transport.AdminTicketKeyboard(ticket.ID),
	})
	if err != nil {
		s.metrics.IncDeliveryErrors()
		s.logger.Error("admin new-ticket notification failed", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
		return
	}
	s.correlation.Record(messageID, ticket.ID)
}

// HandleAdminReply resolves an in-context admin reply to a ticket and
// forwards the text to the requester. An unresolved reply is a silent no-op:
// the admin replied to something that is not a ticket notification.
func (s *TicketService) HandleAdminReply(ctx context.Context, repliedMessageID int, text string, now int64) error {
	ticketID, ok := s.correlation.Resolve(repliedMessageID)
	if !ok {
		return nil
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			s.sendBestEffort(ctx, s.adminID, "❌ That ticket was already removed or cleared.", nil)
			return nil
		}
		return err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		s.sendBestEffort(ctx, s.adminID, "Write the answer as a text message 🙂", nil)
		return nil
	}

	delivered := true
	forward := fmt.Sprintf("✉️ Answer for ticket #%d:\n\n%s", ticket.ID, text)
	if _, err := s.sender.SendMessage(ctx, ticket.UserID, forward, nil); err != nil {
		delivered = false
		s.metrics.IncDeliveryErrors()
		s.logger.Error("forward admin reply failed", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
	}

	// The reply stamp is recorded even when delivery failed: the mutating
	// operation never blocks on outbound delivery.
	if err := s.tickets.MarkAdminReplied(ctx, ticket.ID, now); err != nil {
		return err
	}

	s.metrics.IncRepliesForwarded()
	s.publish(ctx, events.Event{
		Type:     events.EventTicketReplied,
		TicketID: ticket.ID,
		UserID:   ticket.UserID,
		Payload: events.TicketRepliedPayload{
			BodyPreview: preview(text, 120),
			Delivered:   delivered,
		},
	})

	if delivered {
		s.sendBestEffort(ctx, s.adminID, fmt.Sprintf("✅ Sent to the user (ticket #%d).", ticket.ID), nil)
	} else {
		s.sendBestEffort(ctx, s.adminID, fmt.Sprintf("⚠️ Could not deliver the answer for ticket #%d.", ticket.ID), nil)
	}
	return nil
}

// RemoveTicket deletes a ticket on the admin's behalf. It reports whether a
// row existed; removing an already-gone ticket is a benign outcome, not an
// error. For a close, the user receives a best-effort closing notification.
func (s *TicketService) RemoveTicket(ctx context.Context, action AdminAction, ticketID int64) (bool, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil && !errors.Is(err, repository.ErrTicketNotFound) {
		return false, err
	}

	removed, err := s.tickets.Delete(ctx, ticketID)
	if err != nil {
		return false, err
	}
	if !removed {
		return false, nil
	}

	eventType := events.EventTicketDeleted
	cause := "deleted"
	if action == AdminActionClose {
		eventType = events.EventTicketClosed
		cause = "closed"
		if ticket != nil {
			s.sendBestEffort(ctx, ticket.UserID, fmt.Sprintf("✅ Your ticket #%d has been closed. Thank you!", ticketID), nil)
		}
	}

	s.metrics.IncRemoved(cause)
	event := events.Event{Type: eventType, TicketID: ticketID}
	if ticket != nil {
		event.UserID = ticket.UserID
	}
	s.publish(ctx, event)
	return true, nil
}

// TicketStatus looks a ticket up for the status query. Absent and
// already-cleared tickets are indistinguishable to the caller.
func (s *TicketService) TicketStatus(ctx context.Context, ticketID int64) (*domain.Ticket, error) {
	return s.tickets.GetByID(ctx, ticketID)
}

// CountOpen reports the number of currently open tickets.
func (s *TicketService) CountOpen(ctx context.Context) (int64, error) {
	return s.tickets.CountOpen(ctx)
}

// CallOperator relays a live-help request to the admin, subject to its own
// cooldown.
func (s *TicketService) CallOperator(ctx context.Context, userID int64, username string, now int64) error {
	verdict, err := s.limiter.CheckOperatorCall(ctx, userID, now)
	if err != nil {
		return err
	}
	if !verdict.Allowed {
		return apperrors.NewRateLimited(verdict.WaitSeconds)
	}

	if err := s.limiter.RecordOperatorCall(ctx, userID, now); err != nil {
		return err
	}

	s.metrics.IncOperatorCalls()
	s.publish(ctx, events.Event{Type: events.EventOperatorCalled, UserID: userID})

	text := fmt.Sprintf("📣 A user is calling for an operator\nID: %d\nUsername: %s", userID, displayUsername(username))
	s.sendBestEffort(ctx, s.adminID, text, nil)
	return nil
}

// NotifyAdmin delivers a plain text message to the admin.
func (s *TicketService) NotifyAdmin(ctx context.Context, text string) error {
	_, err := s.sender.SendMessage(ctx, s.adminID, text, nil)
	return err
}

func (s *TicketService) sendBestEffort(ctx context.Context, chatID int64, text string, opts *transport.SendOptions) {
	if _, err := s.sender.SendMessage(ctx, chatID, text, opts); err != nil {
		s.metrics.IncDeliveryErrors()
		s.logger.Warn("notification delivery failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

func (s *TicketService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func renderCreatedAt(ts int64) string {
	return time.Unix(ts, 0).UTC().Format("2006-01-02 15:04 UTC")
}

func displayUsername(username string) string {
	if username == "" {
		return "(no username)"
	}
	return "@" + username
}

func preview(body string, max int) string {
	body = strings.TrimSpace(body)
	if len(body) <= max {
		return body
	}
	if max <= 3 {
		return body[:max]
	}
	return body[:max-3] + "..."
}
