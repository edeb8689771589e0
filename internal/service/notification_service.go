package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/support-bot/internal/events"
)

// NotificationService observes lifecycle events and turns them into
// structured logs, giving operators an audit trail without coupling the
// engine to any log sink.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger) *NotificationService {
	return &NotificationService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to all lifecycle events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTicketCreated,
		events.EventTicketReplied,
		events.EventTicketClosed,
		events.EventTicketDeleted,
		events.EventTicketExpired,
		events.EventTicketReminded,
		events.EventOperatorCalled,
	} {
		n.dispatcher.Subscribe(eventType, n.logEvent)
	}
}

func (n *NotificationService) logEvent(_ context.Context, event events.Event) error {
	n.logger.Info("lifecycle event",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.Int64("ticket_id", event.TicketID),
		zap.Int64("user_id", event.UserID),
		zap.Any("payload", event.Payload),
	)
	return nil
}
