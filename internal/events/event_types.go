package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketReplied  EventType = "ticket_replied"
	EventTicketClosed   EventType = "ticket_closed"
	EventTicketDeleted  EventType = "ticket_deleted"
	EventTicketExpired  EventType = "ticket_expired"
	EventTicketReminded EventType = "ticket_reminded"
	EventOperatorCalled EventType = "operator_called"
)

// Event represents a lifecycle event emitted by the engine.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  int64       `json:"ticket_id,omitempty"`
	UserID    int64       `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Username    string `json:"username,omitempty"`
	BodyPreview string `json:"body_preview"`
}

// TicketRepliedPayload payload.
type TicketRepliedPayload struct {
	BodyPreview string `json:"body_preview"`
	Delivered   bool   `json:"delivered"`
}

// TicketRemovedPayload payload for close/delete/expiry events.
type TicketRemovedPayload struct {
	AgeSeconds int64 `json:"age_seconds,omitempty"`
}
