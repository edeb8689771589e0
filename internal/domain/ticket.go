package domain

// TicketStatus enumerates lifecycle states for tickets. A closed ticket is
// removed from the store rather than kept around as a CLOSED row; the constant
// exists for rendering only.
type TicketStatus string

const (
	TicketStatusOpen   TicketStatus = "open"
	TicketStatusClosed TicketStatus = "closed"
)

// Ticket is the aggregate for a user support request.
type Ticket struct {
	ID        int64
	UserID    int64
	Username  string
	Status    TicketStatus
	Message   string
	CreatedTS int64
	CreatedAt string

	// LastAdminReplyTS, once set, permanently suppresses reminder
	// escalation for the ticket.
	LastAdminReplyTS  *int64
	LastAdminRemindTS *int64
}
