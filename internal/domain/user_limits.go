package domain

// UserLimits tracks per-user anti-spam timestamps. A zero timestamp means the
// user has never performed the action.
type UserLimits struct {
	UserID       int64
	LastTicketTS int64
	LastCallTS   int64
}
