// Package correlation maps outbound admin notification message ids to ticket
// ids so the admin can answer a ticket by replying in-context instead of
// typing an id.
//
// The table lives in process memory only. Entries recorded before a restart
// are lost; the close/delete buttons still work because they carry the ticket
// id themselves, and reminders re-announce unanswered tickets. Entries for
// removed tickets are never evicted — resolution is always followed by a
// store lookup, so a stale hit surfaces as "ticket not found".
package correlation

import "sync"

// Table is a mutex-guarded notification-id → ticket-id map.
type Table struct {
	mu      sync.Mutex
	entries map[int]int64
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{entries: make(map[int]int64)}
}

// Record links a sent notification message to a ticket.
func (t *Table) Record(messageID int, ticketID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[messageID] = ticketID
}

// Resolve returns the ticket id linked to a notification message, if any.
func (t *Table) Resolve(messageID int) (int64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	ticketID, ok := t.entries[messageID]
	return ticketID, ok
}

// Len reports the number of recorded entries.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}
