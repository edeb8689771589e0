package transport

import "fmt"

// Menu button labels. The inbound dispatcher matches message text against
// these verbatim.
const (
	BtnNewTicket    = "🆘 New ticket"
	BtnFAQ          = "📚 FAQ"
	BtnRules        = "📜 Rules"
	BtnTicketStatus = "📌 Ticket status"
	BtnCallOperator = "👤 Call operator"
	BtnBackToMenu   = "⬅️ Back to menu"
)

// Admin callback action tags.
const (
	CallbackClose  = "tclose"
	CallbackDelete = "tdelete"
)

// MainMenu returns the top-level user menu.
func MainMenu() *ReplyKeyboardMarkup {
	return &ReplyKeyboardMarkup{
		Keyboard: [][]KeyboardButton{
			{{Text: BtnNewTicket}},
			{{Text: BtnFAQ}, {Text: BtnRules}},
			{{Text: BtnTicketStatus}, {Text: BtnCallOperator}},
		},
		ResizeKeyboard:        true,
		InputFieldPlaceholder: "Pick an action…",
	}
}

// BackMenu returns the single back-to-menu button shown during flows.
func BackMenu() *ReplyKeyboardMarkup {
	return &ReplyKeyboardMarkup{
		Keyboard:       [][]KeyboardButton{{{Text: BtnBackToMenu}}},
		ResizeKeyboard: true,
	}
}

// AdminTicketKeyboard returns the close/delete buttons attached to a
// new-ticket notification, tagged with the ticket id.
func AdminTicketKeyboard(ticketID int64) *InlineKeyboardMarkup {
	return &InlineKeyboardMarkup{
		InlineKeyboard: [][]InlineKeyboardButton{
			{
				{Text: "✅ Close", CallbackData: fmt.Sprintf("%s:%d", CallbackClose, ticketID)},
				{Text: "🧹 Delete", CallbackData: fmt.Sprintf("%s:%d", CallbackDelete, ticketID)},
			},
		},
	}
}
