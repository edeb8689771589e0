package bot

// User-facing message texts. Kept in one place so wording changes never touch
// handler logic.
const (
	textWelcome = "👋 Welcome to support!\n\nUse the menu below: open a ticket, check its status, read the FAQ, or call an operator."

	textFAQ = "📚 FAQ\n\n• Open a ticket and describe your problem in one message.\n• An operator answers right here in this chat.\n• Unanswered tickets are cleared automatically after 30 minutes — open a new one if the problem persists."

	textRules = "📜 Rules\n\n• One problem per ticket.\n• Be specific: what happened, when, and what you expected.\n• Spam and abuse lead to slower answers, not faster ones."

	textAskTicketBody = "📝 Describe your problem in a single message. An operator will answer here."

	textTicketBodyEmpty = "Describe what happened as a text message 🙂"

	textTicketCreated = "✅ Ticket #%d created. An operator will answer you here."

	textTicketCooldown = "⏳ Please wait %d seconds and try again."

	textTicketWindowExceeded = "🚫 Too many tickets in a short period. Please try again later."

	textAskTicketID = "Enter your ticket number (for example: 12)"

	textTicketIDNotNumeric = "A number is needed. Example: 12"

	textTicketNotFound = "❌ Ticket not found (it may have been cleared already)."

	textTicketStatus = "📌 Ticket #%d\nStatus: %s\nCreated: %s\n\n%s"

	textStatusOpen = "🟢 Open"

	textOperatorCalled = "📣 An operator has been notified and will join as soon as possible."

	textSomethingWentWrong = "😔 Something went wrong. Please try again."
)
