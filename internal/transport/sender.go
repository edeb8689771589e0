package transport

import "context"

// SendOptions carries optional delivery parameters.
type SendOptions struct {
	// ReplyMarkup is a *ReplyKeyboardMarkup or *InlineKeyboardMarkup.
	ReplyMarkup any
}

// Sender delivers outbound messages to a chat. Implementations must be safe
// for concurrent use; the engine and the sweeper share one instance.
type Sender interface {
	// SendMessage delivers text to a chat and returns the id of the sent
	// message, which the engine records for reply correlation.
	SendMessage(ctx context.Context, chatID int64, text string, opts *SendOptions) (int, error)
	// EditMessageText rewrites a previously sent message, dropping any
	// attached inline keyboard.
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string) error
	// AnswerCallback acknowledges a button press, optionally with an alert.
	AnswerCallback(ctx context.Context, callbackID, text string, showAlert bool) error
}
