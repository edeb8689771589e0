package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-bot/internal/bot"
	"github.com/spec-kit/support-bot/internal/transport"
	apperrors "github.com/spec-kit/support-bot/pkg/util"
)

// WebhookHandler receives transport updates and hands them to the bot
// dispatcher.
type WebhookHandler struct {
	dispatcher *bot.Dispatcher
}

// NewWebhookHandler constructs the handler.
func NewWebhookHandler(dispatcher *bot.Dispatcher) *WebhookHandler {
	return &WebhookHandler{dispatcher: dispatcher}
}

// Handle POST /webhook. The dispatcher resolves every update internally, so
// the transport always sees a 200 for a well-formed payload and never
// retries an update because of an application-level failure.
func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	var update transport.Update
	if err := c.BodyParser(&update); err != nil {
		return apperrors.NewValidationError("invalid update payload", nil)
	}

	h.dispatcher.HandleUpdate(c.UserContext(), &update)
	return c.SendStatus(fiber.StatusOK)
}
