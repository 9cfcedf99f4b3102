package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/services"
)

// WebhookHandler receives payment processor webhooks. Signature failures
// get a 400 so the processor stops retrying; handler failures get a 500 so
// it retries with backoff.
type WebhookHandler struct {
	webhooks *services.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(webhooks *services.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		webhooks: webhooks,
	}
}

// RegisterRoutes registers the webhook routes with the Fiber app.
func (h *WebhookHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/webhooks/payments", h.HandlePaymentEvent)
}

// HandlePaymentEvent verifies and processes one webhook delivery.
func (h *WebhookHandler) HandlePaymentEvent(c *fiber.Ctx) error {
	signature := c.Get("X-Processor-Signature")
	deduction, err := h.webhooks.Process(c.Context(), c.Body(), signature)
	if err != nil {
		log.Printf("Error processing payment webhook: %v", err)
		if errors.Is(err, services.ErrInvalidSignature) || errors.Is(err, services.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Rejected webhook",
				"error":   err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Webhook processing failed, retry expected",
			"error":   err.Error(),
		})
	}
	if deduction != nil {
		return c.JSON(deduction)
	}
	return c.JSON(fiber.Map{"message": "Event processed"})
}
