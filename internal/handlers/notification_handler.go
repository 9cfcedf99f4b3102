package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/middleware"
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/services"
)

// NotificationHandler handles a recipient's notification inbox.
type NotificationHandler struct {
	notifications *services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
	}
}

// RegisterRoutes registers the notification routes with the Fiber app.
func (h *NotificationHandler) RegisterRoutes(router fiber.Router) {
	notificationRoutes := router.Group("/notifications")
	notificationRoutes.Get("/", h.HandleList)
	notificationRoutes.Patch("/:id/read", h.HandleMarkRead)
}

// HandleList returns the authenticated actor's notifications.
func (h *NotificationHandler) HandleList(c *fiber.Ctx) error {
	notifications, err := h.notifications.ListForRecipient(middleware.Actor(c))
	if err != nil {
		log.Printf("Error listing notifications: %v", err)
		return errorResponse(c, "Could not retrieve notifications", err)
	}
	return c.JSON(notifications)
}

// HandleMarkRead sets the read timestamp on the actor's own notification.
func (h *NotificationHandler) HandleMarkRead(c *fiber.Ctx) error {
	if err := h.notifications.MarkRead(c.Params("id"), middleware.Actor(c)); err != nil {
		log.Printf("Error marking notification %s read: %v", c.Params("id"), err)
		return errorResponse(c, "Could not mark notification read", err)
	}
	return c.JSON(fiber.Map{"message": "Notification marked read"})
}
