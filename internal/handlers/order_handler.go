package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/middleware"
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/services"
)

// OrderHandler handles HTTP requests for checkout and item lifecycle
// transitions.
type OrderHandler struct {
	orders    *services.OrderService
	lifecycle *services.LifecycleService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orders *services.OrderService, lifecycle *services.LifecycleService) *OrderHandler {
	return &OrderHandler{
		orders:    orders,
		lifecycle: lifecycle,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Get("/:id", h.HandleGetOrder)

	itemRoutes := router.Group("/order-items")
	itemRoutes.Post("/:id/confirm", h.HandleConfirm)
	itemRoutes.Post("/:id/ready", h.HandleMarkReady)
	itemRoutes.Post("/:id/fulfill", h.HandleFulfill)
	itemRoutes.Post("/:id/complete", h.HandleComplete)
	itemRoutes.Post("/:id/cancel", h.HandleCancel)
	itemRoutes.Post("/:id/expire", h.HandleExpire)
}

// HandleCreateOrder creates a new order for the authenticated buyer.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var req services.CreateOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	req.BuyerID = middleware.Actor(c)

	order, err := h.orders.CreateOrder(req)
	if err != nil {
		log.Printf("Error creating order: %v", err)
		return errorResponse(c, "Could not create order", err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrder retrieves an order owned by the authenticated actor.
func (h *OrderHandler) HandleGetOrder(c *fiber.Ctx) error {
	order, err := h.orders.GetOrder(c.Params("id"))
	if err != nil {
		return errorResponse(c, "Could not retrieve order", err)
	}
	if order.BuyerID != middleware.Actor(c) && middleware.Role(c) != "system" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Order belongs to another buyer",
		})
	}
	return c.JSON(order)
}

// HandleConfirm confirms a pending item on behalf of the vendor.
func (h *OrderHandler) HandleConfirm(c *fiber.Ctx) error {
	if err := h.lifecycle.Confirm(c.Params("id"), middleware.Actor(c)); err != nil {
		log.Printf("Error confirming item %s: %v", c.Params("id"), err)
		return errorResponse(c, "Could not confirm order item", err)
	}
	return c.JSON(fiber.Map{"message": "Order item confirmed"})
}

// HandleMarkReady marks a confirmed item ready for pickup.
func (h *OrderHandler) HandleMarkReady(c *fiber.Ctx) error {
	if err := h.lifecycle.MarkReady(c.Params("id"), middleware.Actor(c)); err != nil {
		log.Printf("Error marking item %s ready: %v", c.Params("id"), err)
		return errorResponse(c, "Could not mark order item ready", err)
	}
	return c.JSON(fiber.Map{"message": "Order item ready for pickup"})
}

// HandleFulfill records the in-person handoff.
func (h *OrderHandler) HandleFulfill(c *fiber.Ctx) error {
	if err := h.lifecycle.Fulfill(c.Params("id"), middleware.Actor(c)); err != nil {
		log.Printf("Error fulfilling item %s: %v", c.Params("id"), err)
		return errorResponse(c, "Could not fulfill order item", err)
	}
	return c.JSON(fiber.Map{"message": "Order item fulfilled"})
}

// HandleComplete finalizes a fulfilled item.
func (h *OrderHandler) HandleComplete(c *fiber.Ctx) error {
	if err := h.lifecycle.Complete(c.Params("id"), middleware.Actor(c)); err != nil {
		log.Printf("Error completing item %s: %v", c.Params("id"), err)
		return errorResponse(c, "Could not complete order item", err)
	}
	return c.JSON(fiber.Map{"message": "Order item completed"})
}

// HandleCancel cancels an item for the buyer or vendor and returns the
// settlement outcome.
func (h *OrderHandler) HandleCancel(c *fiber.Ctx) error {
	outcome, err := h.lifecycle.Cancel(c.Params("id"), middleware.Actor(c))
	if err != nil {
		log.Printf("Error cancelling item %s: %v", c.Params("id"), err)
		return errorResponse(c, "Could not cancel order item", err)
	}
	return c.JSON(outcome)
}

// HandleExpire expires an unclaimed item. Restricted to the scheduler's
// system role.
func (h *OrderHandler) HandleExpire(c *fiber.Ctx) error {
	if middleware.Role(c) != "system" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Expiry is restricted to the scheduler",
		})
	}
	outcome, err := h.lifecycle.Expire(c.Params("id"))
	if err != nil {
		log.Printf("Error expiring item %s: %v", c.Params("id"), err)
		return errorResponse(c, "Could not expire order item", err)
	}
	return c.JSON(outcome)
}
