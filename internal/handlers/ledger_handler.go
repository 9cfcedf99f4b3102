package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/middleware"
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/services"
)

// LedgerHandler exposes a vendor's fee ledger balance.
type LedgerHandler struct {
	ledger *services.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger *services.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledger: ledger,
	}
}

// RegisterRoutes registers the ledger routes with the Fiber app.
func (h *LedgerHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/vendors/:id/ledger/balance", h.HandleGetBalance)
}

// HandleGetBalance returns the vendor's outstanding balance and whether the
// invoice policy has been tripped. Vendors may only read their own ledger.
func (h *LedgerHandler) HandleGetBalance(c *fiber.Ctx) error {
	vendorID := c.Params("id")
	if vendorID != middleware.Actor(c) && middleware.Role(c) != "system" {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Ledger belongs to another vendor",
		})
	}

	balance, err := h.ledger.Balance(vendorID)
	if err != nil {
		log.Printf("Error getting balance for vendor %s: %v", vendorID, err)
		return errorResponse(c, "Could not retrieve balance", err)
	}
	requires, err := h.ledger.RequiresPayment(vendorID)
	if err != nil {
		log.Printf("Error evaluating invoice policy for vendor %s: %v", vendorID, err)
		return errorResponse(c, "Could not evaluate invoice policy", err)
	}

	return c.JSON(fiber.Map{
		"outstanding_cents": balance.OutstandingCents,
		"oldest_unpaid_at":  balance.OldestUnpaidAt,
		"requires_payment":  requires,
	})
}
