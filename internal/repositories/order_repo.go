package repositories

import (
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
)

// OrderRepository defines the interface for order data access. Status
// transitions are guarded by the caller's view of the current status so
// concurrent triggers on the same item resolve to exactly one winner.
type OrderRepository interface {
	Create(order *models.Order) error
	GetByID(id string) (*models.Order, error)
	GetItem(itemID string) (*models.OrderItem, error)
	ItemsByOrderID(orderID string) ([]models.OrderItem, error)

	// TransitionItemStatus moves an item from one status to another in a
	// single conditional update. Returns ErrConflict if the stored status
	// no longer matches from, ErrNotFound if the item does not exist.
	TransitionItemStatus(itemID string, from, to models.ItemStatus) error

	// CancelItem is TransitionItemStatus plus the settlement figures,
	// persisted in the same guarded update.
	CancelItem(itemID string, from, to models.ItemStatus, settlement models.ItemSettlement) error

	UpdateOrderStatus(orderID string, status models.OrderStatus) error
}
