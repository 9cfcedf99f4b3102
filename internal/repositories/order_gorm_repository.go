package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

// Create persists a new order together with its items.
func (r *GORMOrderRepository) Create(order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	for i := range order.Items {
		if order.Items[i].ID == "" {
			order.Items[i].ID = uuid.New().String()
		}
		order.Items[i].OrderID = order.ID
	}
	if err := r.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves an order with its items.
func (r *GORMOrderRepository) GetByID(id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %s: %w", id, err)
	}
	return &order, nil
}

// GetItem retrieves a single order item.
func (r *GORMOrderRepository) GetItem(itemID string) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order item %s: %w", itemID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order item %s: %w", itemID, err)
	}
	return &item, nil
}

// ItemsByOrderID retrieves all items of an order.
func (r *GORMOrderRepository) ItemsByOrderID(orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.db.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to get items for order %s: %w", orderID, err)
	}
	return items, nil
}

// TransitionItemStatus moves an item between statuses with a guarded update.
// A zero RowsAffected means either the item is gone or another trigger won
// the race; the follow-up read tells the two apart.
func (r *GORMOrderRepository) TransitionItemStatus(itemID string, from, to models.ItemStatus) error {
	res := r.db.Model(&models.OrderItem{}).
		Where("id = ? AND status = ?", itemID, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("failed to transition item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return r.transitionMiss(itemID)
	}
	return nil
}

// CancelItem applies a cancellation or expiry transition and persists the
// settlement figures in the same guarded update.
func (r *GORMOrderRepository) CancelItem(itemID string, from, to models.ItemStatus, settlement models.ItemSettlement) error {
	res := r.db.Model(&models.OrderItem{}).
		Where("id = ? AND status = ?", itemID, from).
		Updates(map[string]interface{}{
			"status":                 to,
			"refund_cents":           settlement.RefundCents,
			"cancellation_fee_cents": settlement.CancellationFeeCents,
			"platform_share_cents":   settlement.PlatformShareCents,
			"vendor_share_cents":     settlement.VendorShareCents,
			"cancelled_at":           settlement.CancelledAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to cancel item %s: %w", itemID, res.Error)
	}
	if res.RowsAffected == 0 {
		return r.transitionMiss(itemID)
	}
	return nil
}

func (r *GORMOrderRepository) transitionMiss(itemID string) error {
	var item models.OrderItem
	if err := r.db.First(&item, "id = ?", itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("order item %s: %w", itemID, ErrNotFound)
		}
		return fmt.Errorf("failed to refetch item %s: %w", itemID, err)
	}
	return fmt.Errorf("order item %s is %s: %w", itemID, item.Status, ErrConflict)
}

// UpdateOrderStatus sets the aggregate order status.
func (r *GORMOrderRepository) UpdateOrderStatus(orderID string, status models.OrderStatus) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update order %s status: %w", orderID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	return nil
}
