package models

import (
	"time"

	"gorm.io/gorm"
)

// PaymentMethod distinguishes orders charged through the integrated payment
// processor from orders settled outside it (cash, P2P apps).
type PaymentMethod string

const (
	PaymentProcessor PaymentMethod = "processor"
	PaymentExternal  PaymentMethod = "external"
)

// ItemStatus is the lifecycle status of a single order item.
type ItemStatus string

const (
	ItemStatusPending   ItemStatus = "pending"
	ItemStatusConfirmed ItemStatus = "confirmed"
	ItemStatusReady     ItemStatus = "ready"
	ItemStatusFulfilled ItemStatus = "fulfilled"
	ItemStatusCompleted ItemStatus = "completed"
	ItemStatusCancelled ItemStatus = "cancelled"
	ItemStatusExpired   ItemStatus = "expired"
)

// Terminal reports whether no further transition is possible from s.
func (s ItemStatus) Terminal() bool {
	return s == ItemStatusCompleted || s == ItemStatusCancelled || s == ItemStatusExpired
}

// OrderStatus is the aggregate status of an order, derived from its items.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusActive    OrderStatus = "active"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order is a buyer's checkout across one or more vendors.
// Invariant: TotalCents = sum of item subtotals + BuyerFeeCents + TipCents.
type Order struct {
	ID            string        `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	BuyerID       string        `json:"buyer_id" gorm:"type:varchar(36);index" validate:"required"`
	VerticalID    string        `json:"vertical_id" gorm:"type:varchar(36);index"`
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,oneof=processor external"`
	Status        OrderStatus   `json:"status"`
	TipCents      int64         `json:"tip_cents" validate:"gte=0"`
	BuyerFeeCents int64         `json:"buyer_fee_cents"`
	TotalCents    int64         `json:"total_cents"`
	Items         []OrderItem   `json:"items" gorm:"foreignKey:OrderID"`
	gorm.Model    // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}

// OrderItem is a single line of an order. Items are never deleted;
// cancellation is a status plus a timestamp, and the settlement figures
// computed at that moment are persisted alongside for audit.
type OrderItem struct {
	ID                   string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID              string     `json:"order_id" gorm:"type:varchar(36);index"`
	ListingID            string     `json:"listing_id" gorm:"type:varchar(36);index" validate:"required"`
	VendorID             string     `json:"vendor_id" gorm:"type:varchar(36);index" validate:"required"`
	Quantity             int        `json:"quantity" validate:"required,gt=0"`
	UnitPriceCents       int64      `json:"unit_price_cents" validate:"gte=0"`
	SubtotalCents        int64      `json:"subtotal_cents"`
	Status               ItemStatus `json:"status"`
	RefundCents          int64      `json:"refund_cents"`
	CancellationFeeCents int64      `json:"cancellation_fee_cents"`
	PlatformShareCents   int64      `json:"platform_share_cents"`
	VendorShareCents     int64      `json:"vendor_share_cents"`
	CancelledAt          *time.Time `json:"cancelled_at,omitempty"`
	gorm.Model
}

// ItemSettlement carries the monetary outcome persisted with a
// cancellation or expiry transition.
type ItemSettlement struct {
	RefundCents          int64
	CancellationFeeCents int64
	PlatformShareCents   int64
	VendorShareCents     int64
	CancelledAt          time.Time
}

// DeriveOrderStatus recomputes the aggregate order status from its items:
// all items cancelled or expired -> cancelled; all terminal -> completed;
// any item past pending -> active; otherwise pending.
func DeriveOrderStatus(items []OrderItem) OrderStatus {
	if len(items) == 0 {
		return OrderStatusPending
	}
	allDead := true
	allTerminal := true
	anyStarted := false
	for _, it := range items {
		if it.Status != ItemStatusCancelled && it.Status != ItemStatusExpired {
			allDead = false
		}
		if !it.Status.Terminal() {
			allTerminal = false
		}
		if it.Status != ItemStatusPending {
			anyStarted = true
		}
	}
	switch {
	case allDead:
		return OrderStatusCancelled
	case allTerminal:
		return OrderStatusCompleted
	case anyStarted:
		return OrderStatusActive
	default:
		return OrderStatusPending
	}
}
