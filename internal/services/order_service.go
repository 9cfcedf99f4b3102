package services

import (
	"fmt"
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/repositories"
)

// CreateOrderItemRequest is one requested line at checkout.
type CreateOrderItemRequest struct {
	ListingID string `json:"listing_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderRequest is the checkout payload.
type CreateOrderRequest struct {
	BuyerID       string                   `json:"buyer_id" validate:"required"`
	VerticalID    string                   `json:"vertical_id"`
	PaymentMethod models.PaymentMethod     `json:"payment_method" validate:"required,oneof=processor external"`
	TipCents      int64                    `json:"tip_cents" validate:"gte=0"`
	Items         []CreateOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderService handles checkout: pricing, atomic inventory reservation, and
// order creation. Charging the buyer happens at the payment processor,
// outside this core.
type OrderService struct {
	orders   repositories.OrderRepository
	listings repositories.ListingRepository
	fees     *FeeService
	notifier *NotificationService
	validate *validator.Validate
}

// NewOrderService creates a new OrderService.
func NewOrderService(orders repositories.OrderRepository, listings repositories.ListingRepository, fees *FeeService, notifier *NotificationService) *OrderService {
	return &OrderService{
		orders:   orders,
		listings: listings,
		fees:     fees,
		notifier: notifier,
		validate: validator.New(),
	}
}

// GetOrder retrieves an order with its items.
func (s *OrderService) GetOrder(id string) (*models.Order, error) {
	return s.orders.GetByID(id)
}

// CreateOrder prices the requested items, reserves stock atomically per
// listing, and persists the order. Buyer fees are computed per item with
// the flat fee prorated; the order total is the sum of subtotals plus those
// fees plus the tip. If any reservation fails, the already reserved
// listings are restored and the checkout is rejected with no order created.
func (s *OrderService) CreateOrder(req CreateOrderRequest) (*models.Order, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	type reservation struct {
		listing *models.Listing
		qty     int
	}
	var reserved []reservation

	releaseReserved := func() {
		for _, r := range reserved {
			if err := s.listings.RestoreQuantity(r.listing.ID, r.qty); err != nil {
				log.Printf("Warning: failed to release %d of listing %s after aborted checkout: %v", r.qty, r.listing.ID, err)
			}
		}
	}

	var items []models.OrderItem
	var subtotalSum, buyerFeeSum int64
	itemCount := len(req.Items)

	for _, reqItem := range req.Items {
		listing, err := s.listings.GetByID(reqItem.ListingID)
		if err != nil {
			releaseReserved()
			return nil, err
		}

		ok, err := s.listings.ReserveQuantity(listing.ID, reqItem.Quantity)
		if err != nil {
			releaseReserved()
			return nil, err
		}
		if !ok {
			releaseReserved()
			return nil, fmt.Errorf("listing %s has insufficient stock for %d: %w", listing.ID, reqItem.Quantity, repositories.ErrInsufficientStock)
		}
		if !listing.Unlimited() {
			reserved = append(reserved, reservation{listing: listing, qty: reqItem.Quantity})
		}

		subtotal := int64(reqItem.Quantity) * listing.UnitPriceCents
		items = append(items, models.OrderItem{
			ListingID:      listing.ID,
			VendorID:       listing.VendorID,
			Quantity:       reqItem.Quantity,
			UnitPriceCents: listing.UnitPriceCents,
			SubtotalCents:  subtotal,
			Status:         models.ItemStatusPending,
		})
		subtotalSum += subtotal
		buyerFeeSum += s.fees.BuyerFeeShare(subtotal, itemCount)
	}

	order := &models.Order{
		BuyerID:       req.BuyerID,
		VerticalID:    req.VerticalID,
		PaymentMethod: req.PaymentMethod,
		Status:        models.OrderStatusPending,
		TipCents:      req.TipCents,
		BuyerFeeCents: buyerFeeSum,
		TotalCents:    subtotalSum + buyerFeeSum + req.TipCents,
		Items:         items,
	}
	if err := s.orders.Create(order); err != nil {
		releaseReserved()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		payload := NotificationPayload{
			OrderID:     order.ID,
			OrderItemID: item.ID,
			Quantity:    item.Quantity,
		}
		if listing, err := s.listings.GetByID(item.ListingID); err == nil {
			payload.ListingName = listing.Name
		}
		if err := s.notifier.Dispatch(models.NotifyOrderReceived, item.VendorID, payload); err != nil {
			log.Printf("Warning: failed to notify vendor %s of order %s: %v", item.VendorID, order.ID, err)
		}
	}
	return order, nil
}
