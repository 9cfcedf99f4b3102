package services

import (
	"fmt"
	"log"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/repositories"
)

// InventoryService restores reserved quantity back to listings when order
// items are cancelled or expired. Restoration is delegated to the
// repository's atomic increment so concurrent restores never lose an update.
type InventoryService struct {
	listings repositories.ListingRepository
	orders   repositories.OrderRepository
}

// NewInventoryService creates a new InventoryService.
func NewInventoryService(listings repositories.ListingRepository, orders repositories.OrderRepository) *InventoryService {
	return &InventoryService{
		listings: listings,
		orders:   orders,
	}
}

// RestoreReport summarizes a per-order restoration pass.
type RestoreReport struct {
	ListingsRestored int `json:"listings_restored"`
	ListingsFailed   int `json:"listings_failed"`
}

// Restore returns quantity to a listing. Unlimited listings are a no-op
// success inside the repository.
func (s *InventoryService) Restore(listingID string, quantity int) error {
	if listingID == "" || quantity <= 0 {
		return fmt.Errorf("restore requires a listing and a positive quantity: %w", ErrValidation)
	}
	return s.listings.RestoreQuantity(listingID, quantity)
}

// RestoreForOrder restores stock for every non-cancelled item of an order,
// grouping quantity by listing first so a listing referenced by multiple
// items is restored exactly once. Partial failures are counted and
// reported, not retried.
func (s *InventoryService) RestoreForOrder(orderID string) (RestoreReport, error) {
	items, err := s.orders.ItemsByOrderID(orderID)
	if err != nil {
		return RestoreReport{}, err
	}

	quantities := make(map[string]int)
	var listingOrder []string
	for _, item := range items {
		if item.Status == models.ItemStatusCancelled || item.Status == models.ItemStatusExpired {
			continue
		}
		if _, seen := quantities[item.ListingID]; !seen {
			listingOrder = append(listingOrder, item.ListingID)
		}
		quantities[item.ListingID] += item.Quantity
	}

	var report RestoreReport
	for _, listingID := range listingOrder {
		if err := s.listings.RestoreQuantity(listingID, quantities[listingID]); err != nil {
			log.Printf("Warning: failed to restore %d to listing %s for order %s: %v",
				quantities[listingID], listingID, orderID, err)
			report.ListingsFailed++
			continue
		}
		report.ListingsRestored++
	}
	return report, nil
}
