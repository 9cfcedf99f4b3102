package repositories

import (
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
)

// ListingRepository defines the interface for listing data access. The
// quantity operations are the atomic contracts the settlement core depends
// on; implementations must express them as single conditional statements,
// never a read followed by a write.
type ListingRepository interface {
	Create(listing *models.Listing) error
	GetByID(id string) (*models.Listing, error)

	// ReserveQuantity atomically decrements the listing's quantity when at
	// least qty remains; returns false when stock is insufficient.
	// Unlimited listings always succeed without mutation.
	ReserveQuantity(id string, qty int) (bool, error)

	// RestoreQuantity atomically increments the listing's quantity.
	// No-op success for unlimited listings.
	RestoreQuantity(id string, qty int) error
}
