package repositories

import (
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
)

// VendorRepository defines the interface for vendor data access.
type VendorRepository interface {
	Create(vendor *models.Vendor) error
	GetByID(id string) (*models.Vendor, error)
	GetByProcessorAccountID(accountID string) (*models.Vendor, error)
	SetPaymentsEnabled(id string, enabled bool) error
}
