package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
)

// GORMVendorRepository is a GORM implementation of VendorRepository.
type GORMVendorRepository struct {
	db *gorm.DB
}

// NewGORMVendorRepository creates a new instance of GORMVendorRepository.
func NewGORMVendorRepository(db *gorm.DB) *GORMVendorRepository {
	return &GORMVendorRepository{
		db: db,
	}
}

// Create creates a new vendor.
func (r *GORMVendorRepository) Create(vendor *models.Vendor) error {
	if vendor.ID == "" {
		vendor.ID = uuid.New().String()
	}
	if err := r.db.Create(vendor).Error; err != nil {
		return fmt.Errorf("failed to create vendor: %w", err)
	}
	return nil
}

// GetByID retrieves a vendor by its ID.
func (r *GORMVendorRepository) GetByID(id string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.First(&vendor, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vendor %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vendor %s: %w", id, err)
	}
	return &vendor, nil
}

// GetByProcessorAccountID retrieves a vendor by its managed payment
// processor account id.
func (r *GORMVendorRepository) GetByProcessorAccountID(accountID string) (*models.Vendor, error) {
	var vendor models.Vendor
	if err := r.db.First(&vendor, "processor_account_id = ?", accountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("vendor with processor account %s: %w", accountID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get vendor by processor account %s: %w", accountID, err)
	}
	return &vendor, nil
}

// SetPaymentsEnabled flips the vendor's payment-acceptance flag.
func (r *GORMVendorRepository) SetPaymentsEnabled(id string, enabled bool) error {
	res := r.db.Model(&models.Vendor{}).Where("id = ?", id).Update("payments_enabled", enabled)
	if res.Error != nil {
		return fmt.Errorf("failed to update vendor %s payments flag: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("vendor %s: %w", id, ErrNotFound)
	}
	return nil
}
