package repositories

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
)

// GORMListingRepository is a GORM implementation of ListingRepository.
// Both quantity operations are single conditional UPDATE statements so
// concurrent reservations and restores never lose an increment.
type GORMListingRepository struct {
	db *gorm.DB
}

// NewGORMListingRepository creates a new instance of GORMListingRepository.
func NewGORMListingRepository(db *gorm.DB) *GORMListingRepository {
	return &GORMListingRepository{
		db: db,
	}
}

// Create creates a new listing.
func (r *GORMListingRepository) Create(listing *models.Listing) error {
	if listing.ID == "" {
		listing.ID = uuid.New().String()
	}
	if err := r.db.Create(listing).Error; err != nil {
		return fmt.Errorf("failed to create listing: %w", err)
	}
	return nil
}

// GetByID retrieves a single listing by its ID.
func (r *GORMListingRepository) GetByID(id string) (*models.Listing, error) {
	var listing models.Listing
	if err := r.db.First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("listing %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get listing %s: %w", id, err)
	}
	return &listing, nil
}

// ReserveQuantity atomically decrements quantity when enough stock remains.
func (r *GORMListingRepository) ReserveQuantity(id string, qty int) (bool, error) {
	res := r.db.Model(&models.Listing{}).
		Where("id = ? AND quantity IS NOT NULL AND quantity >= ?", id, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return false, fmt.Errorf("failed to reserve %d of listing %s: %w", qty, id, res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	// Either the listing is unlimited, out of stock, or missing.
	listing, err := r.GetByID(id)
	if err != nil {
		return false, err
	}
	if listing.Unlimited() {
		return true, nil
	}
	return false, nil
}

// RestoreQuantity atomically increments quantity. Unlimited listings are a
// no-op success.
func (r *GORMListingRepository) RestoreQuantity(id string, qty int) error {
	res := r.db.Model(&models.Listing{}).
		Where("id = ? AND quantity IS NOT NULL", id).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", qty))
	if res.Error != nil {
		return fmt.Errorf("failed to restore %d to listing %s: %w", qty, id, res.Error)
	}
	if res.RowsAffected == 0 {
		// Distinguish unlimited (fine) from missing.
		if _, err := r.GetByID(id); err != nil {
			return err
		}
	}
	return nil
}
