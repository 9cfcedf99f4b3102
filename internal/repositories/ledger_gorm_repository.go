package repositories

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
)

// GORMLedgerRepository is a GORM implementation of LedgerRepository.
type GORMLedgerRepository struct {
	db *gorm.DB
}

// NewGORMLedgerRepository creates a new instance of GORMLedgerRepository.
func NewGORMLedgerRepository(db *gorm.DB) *GORMLedgerRepository {
	return &GORMLedgerRepository{
		db: db,
	}
}

// Append appends a new ledger entry. Entries are never updated except to
// flip the paid flag.
func (r *GORMLedgerRepository) Append(entry *models.VendorFeeLedgerEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to append ledger entry: %w", err)
	}
	return nil
}

// UnpaidByVendor returns the vendor's unpaid entries, oldest first.
func (r *GORMLedgerRepository) UnpaidByVendor(vendorID string) ([]models.VendorFeeLedgerEntry, error) {
	var entries []models.VendorFeeLedgerEntry
	if err := r.db.Where("vendor_id = ? AND paid = ?", vendorID, false).
		Order("created_at asc").
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get unpaid entries for vendor %s: %w", vendorID, err)
	}
	return entries, nil
}

// MarkPaid marks the given entries paid.
func (r *GORMLedgerRepository) MarkPaid(entryIDs []string) error {
	if len(entryIDs) == 0 {
		return nil
	}
	if err := r.db.Model(&models.VendorFeeLedgerEntry{}).
		Where("id IN ?", entryIDs).
		Update("paid", true).Error; err != nil {
		return fmt.Errorf("failed to mark entries paid: %w", err)
	}
	return nil
}
