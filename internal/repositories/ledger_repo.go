package repositories

import (
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
)

// LedgerRepository defines the interface for vendor fee ledger access.
// Entries are append-only; settling a balance marks entries paid, it never
// deletes or rewrites amounts.
type LedgerRepository interface {
	Append(entry *models.VendorFeeLedgerEntry) error

	// UnpaidByVendor returns the vendor's unpaid entries oldest first.
	UnpaidByVendor(vendorID string) ([]models.VendorFeeLedgerEntry, error)

	MarkPaid(entryIDs []string) error
}
