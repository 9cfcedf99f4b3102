package models

import "gorm.io/gorm"

// LedgerEntryType classifies vendor fee ledger entries.
type LedgerEntryType string

const (
	LedgerEntryCharge           LedgerEntryType = "charge"
	LedgerEntryPayoutDeduction  LedgerEntryType = "payout_deduction"
	LedgerEntryManualAdjustment LedgerEntryType = "manual_adjustment"
)

// VendorFeeLedgerEntry is one append-only row of a vendor's fee ledger.
// The vendor's outstanding balance is the sum of unpaid entries' amounts.
// A payout-deduction entry marks prior charge entries paid rather than
// deleting them.
type VendorFeeLedgerEntry struct {
	ID          string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	VendorID    string          `json:"vendor_id" gorm:"type:varchar(36);index" validate:"required"`
	OrderID     string          `json:"order_id" gorm:"type:varchar(36);index"`
	AmountCents int64           `json:"amount_cents"`
	EntryType   LedgerEntryType `json:"entry_type" validate:"required,oneof=charge payout_deduction manual_adjustment"`
	Paid        bool            `json:"paid"`
	Description string          `json:"description" validate:"omitempty,max=500"`
	gorm.Model
}
