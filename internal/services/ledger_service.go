package services

import (
	"fmt"
	"time"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/repositories"
)

// LedgerService maintains the append-only vendor fee ledger and the
// invoice/auto-deduction policy over it.
type LedgerService struct {
	repo repositories.LedgerRepository
	fees *FeeService
	cfg  ledgerPolicy
	now  func() time.Time
}

type ledgerPolicy struct {
	balanceThresholdCents int64
	ageThreshold          time.Duration
}

// NewLedgerService creates a new LedgerService.
func NewLedgerService(repo repositories.LedgerRepository, fees *FeeService) *LedgerService {
	return &LedgerService{
		repo: repo,
		fees: fees,
		cfg: ledgerPolicy{
			balanceThresholdCents: fees.cfg.BalanceInvoiceThresholdCents,
			ageThreshold:          fees.cfg.AgeInvoiceThreshold,
		},
		now: time.Now,
	}
}

// LedgerBalance is a vendor's outstanding position.
type LedgerBalance struct {
	OutstandingCents int64      `json:"outstanding_cents"`
	OldestUnpaidAt   *time.Time `json:"oldest_unpaid_at,omitempty"`
}

// RecordCharge appends an unpaid charge entry for fees owed from an order.
func (s *LedgerService) RecordCharge(vendorID, orderID string, amountCents int64, description string) error {
	if vendorID == "" || amountCents <= 0 {
		return fmt.Errorf("charge requires a vendor and a positive amount: %w", ErrValidation)
	}
	entry := &models.VendorFeeLedgerEntry{
		VendorID:    vendorID,
		OrderID:     orderID,
		AmountCents: amountCents,
		EntryType:   models.LedgerEntryCharge,
		Description: description,
	}
	if err := s.repo.Append(entry); err != nil {
		return fmt.Errorf("failed to record charge for vendor %s: %w", vendorID, err)
	}
	return nil
}

// Balance sums the vendor's unpaid entries and reports the timestamp of the
// oldest one. Reads are eventually consistent with in-flight appends.
func (s *LedgerService) Balance(vendorID string) (LedgerBalance, error) {
	entries, err := s.repo.UnpaidByVendor(vendorID)
	if err != nil {
		return LedgerBalance{}, err
	}
	var balance LedgerBalance
	for i := range entries {
		balance.OutstandingCents += entries[i].AmountCents
		if balance.OldestUnpaidAt == nil || entries[i].CreatedAt.Before(*balance.OldestUnpaidAt) {
			t := entries[i].CreatedAt
			balance.OldestUnpaidAt = &t
		}
	}
	return balance, nil
}

// RequiresPayment is the read-time invoice policy: true once the balance
// reaches the invoice threshold or a positive balance has gone unpaid past
// the age threshold. Old unpaid entries that carried deductions can sum to
// zero; nothing is owed then, so the age trigger ignores them.
func (s *LedgerService) RequiresPayment(vendorID string) (bool, error) {
	balance, err := s.Balance(vendorID)
	if err != nil {
		return false, err
	}
	if balance.OutstandingCents >= s.cfg.balanceThresholdCents {
		return true, nil
	}
	if balance.OutstandingCents > 0 &&
		balance.OldestUnpaidAt != nil && s.now().Sub(*balance.OldestUnpaidAt) >= s.cfg.ageThreshold {
		return true, nil
	}
	return false, nil
}

// ApplyAutoDeduction withholds part of a vendor payout against the
// outstanding balance, capped at the configured fraction of the payout.
// Charges are settled oldest-first: fully covered charges are marked paid,
// and any partially applied remainder is carried as a negative unpaid
// deduction entry so the balance stays the sum of unpaid amounts. Returns
// the amount the payout processor should withhold.
func (s *LedgerService) ApplyAutoDeduction(vendorID string, payoutCents int64) (int64, error) {
	if payoutCents < 0 {
		return 0, fmt.Errorf("payout amount must be non-negative: %w", ErrValidation)
	}
	entries, err := s.repo.UnpaidByVendor(vendorID)
	if err != nil {
		return 0, err
	}

	var owed int64
	for i := range entries {
		owed += entries[i].AmountCents
	}
	deduct := s.fees.AutoDeductAmount(payoutCents, owed)
	if deduct == 0 {
		return 0, nil
	}

	var covered int64
	var toMark []string
	for i := range entries {
		if entries[i].AmountCents <= 0 {
			continue
		}
		if covered+entries[i].AmountCents > deduct {
			break
		}
		covered += entries[i].AmountCents
		toMark = append(toMark, entries[i].ID)
	}
	if err := s.repo.MarkPaid(toMark); err != nil {
		return 0, fmt.Errorf("failed to settle charges for vendor %s: %w", vendorID, err)
	}

	remainder := deduct - covered
	entry := &models.VendorFeeLedgerEntry{
		VendorID:    vendorID,
		AmountCents: -deduct,
		EntryType:   models.LedgerEntryPayoutDeduction,
		Paid:        true,
		Description: fmt.Sprintf("auto-deduction of %d cents from payout of %d cents", deduct, payoutCents),
	}
	if remainder > 0 {
		// The partially covered charge stays unpaid; the unapplied portion
		// of the deduction offsets it in the unpaid sum.
		entry.AmountCents = -remainder
		entry.Paid = false
	}
	if err := s.repo.Append(entry); err != nil {
		return 0, fmt.Errorf("failed to record deduction for vendor %s: %w", vendorID, err)
	}
	return deduct, nil
}
