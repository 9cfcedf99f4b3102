package services

import "log"

// PayoutRecorder credits a vendor's payout record with its share of a
// retained cancellation fee. The payout record itself lives with the
// payment processor integration, outside this core.
type PayoutRecorder interface {
	CreditVendorShare(vendorID, orderItemID string, amountCents int64) error
}

// LogPayoutRecorder is a stand-in collaborator that only logs credits.
type LogPayoutRecorder struct{}

// CreditVendorShare logs the credit.
func (LogPayoutRecorder) CreditVendorShare(vendorID, orderItemID string, amountCents int64) error {
	log.Printf("Crediting vendor %s with %d cents for cancelled item %s", vendorID, amountCents, orderItemID)
	return nil
}
