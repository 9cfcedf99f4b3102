package services

import (
	"time"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/config"
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
)

// FeeService computes every monetary figure the settlement engine needs.
// All methods are pure: integer cents in, integer cents out, no I/O.
// Rounding is round-half-away-from-zero, applied at the point each
// sub-amount is computed; the order of operations is part of the contract.
type FeeService struct {
	cfg config.Settlement
}

// NewFeeService creates a new FeeService over the given settlement constants.
func NewFeeService(cfg config.Settlement) *FeeService {
	return &FeeService{
		cfg: cfg,
	}
}

// CancellationOutcome is the full monetary result of cancelling one order
// item, including the flags recording which rule fired so callers can audit
// the decision.
type CancellationOutcome struct {
	RefundCents        int64 `json:"refund_cents"`
	FeeCents           int64 `json:"fee_cents"`
	PlatformShareCents int64 `json:"platform_share_cents"`
	VendorShareCents   int64 `json:"vendor_share_cents"`
	WithinGrace        bool  `json:"within_grace"`
	VendorHadConfirmed bool  `json:"vendor_had_confirmed"`
	FullRefund         bool  `json:"full_refund"`
}

// BuyerFee is the fee charged on top of an item subtotal: a percentage of
// the subtotal plus the full flat fee.
func (s *FeeService) BuyerFee(subtotalCents int64) int64 {
	return roundBps(subtotalCents, s.cfg.BuyerFeeBps) + s.cfg.BuyerFlatFeeCents
}

// BuyerFeeShare is BuyerFee with the flat fee prorated across the order's
// items. Each item's flat share is rounded independently, so the shares may
// drift from the order-level flat fee by a few cents in multi-item orders;
// the drift is preserved, not reconciled.
func (s *FeeService) BuyerFeeShare(subtotalCents int64, itemCount int) int64 {
	return roundBps(subtotalCents, s.cfg.BuyerFeeBps) + roundDiv(s.cfg.BuyerFlatFeeCents, int64(itemCount))
}

// SellerFee is the platform's cut of an item subtotal charged to the vendor.
func (s *FeeService) SellerFee(subtotalCents int64) int64 {
	return roundBps(subtotalCents, s.cfg.SellerFeeBps)
}

// ExternalTotalFee is the combined buyer and seller fee owed when payment
// happened outside the processor and must be reconciled via the ledger
// instead of captured at charge time.
func (s *FeeService) ExternalTotalFee(subtotalCents int64) int64 {
	return s.BuyerFee(subtotalCents) + s.SellerFee(subtotalCents)
}

// CancellationFee decides how much of an item's payment is refunded and how
// a retained fee is split. statusBefore is the item's status prior to the
// cancel/expire transition; within the grace window, or before the vendor
// has confirmed, the buyer is always made whole.
func (s *FeeService) CancellationFee(subtotalCents int64, itemCountInOrder int, statusBefore models.ItemStatus, orderCreatedAt, now time.Time) CancellationOutcome {
	amountPaid := subtotalCents + s.BuyerFeeShare(subtotalCents, itemCountInOrder)

	withinGrace := now.Before(orderCreatedAt.Add(s.cfg.GracePeriod))
	vendorHadConfirmed := statusBefore == models.ItemStatusConfirmed ||
		statusBefore == models.ItemStatusReady ||
		statusBefore == models.ItemStatusFulfilled

	if withinGrace || !vendorHadConfirmed {
		return CancellationOutcome{
			RefundCents:        amountPaid,
			WithinGrace:        withinGrace,
			VendorHadConfirmed: vendorHadConfirmed,
			FullRefund:         true,
		}
	}

	fee := amountPaid - roundBps(amountPaid, 10000-s.cfg.CancellationFeeBps)
	platformShare := roundBps(fee, s.cfg.ApplicationFeeBps)
	return CancellationOutcome{
		RefundCents:        amountPaid - fee,
		FeeCents:           fee,
		PlatformShareCents: platformShare,
		VendorShareCents:   fee - platformShare,
		WithinGrace:        withinGrace,
		VendorHadConfirmed: vendorHadConfirmed,
	}
}

// TipShare is one item's share of an order-level tip. Each share is rounded
// independently; across a multi-item order the shares may sum to a few cents
// more or less than the tip. That drift is a documented property of the
// settlement, left uncorrected.
func (s *FeeService) TipShare(tipCents int64, itemCount int) int64 {
	if tipCents <= 0 || itemCount <= 0 {
		return 0
	}
	return roundDiv(tipCents, int64(itemCount))
}

// VendorTip is the portion of a tip passed through to the vendor after the
// platform-fee portion is removed.
func (s *FeeService) VendorTip(tipCents, tipOnPlatformFeeCents int64) int64 {
	return tipCents - tipOnPlatformFeeCents
}

// PlatformFeeTip is the portion of a tip attributed to the platform-fee
// side: the vendor's entitlement is capped at a percentage of the base
// subtotal, and anything the tipper paid above that cap lands here.
func (s *FeeService) PlatformFeeTip(totalTipCents, baseSubtotalCents int64) int64 {
	cap := roundBps(baseSubtotalCents, s.cfg.TipCapBps)
	if totalTipCents <= cap {
		return 0
	}
	return totalTipCents - cap
}

// AutoDeductAmount is how much of a vendor payout may be withheld against
// an outstanding ledger balance. The deduction never exceeds the configured
// fraction of a single payout, regardless of how much is owed.
func (s *FeeService) AutoDeductAmount(payoutCents, owedCents int64) int64 {
	if owedCents < 0 {
		owedCents = 0
	}
	cap := roundBps(payoutCents, s.cfg.AutoDeductMaxBps)
	if owedCents < cap {
		return owedCents
	}
	return cap
}

// roundBps multiplies an amount by a basis-point rate and rounds half away
// from zero.
func roundBps(amountCents, bps int64) int64 {
	return roundFrac(amountCents*bps, 10000)
}

// roundDiv divides a by b, rounding half away from zero.
func roundDiv(a, b int64) int64 {
	return roundFrac(a, b)
}

func roundFrac(numerator, denominator int64) int64 {
	q := numerator / denominator
	r := numerator % denominator
	if r < 0 {
		r = -r
	}
	if 2*r >= denominator {
		if (numerator < 0) != (denominator < 0) {
			return q - 1
		}
		return q + 1
	}
	return q
}
