package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tsjr00/inpersonmarketplace-sub007/internal/config"
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/models"
	"github.com/tsjr00/inpersonmarketplace-sub007/internal/services"
)

// testSettlement mirrors the platform defaults: 6.5% + 15c buyer fee, 25%
// cancellation fee, 13% application fee, 50% auto-deduct cap.
func testSettlement() config.Settlement {
	return config.Settlement{
		GracePeriod:                  60 * time.Minute,
		BuyerFeeBps:                  650,
		BuyerFlatFeeCents:            15,
		SellerFeeBps:                 800,
		CancellationFeeBps:           2500,
		ApplicationFeeBps:            1300,
		AutoDeductMaxBps:             5000,
		TipCapBps:                    2000,
		BalanceInvoiceThresholdCents: 5000,
		AgeInvoiceThreshold:          30 * 24 * time.Hour,
	}
}

func TestFeeService_BuyerFee(t *testing.T) {
	fees := services.NewFeeService(testSettlement())

	assert.Equal(t, int64(80), fees.BuyerFee(1000)) // round(65) + 15
	assert.Equal(t, int64(15), fees.BuyerFee(0))

	// Monotonically non-decreasing in the subtotal.
	prev := int64(-1)
	for subtotal := int64(0); subtotal <= 5000; subtotal += 7 {
		fee := fees.BuyerFee(subtotal)
		assert.GreaterOrEqual(t, fee, prev, "buyer fee decreased at subtotal %d", subtotal)
		prev = fee
	}
}

func TestFeeService_SellerAndExternalFees(t *testing.T) {
	fees := services.NewFeeService(testSettlement())

	assert.Equal(t, int64(80), fees.SellerFee(1000))
	// External orders owe both sides' fees via the ledger.
	assert.Equal(t, fees.BuyerFee(1000)+fees.SellerFee(1000), fees.ExternalTotalFee(1000))
}

func TestFeeService_CancellationWithinGrace(t *testing.T) {
	fees := services.NewFeeService(testSettlement())
	createdAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	// Subtotal 1000, 1 item, confirmed, cancelled 30 minutes in.
	outcome := fees.CancellationFee(1000, 1, models.ItemStatusConfirmed, createdAt, createdAt.Add(30*time.Minute))
	assert.Equal(t, int64(1080), outcome.RefundCents)
	assert.Equal(t, int64(0), outcome.FeeCents)
	assert.True(t, outcome.WithinGrace)
	assert.True(t, outcome.VendorHadConfirmed)
	assert.True(t, outcome.FullRefund)

	// Within grace the status never matters.
	for _, status := range []models.ItemStatus{
		models.ItemStatusPending, models.ItemStatusConfirmed,
		models.ItemStatusReady, models.ItemStatusFulfilled,
	} {
		outcome := fees.CancellationFee(1000, 1, status, createdAt, createdAt.Add(59*time.Minute))
		assert.Equal(t, int64(1080), outcome.RefundCents, "status %s", status)
		assert.Equal(t, int64(0), outcome.FeeCents, "status %s", status)
	}
}

func TestFeeService_CancellationAfterGrace(t *testing.T) {
	fees := services.NewFeeService(testSettlement())
	createdAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	// Same order cancelled two hours after creation.
	outcome := fees.CancellationFee(1000, 1, models.ItemStatusConfirmed, createdAt, createdAt.Add(2*time.Hour))
	assert.Equal(t, int64(810), outcome.RefundCents)
	assert.Equal(t, int64(270), outcome.FeeCents)
	assert.Equal(t, int64(35), outcome.PlatformShareCents)
	assert.Equal(t, int64(235), outcome.VendorShareCents)
	assert.False(t, outcome.WithinGrace)
	assert.True(t, outcome.VendorHadConfirmed)
	assert.False(t, outcome.FullRefund)

	// After grace but before vendor confirmation: still a full refund.
	outcome = fees.CancellationFee(1000, 1, models.ItemStatusPending, createdAt, createdAt.Add(2*time.Hour))
	assert.Equal(t, int64(1080), outcome.RefundCents)
	assert.Equal(t, int64(0), outcome.FeeCents)
	assert.False(t, outcome.WithinGrace)
	assert.False(t, outcome.VendorHadConfirmed)
	assert.True(t, outcome.FullRefund)
}

func TestFeeService_CancellationShareIdentities(t *testing.T) {
	fees := services.NewFeeService(testSettlement())
	createdAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	after := createdAt.Add(3 * time.Hour)

	// For every retained fee: platform + vendor == fee and refund + fee ==
	// amount paid.
	for subtotal := int64(1); subtotal <= 20000; subtotal += 137 {
		for _, itemCount := range []int{1, 2, 3, 7} {
			outcome := fees.CancellationFee(subtotal, itemCount, models.ItemStatusReady, createdAt, after)
			amountPaid := subtotal + fees.BuyerFeeShare(subtotal, itemCount)
			assert.Equal(t, outcome.FeeCents, outcome.PlatformShareCents+outcome.VendorShareCents)
			assert.Equal(t, amountPaid, outcome.RefundCents+outcome.FeeCents)
		}
	}
}

func TestFeeService_CancellationFlatFeeProration(t *testing.T) {
	fees := services.NewFeeService(testSettlement())
	createdAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	// 3-item order, subtotal 1000 each, pending, cancelled in
	// grace. Flat fee share round(15/3) = 5, so each refund is 1070.
	for i := 0; i < 3; i++ {
		outcome := fees.CancellationFee(1000, 3, models.ItemStatusPending, createdAt, createdAt.Add(30*time.Minute))
		assert.Equal(t, int64(1070), outcome.RefundCents)
		assert.Equal(t, int64(0), outcome.FeeCents)
	}
}

func TestFeeService_TipShare(t *testing.T) {
	fees := services.NewFeeService(testSettlement())

	// A tip of 1000 over 3 items is 333 each; the 1 cent of drift
	// is an accepted property, not corrected.
	share := fees.TipShare(1000, 3)
	assert.Equal(t, int64(333), share)
	assert.Equal(t, int64(999), share*3)

	assert.Equal(t, int64(0), fees.TipShare(0, 3))
	assert.Equal(t, int64(0), fees.TipShare(-100, 3))
	assert.Equal(t, int64(0), fees.TipShare(1000, 0))
	assert.Equal(t, int64(500), fees.TipShare(1000, 2))
}

func TestFeeService_VendorAndPlatformFeeTip(t *testing.T) {
	fees := services.NewFeeService(testSettlement())

	// Cap is 20% of the base subtotal; anything above lands on the
	// platform-fee side.
	assert.Equal(t, int64(0), fees.PlatformFeeTip(200, 1000))
	assert.Equal(t, int64(300), fees.PlatformFeeTip(500, 1000))

	platformTip := fees.PlatformFeeTip(500, 1000)
	assert.Equal(t, int64(200), fees.VendorTip(500, platformTip))
}

func TestFeeService_AutoDeductAmount(t *testing.T) {
	fees := services.NewFeeService(testSettlement())

	// Payout 1000, owed 3000, cap 50% -> 500.
	assert.Equal(t, int64(500), fees.AutoDeductAmount(1000, 3000))

	assert.Equal(t, int64(200), fees.AutoDeductAmount(1000, 200))
	assert.Equal(t, int64(0), fees.AutoDeductAmount(1000, 0))
	assert.Equal(t, int64(0), fees.AutoDeductAmount(1000, -500))
	assert.Equal(t, int64(0), fees.AutoDeductAmount(0, 3000))

	// The cap bounds every deduction.
	for payout := int64(0); payout <= 10000; payout += 333 {
		for owed := int64(0); owed <= 20000; owed += 777 {
			deduct := fees.AutoDeductAmount(payout, owed)
			assert.LessOrEqual(t, deduct, payout/2+1)
			assert.LessOrEqual(t, deduct, owed)
		}
	}
}
