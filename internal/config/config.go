package config

import (
	"math"
	"time"

	"github.com/spf13/viper"
)

// Settlement holds every constant the fee and ledger calculations depend on.
// Percentages are converted to basis points at load time so all downstream
// monetary arithmetic stays in integer cents.
type Settlement struct {
	GracePeriod                  time.Duration
	BuyerFeeBps                  int64
	BuyerFlatFeeCents            int64
	SellerFeeBps                 int64
	CancellationFeeBps           int64
	ApplicationFeeBps            int64
	AutoDeductMaxBps             int64
	TipCapBps                    int64
	BalanceInvoiceThresholdCents int64
	AgeInvoiceThreshold          time.Duration
}

// LoadSettlement reads settlement constants from the environment via Viper,
// falling back to platform defaults.
func LoadSettlement() Settlement {
	viper.SetDefault("GRACE_PERIOD_MINUTES", 60)
	viper.SetDefault("BUYER_FEE_PERCENT", 6.5)
	viper.SetDefault("BUYER_FLAT_FEE_CENTS", 15)
	viper.SetDefault("SELLER_FEE_PERCENT", 8.0)
	viper.SetDefault("CANCELLATION_FEE_PERCENT", 25.0)
	viper.SetDefault("APPLICATION_FEE_PERCENT", 13.0)
	viper.SetDefault("AUTO_DEDUCT_MAX_PERCENT", 50.0)
	viper.SetDefault("TIP_CAP_PERCENT", 20.0)
	viper.SetDefault("BALANCE_INVOICE_THRESHOLD_CENTS", 5000)
	viper.SetDefault("AGE_INVOICE_THRESHOLD_DAYS", 30)
	viper.AutomaticEnv()

	return Settlement{
		GracePeriod:                  time.Duration(viper.GetInt64("GRACE_PERIOD_MINUTES")) * time.Minute,
		BuyerFeeBps:                  toBps(viper.GetFloat64("BUYER_FEE_PERCENT")),
		BuyerFlatFeeCents:            viper.GetInt64("BUYER_FLAT_FEE_CENTS"),
		SellerFeeBps:                 toBps(viper.GetFloat64("SELLER_FEE_PERCENT")),
		CancellationFeeBps:           toBps(viper.GetFloat64("CANCELLATION_FEE_PERCENT")),
		ApplicationFeeBps:            toBps(viper.GetFloat64("APPLICATION_FEE_PERCENT")),
		AutoDeductMaxBps:             toBps(viper.GetFloat64("AUTO_DEDUCT_MAX_PERCENT")),
		TipCapBps:                    toBps(viper.GetFloat64("TIP_CAP_PERCENT")),
		BalanceInvoiceThresholdCents: viper.GetInt64("BALANCE_INVOICE_THRESHOLD_CENTS"),
		AgeInvoiceThreshold:          time.Duration(viper.GetInt64("AGE_INVOICE_THRESHOLD_DAYS")) * 24 * time.Hour,
	}
}

// toBps converts a human-readable percentage (e.g. 6.5) to basis points (650).
// This is the only place a float touches a fee constant.
func toBps(percent float64) int64 {
	return int64(math.Round(percent * 100))
}
