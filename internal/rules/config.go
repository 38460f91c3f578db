package rules

import (
	"time"

	"github.com/shopspring/decimal"
)

// Config holds every threshold and rate the engine applies. All rule logic
// reads these named fields; no threshold literal appears anywhere else.
type Config struct {
	// Alert thresholds.
	LowStockBelow  int           // Low Stock when quantity < LowStockBelow
	OverstockAbove int           // Overstocked when quantity > OverstockAbove
	ExpiryWindow   time.Duration // Expiring Soon when expiry <= now + ExpiryWindow (inclusive)

	// Pricing thresholds. The overstock level is shared with the alert
	// check; the pricing chain has its own, tighter low-stock cutoff.
	PriceOverstockAt  int     // discount when quantity >= PriceOverstockAt
	PriceLowStockAt   int     // demand increase requires quantity <= PriceLowStockAt
	HighDemandScoreAt float64 // demand increase requires demand_score >= HighDemandScoreAt

	// Pricing rates, applied multiplicatively to the current price.
	OverstockDiscount decimal.Decimal // price * (1 - OverstockDiscount)
	ExpiryDiscount    decimal.Decimal // price * (1 - ExpiryDiscount)
	DemandIncrease    decimal.Decimal // price * (1 + DemandIncrease)
}

// DefaultConfig returns the stock rule set.
func DefaultConfig() Config {
	return Config{
		LowStockBelow:  10,
		OverstockAbove: 80,
		ExpiryWindow:   3 * 24 * time.Hour,

		PriceOverstockAt:  80,
		PriceLowStockAt:   5,
		HighDemandScoreAt: 0.8,

		OverstockDiscount: decimal.NewFromFloat(0.20),
		ExpiryDiscount:    decimal.NewFromFloat(0.30),
		DemandIncrease:    decimal.NewFromFloat(0.15),
	}
}
