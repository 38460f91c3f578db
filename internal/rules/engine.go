// Package rules implements the pure rule-evaluation engine: deterministic
// functions that derive stock alerts and price suggestions from a snapshot of
// inventory items and an injected evaluation time. The engine performs no I/O
// and holds no state between calls.
package rules

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// InputError reports a malformed inventory item. Evaluation fails fast on the
// first invalid item rather than skipping or substituting defaults, because
// alert and price correctness depend on every field.
type InputError struct {
	ItemID string
	Field  string
	Detail string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid inventory item %q: %s %s", e.ItemID, e.Field, e.Detail)
}

// Engine evaluates threshold rules against inventory snapshots.
type Engine struct {
	cfg Config
}

// NewEngine creates an engine with the given rule configuration.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the rule configuration the engine applies.
func (e *Engine) Config() Config {
	return e.cfg
}

// EvaluateAlerts applies the three stock checks to every item, in input order.
// The checks are independent: one item may trigger several alerts, emitted in
// the fixed order Low Stock, Expiring Soon, Overstocked. The expiry boundary
// is inclusive: an item expiring exactly at now + ExpiryWindow is flagged.
func (e *Engine) EvaluateAlerts(items []Item, now time.Time) ([]Alert, error) {
	alerts := make([]Alert, 0, len(items))
	deadline := now.Add(e.cfg.ExpiryWindow)

	for i := range items {
		item := &items[i]
		if err := validateItem(item); err != nil {
			return nil, err
		}

		if item.Quantity < e.cfg.LowStockBelow {
			alerts = append(alerts, Alert{
				Kind:      AlertLowStock,
				ItemName:  item.Name,
				Reason:    fmt.Sprintf("Only %d left in stock.", item.Quantity),
				Timestamp: now,
			})
		}
		if !item.ExpiryDate.After(deadline) {
			alerts = append(alerts, Alert{
				Kind:      AlertExpiringSoon,
				ItemName:  item.Name,
				Reason:    fmt.Sprintf("Expires on %s.", item.ExpiryDate.Format("2006-01-02")),
				Timestamp: now,
			})
		}
		if item.Quantity > e.cfg.OverstockAbove {
			alerts = append(alerts, Alert{
				Kind:      AlertOverstocked,
				ItemName:  item.Name,
				Reason:    fmt.Sprintf("%d in stock.", item.Quantity),
				Timestamp: now,
			})
		}
	}

	return alerts, nil
}

// EvaluatePriceSuggestions runs the pricing rule chain over every item. The
// chain is a priority list: the first matching rule wins and later rules are
// not consulted, so at most one suggestion is produced per item. New prices
// are computed on decimals and rounded to two places half-to-even, which keeps
// the result exact and reproducible (19.99 at 20% off is 15.99, never 15.992).
func (e *Engine) EvaluatePriceSuggestions(items []Item, now time.Time) ([]PriceSuggestion, error) {
	suggestions := make([]PriceSuggestion, 0, len(items))
	deadline := now.Add(e.cfg.ExpiryWindow)
	one := decimal.NewFromInt(1)

	for i := range items {
		item := &items[i]
		if err := validateItem(item); err != nil {
			return nil, err
		}

		var (
			factor decimal.Decimal
			reason string
		)
		switch {
		case item.Quantity >= e.cfg.PriceOverstockAt:
			factor = one.Sub(e.cfg.OverstockDiscount)
			reason = ReasonOverstockDiscount
		case !item.ExpiryDate.After(deadline):
			factor = one.Sub(e.cfg.ExpiryDiscount)
			reason = ReasonExpiryDiscount
		case item.DemandScore >= e.cfg.HighDemandScoreAt && item.Quantity <= e.cfg.PriceLowStockAt:
			factor = one.Add(e.cfg.DemandIncrease)
			reason = ReasonDemandIncrease
		default:
			continue
		}

		suggestions = append(suggestions, PriceSuggestion{
			ItemID:         item.ID,
			ItemName:       item.Name,
			OldPrice:       item.Price,
			SuggestedPrice: item.Price.Mul(factor).RoundBank(2),
			Reason:         reason,
		})
	}

	return suggestions, nil
}

// validateItem rejects items with missing or out-of-range fields.
func validateItem(item *Item) error {
	if item.ID == "" {
		return &InputError{ItemID: item.ID, Field: "id", Detail: "is empty"}
	}
	if item.Quantity < 0 {
		return &InputError{ItemID: item.ID, Field: "quantity", Detail: "is negative"}
	}
	if item.ExpiryDate.IsZero() {
		return &InputError{ItemID: item.ID, Field: "expiry_date", Detail: "is missing"}
	}
	if item.Price.IsNegative() {
		return &InputError{ItemID: item.ID, Field: "price", Detail: "is negative"}
	}
	if math.IsNaN(item.DemandScore) || item.DemandScore < 0 || item.DemandScore > 1 {
		return &InputError{ItemID: item.ID, Field: "demand_score", Detail: "is outside [0, 1]"}
	}
	return nil
}
