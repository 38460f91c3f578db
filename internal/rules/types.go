package rules

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlertKind classifies a stock alert
type AlertKind string

const (
	AlertLowStock     AlertKind = "Low Stock"
	AlertExpiringSoon AlertKind = "Expiring Soon"
	AlertOverstocked  AlertKind = "Overstocked"
)

// Item is one product's most recently recorded state, as assembled by the
// snapshot provider. All evaluation runs against a slice of these.
type Item struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	ExpiryDate  time.Time       `json:"expiry_date"`
	Price       decimal.Decimal `json:"price"`
	DemandScore float64         `json:"demand_score"`
}

// Alert is produced fresh on every evaluation pass. Alerts are never stored
// or deduplicated; an item still matching a condition is re-alerted each pass.
type Alert struct {
	Kind      AlertKind `json:"kind"`
	ItemName  string    `json:"item_name"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// PriceSuggestion is the outcome of the pricing rule chain for a single item.
// At most one suggestion exists per item per pass.
type PriceSuggestion struct {
	ItemID         string          `json:"item_id"`
	ItemName       string          `json:"item_name"`
	OldPrice       decimal.Decimal `json:"old_price"`
	SuggestedPrice decimal.Decimal `json:"suggested_price"`
	Reason         string          `json:"reason"`
}

// Price suggestion reasons, one per rule in the chain.
const (
	ReasonOverstockDiscount = "Overstocked - discount applied"
	ReasonExpiryDiscount    = "Expiring soon - discount applied"
	ReasonDemandIncrease    = "High demand & low stock - price increased"
)
