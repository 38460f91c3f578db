package domain

import (
	"context"

	"github.com/tair/inventory-monitor/internal/rules"
)

// DefaultDemandScore is the placeholder applied when no stored score exists
// for a product. Scores are supplied externally; nothing in this system
// computes or updates them.
const DefaultDemandScore = 0.5

// DemandScoreStore supplies per-product demand scores in [0, 1]. The second
// return reports whether a score was found.
type DemandScoreStore interface {
	Score(ctx context.Context, productID string) (float64, bool, error)
}

// SnapshotProvider assembles the current evaluation snapshot: one item per
// tracked product, carrying its most recently recorded state.
type SnapshotProvider interface {
	Snapshot(ctx context.Context) ([]rules.Item, error)
}
