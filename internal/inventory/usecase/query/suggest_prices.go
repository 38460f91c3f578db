package query

import (
	"context"
	"time"

	"github.com/tair/inventory-monitor/internal/inventory/domain"
	"github.com/tair/inventory-monitor/internal/rules"
)

// SuggestPricesHandler handles the price suggestion query
type SuggestPricesHandler struct {
	snapshots domain.SnapshotProvider
	engine    *rules.Engine
}

// NewSuggestPricesHandler creates a new suggest prices handler
func NewSuggestPricesHandler(snapshots domain.SnapshotProvider, engine *rules.Engine) *SuggestPricesHandler {
	return &SuggestPricesHandler{snapshots: snapshots, engine: engine}
}

// Handle takes a fresh snapshot and runs the pricing chain over it.
func (h *SuggestPricesHandler) Handle(ctx context.Context, now time.Time) ([]rules.PriceSuggestion, error) {
	items, err := h.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return h.engine.EvaluatePriceSuggestions(items, now)
}
