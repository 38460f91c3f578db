package command

import (
	"context"
	"time"

	"github.com/tair/inventory-monitor/internal/inventory/domain"
	"github.com/tair/inventory-monitor/internal/rules"
)

// ApplyPricesResult is always a simulation: suggestions are recomputed and
// returned, nothing is persisted. The flag makes that explicit to callers.
type ApplyPricesResult struct {
	Simulated bool                    `json:"simulated"`
	Applied   []rules.PriceSuggestion `json:"applied"`
}

// ApplyPricesHandler handles the apply prices command
type ApplyPricesHandler struct {
	snapshots domain.SnapshotProvider
	engine    *rules.Engine
}

// NewApplyPricesHandler creates a new apply prices handler
func NewApplyPricesHandler(snapshots domain.SnapshotProvider, engine *rules.Engine) *ApplyPricesHandler {
	return &ApplyPricesHandler{snapshots: snapshots, engine: engine}
}

// Handle recomputes the suggestions over a fresh snapshot and returns them.
func (h *ApplyPricesHandler) Handle(ctx context.Context, now time.Time) (*ApplyPricesResult, error) {
	items, err := h.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	suggestions, err := h.engine.EvaluatePriceSuggestions(items, now)
	if err != nil {
		return nil, err
	}

	return &ApplyPricesResult{
		Simulated: true,
		Applied:   suggestions,
	}, nil
}
