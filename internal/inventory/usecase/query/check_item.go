package query

import (
	"context"
	"time"

	"github.com/tair/inventory-monitor/internal/rules"
)

// CheckItemQuery carries a hand-entered item through the shared engine. The
// interactive checker runs the very same rules as the batch evaluation; it
// must never grow its own thresholds.
type CheckItemQuery struct {
	Item rules.Item
	Now  time.Time
}

// CheckItemResult bundles everything the rules say about one item.
type CheckItemResult struct {
	Alerts     []rules.Alert          `json:"alerts"`
	Suggestion *rules.PriceSuggestion `json:"suggestion,omitempty"`
}

// CheckItemHandler handles the interactive single-item check
type CheckItemHandler struct {
	engine *rules.Engine
}

// NewCheckItemHandler creates a new check item handler
func NewCheckItemHandler(engine *rules.Engine) *CheckItemHandler {
	return &CheckItemHandler{engine: engine}
}

// Handle evaluates alerts and the pricing chain for the single item.
func (h *CheckItemHandler) Handle(ctx context.Context, q CheckItemQuery) (*CheckItemResult, error) {
	items := []rules.Item{q.Item}

	alerts, err := h.engine.EvaluateAlerts(items, q.Now)
	if err != nil {
		return nil, err
	}

	suggestions, err := h.engine.EvaluatePriceSuggestions(items, q.Now)
	if err != nil {
		return nil, err
	}

	result := &CheckItemResult{Alerts: alerts}
	if len(suggestions) > 0 {
		result.Suggestion = &suggestions[0]
	}
	return result, nil
}
