package query

import (
	"context"
	"time"

	"github.com/tair/inventory-monitor/internal/inventory/domain"
	"github.com/tair/inventory-monitor/internal/rules"
)

// ListAlertsHandler evaluates alerts read-only. Listing never dispatches
// notifications; that is the trigger command's job.
type ListAlertsHandler struct {
	snapshots domain.SnapshotProvider
	engine    *rules.Engine
}

// NewListAlertsHandler creates a new list alerts handler
func NewListAlertsHandler(snapshots domain.SnapshotProvider, engine *rules.Engine) *ListAlertsHandler {
	return &ListAlertsHandler{snapshots: snapshots, engine: engine}
}

// Handle takes a fresh snapshot and evaluates it at the given time.
func (h *ListAlertsHandler) Handle(ctx context.Context, now time.Time) ([]rules.Alert, error) {
	items, err := h.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return h.engine.EvaluateAlerts(items, now)
}
