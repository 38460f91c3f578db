package command

import (
	"context"
	"time"

	"github.com/tair/inventory-monitor/internal/inventory/domain"
	"github.com/tair/inventory-monitor/internal/notify"
	"github.com/tair/inventory-monitor/internal/rules"
)

// TriggerAlertsResult carries the evaluated alerts together with the
// per-channel delivery report. The alert list is complete and final before
// dispatch begins; delivery failures never remove alerts from it.
type TriggerAlertsResult struct {
	Alerts   []rules.Alert         `json:"alerts"`
	Dispatch notify.DeliveryReport `json:"dispatch"`
}

// TriggerAlertsHandler evaluates alerts and dispatches each one to every
// configured channel.
type TriggerAlertsHandler struct {
	snapshots  domain.SnapshotProvider
	engine     *rules.Engine
	dispatcher *notify.Dispatcher
}

// NewTriggerAlertsHandler creates a new trigger alerts handler
func NewTriggerAlertsHandler(snapshots domain.SnapshotProvider, engine *rules.Engine, dispatcher *notify.Dispatcher) *TriggerAlertsHandler {
	return &TriggerAlertsHandler{snapshots: snapshots, engine: engine, dispatcher: dispatcher}
}

// Handle executes the trigger alerts command. Evaluation errors abort the
// command before any dispatch; dispatch errors are confined to the report.
func (h *TriggerAlertsHandler) Handle(ctx context.Context, now time.Time) (*TriggerAlertsResult, error) {
	items, err := h.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	alerts, err := h.engine.EvaluateAlerts(items, now)
	if err != nil {
		return nil, err
	}

	report := h.dispatcher.Dispatch(ctx, alerts)

	return &TriggerAlertsResult{
		Alerts:   alerts,
		Dispatch: report,
	}, nil
}
