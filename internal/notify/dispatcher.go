package notify

import (
	"context"
	"sync"

	"github.com/tair/inventory-monitor/internal/rules"
	"github.com/tair/inventory-monitor/pkg/logger"
)

// Dispatcher fans each alert out to every configured channel. Channels run
// concurrently and fail independently; the report carries one result per
// (alert, channel) pair in a deterministic order.
type Dispatcher struct {
	channels []Channel
}

// NewDispatcher creates a dispatcher over the given channels. A dispatcher
// with no channels is valid and reports zero attempts.
func NewDispatcher(channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels}
}

// Channels returns the names of the configured channels.
func (d *Dispatcher) Channels() []string {
	names := make([]string, 0, len(d.channels))
	for _, ch := range d.channels {
		names = append(names, ch.Name())
	}
	return names
}

// Dispatch attempts delivery of every alert on every channel. It never
// returns an error: delivery failures are side-effect failures, recorded in
// the report and the log, and must not affect the alert list already handed
// to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, alerts []rules.Alert) DeliveryReport {
	report := DeliveryReport{
		Results: make([]DeliveryResult, len(alerts)*len(d.channels)),
	}

	var wg sync.WaitGroup
	for i, alert := range alerts {
		for j, ch := range d.channels {
			wg.Add(1)
			go func(slot int, alert rules.Alert, ch Channel) {
				defer wg.Done()
				report.Results[slot] = d.deliver(ctx, ch, alert)
			}(i*len(d.channels)+j, alert, ch)
		}
	}
	wg.Wait()

	report.Attempted = len(report.Results)
	for _, res := range report.Results {
		if res.Delivered {
			report.Delivered++
		} else {
			report.Failed++
		}
	}
	return report
}

func (d *Dispatcher) deliver(ctx context.Context, ch Channel, alert rules.Alert) DeliveryResult {
	result := DeliveryResult{
		Channel:   ch.Name(),
		AlertKind: string(alert.Kind),
		ItemName:  alert.ItemName,
	}

	if err := ch.Deliver(ctx, alert); err != nil {
		dispatchErr := &DispatchError{Channel: ch.Name(), Err: err}
		logger.Warn(ctx).
			Err(dispatchErr).
			Str("channel", ch.Name()).
			Str("alert_kind", string(alert.Kind)).
			Str("item_name", alert.ItemName).
			Msg("Alert delivery failed")
		result.Error = dispatchErr.Error()
		return result
	}

	result.Delivered = true
	logger.Debug(ctx).
		Str("channel", ch.Name()).
		Str("alert_kind", string(alert.Kind)).
		Str("item_name", alert.ItemName).
		Msg("Alert delivered")
	return result
}
