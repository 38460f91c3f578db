// Package notify fans evaluated alerts out to delivery channels. Delivery is
// a side effect layered after evaluation: a failed channel is reported and
// logged but never fails the request that produced the alerts.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/tair/inventory-monitor/internal/rules"
)

// Channel is one delivery mechanism for an alert.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, alert rules.Alert) error
}

// DeliveryResult is the outcome of one channel attempting one alert.
type DeliveryResult struct {
	Channel   string `json:"channel"`
	AlertKind string `json:"alert_kind"`
	ItemName  string `json:"item_name"`
	Delivered bool   `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

// DeliveryReport aggregates per-channel results for one dispatch pass.
type DeliveryReport struct {
	Attempted int              `json:"attempted"`
	Delivered int              `json:"delivered"`
	Failed    int              `json:"failed"`
	Results   []DeliveryResult `json:"results"`
}

// DispatchError reports one channel's failed delivery.
type DispatchError struct {
	Channel string
	Err     error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("channel %s: delivery failed: %v", e.Channel, e.Err)
}

func (e *DispatchError) Unwrap() error {
	return e.Err
}

// ConfigurationError reports a channel that cannot be constructed because
// required credentials or settings are absent. It disables that channel only;
// evaluation and the remaining channels are unaffected.
type ConfigurationError struct {
	Channel string
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("channel %s is not configured: missing %s",
		e.Channel, strings.Join(e.Missing, ", "))
}

// messageBody renders the standard one-line alert text shared by the direct
// channels.
func messageBody(alert rules.Alert) string {
	return fmt.Sprintf("%s alert for %s: %s at %s",
		alert.Kind, alert.ItemName, alert.Reason, alert.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
}
