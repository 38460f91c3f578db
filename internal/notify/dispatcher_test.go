package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-monitor/internal/rules"
)

// stubChannel records deliveries and optionally fails every attempt.
type stubChannel struct {
	name string
	fail error

	mu        sync.Mutex
	delivered []rules.Alert
}

func (c *stubChannel) Name() string { return c.name }

func (c *stubChannel) Deliver(ctx context.Context, alert rules.Alert) error {
	if c.fail != nil {
		return c.fail
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delivered = append(c.delivered, alert)
	return nil
}

func testAlerts() []rules.Alert {
	ts := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	return []rules.Alert{
		{Kind: rules.AlertLowStock, ItemName: "Milk", Reason: "Only 3 left in stock.", Timestamp: ts},
		{Kind: rules.AlertExpiringSoon, ItemName: "Yogurt", Reason: "Expires on 2026-03-16.", Timestamp: ts},
	}
}

func TestDispatchDeliversEveryAlertOnEveryChannel(t *testing.T) {
	sms := &stubChannel{name: "sms"}
	email := &stubChannel{name: "email"}
	d := NewDispatcher(sms, email)

	report := d.Dispatch(context.Background(), testAlerts())

	assert.Equal(t, 4, report.Attempted)
	assert.Equal(t, 4, report.Delivered)
	assert.Equal(t, 0, report.Failed)
	assert.Len(t, sms.delivered, 2)
	assert.Len(t, email.delivered, 2)
}

func TestDispatchResultsAreOrderedByAlertThenChannel(t *testing.T) {
	sms := &stubChannel{name: "sms"}
	email := &stubChannel{name: "email"}
	d := NewDispatcher(sms, email)

	report := d.Dispatch(context.Background(), testAlerts())

	require.Len(t, report.Results, 4)
	assert.Equal(t, "sms", report.Results[0].Channel)
	assert.Equal(t, "Milk", report.Results[0].ItemName)
	assert.Equal(t, "email", report.Results[1].Channel)
	assert.Equal(t, "Milk", report.Results[1].ItemName)
	assert.Equal(t, "sms", report.Results[2].Channel)
	assert.Equal(t, "Yogurt", report.Results[2].ItemName)
	assert.Equal(t, "email", report.Results[3].Channel)
	assert.Equal(t, "Yogurt", report.Results[3].ItemName)
}

func TestDispatchFailedChannelDoesNotAffectOthers(t *testing.T) {
	sms := &stubChannel{name: "sms", fail: errors.New("twilio unreachable")}
	email := &stubChannel{name: "email"}
	d := NewDispatcher(sms, email)

	report := d.Dispatch(context.Background(), testAlerts())

	assert.Equal(t, 4, report.Attempted)
	assert.Equal(t, 2, report.Delivered)
	assert.Equal(t, 2, report.Failed)
	assert.Len(t, email.delivered, 2, "email must deliver despite sms failing")

	for _, res := range report.Results {
		if res.Channel == "sms" {
			assert.False(t, res.Delivered)
			assert.Contains(t, res.Error, "twilio unreachable")
		} else {
			assert.True(t, res.Delivered)
			assert.Empty(t, res.Error)
		}
	}
}

func TestDispatchWithNoChannels(t *testing.T) {
	d := NewDispatcher()

	report := d.Dispatch(context.Background(), testAlerts())

	assert.Equal(t, 0, report.Attempted)
	assert.Equal(t, 0, report.Delivered)
	assert.Equal(t, 0, report.Failed)
	assert.Empty(t, report.Results)
}

func TestDispatchWithNoAlerts(t *testing.T) {
	sms := &stubChannel{name: "sms"}
	d := NewDispatcher(sms)

	report := d.Dispatch(context.Background(), nil)

	assert.Equal(t, 0, report.Attempted)
	assert.Empty(t, sms.delivered)
}

func TestDispatchErrorNamesChannel(t *testing.T) {
	underlying := errors.New("connection refused")
	err := &DispatchError{Channel: "email", Err: underlying}

	assert.Contains(t, err.Error(), "email")
	assert.ErrorIs(t, err, underlying)
}

func TestTwilioChannelRequiresFullConfig(t *testing.T) {
	_, err := NewTwilioChannel(TwilioConfig{AccountSID: "AC123"})

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "sms", cfgErr.Channel)
	assert.Contains(t, cfgErr.Missing, "TWILIO_AUTH_TOKEN")
	assert.Contains(t, cfgErr.Missing, "TWILIO_PHONE_NUMBER")
	assert.Contains(t, cfgErr.Missing, "ALERT_RECIPIENT_NUMBER")
	assert.NotContains(t, cfgErr.Missing, "TWILIO_ACCOUNT_SID")
}

func TestSendGridChannelRequiresFullConfig(t *testing.T) {
	_, err := NewSendGridChannel(SendGridConfig{From: "alerts@example.com"})

	var cfgErr *ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "email", cfgErr.Channel)
	assert.Contains(t, cfgErr.Missing, "SENDGRID_API_KEY")
}

func TestMessageBodyNamesKindItemAndReason(t *testing.T) {
	alert := rules.Alert{
		Kind:      rules.AlertLowStock,
		ItemName:  "Milk",
		Reason:    "Only 3 left in stock.",
		Timestamp: time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}

	body := messageBody(alert)
	assert.Contains(t, body, "Low Stock")
	assert.Contains(t, body, "Milk")
	assert.Contains(t, body, "Only 3 left in stock.")
}
