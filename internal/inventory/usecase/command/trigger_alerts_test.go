package command

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/inventory-monitor/internal/notify"
	"github.com/tair/inventory-monitor/internal/rules"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

type stubSnapshots struct {
	items []rules.Item
	err   error
}

func (s *stubSnapshots) Snapshot(ctx context.Context) ([]rules.Item, error) {
	return s.items, s.err
}

type recordingChannel struct {
	name string
	fail error

	mu        sync.Mutex
	delivered []rules.Alert
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Deliver(ctx context.Context, alert rules.Alert) error {
	if c.fail != nil {
		return c.fail
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delivered = append(c.delivered, alert)
	return nil
}

func healthyItem(id string) rules.Item {
	return rules.Item{
		ID:          id,
		Name:        id,
		Quantity:    50,
		ExpiryDate:  testNow.AddDate(0, 1, 0),
		Price:       decimal.NewFromFloat(2.50),
		DemandScore: 0.5,
	}
}

func lowStockItem(id string) rules.Item {
	item := healthyItem(id)
	item.Quantity = 3
	return item
}

func TestTriggerAlertsDispatchesEveryAlert(t *testing.T) {
	snapshots := &stubSnapshots{items: []rules.Item{lowStockItem("Milk"), healthyItem("Bread")}}
	channel := &recordingChannel{name: "sms"}
	handler := NewTriggerAlertsHandler(snapshots, rules.NewEngine(rules.DefaultConfig()), notify.NewDispatcher(channel))

	result, err := handler.Handle(context.Background(), testNow)
	require.NoError(t, err)

	require.Len(t, result.Alerts, 1)
	assert.Equal(t, rules.AlertLowStock, result.Alerts[0].Kind)

	assert.Equal(t, 1, result.Dispatch.Attempted)
	assert.Equal(t, 1, result.Dispatch.Delivered)
	require.Len(t, channel.delivered, 1)
	assert.Equal(t, "Milk", channel.delivered[0].ItemName)
}

func TestTriggerAlertsDeliveryFailureKeepsAlerts(t *testing.T) {
	snapshots := &stubSnapshots{items: []rules.Item{lowStockItem("Milk")}}
	channel := &recordingChannel{name: "sms", fail: errors.New("gateway down")}
	handler := NewTriggerAlertsHandler(snapshots, rules.NewEngine(rules.DefaultConfig()), notify.NewDispatcher(channel))

	result, err := handler.Handle(context.Background(), testNow)
	require.NoError(t, err, "delivery failures must not fail the command")

	require.Len(t, result.Alerts, 1)
	assert.Equal(t, 1, result.Dispatch.Failed)
	assert.Contains(t, result.Dispatch.Results[0].Error, "gateway down")
}

func TestTriggerAlertsEvaluationErrorAbortsBeforeDispatch(t *testing.T) {
	bad := healthyItem("Milk")
	bad.Quantity = -1
	snapshots := &stubSnapshots{items: []rules.Item{bad}}
	channel := &recordingChannel{name: "sms"}
	handler := NewTriggerAlertsHandler(snapshots, rules.NewEngine(rules.DefaultConfig()), notify.NewDispatcher(channel))

	_, err := handler.Handle(context.Background(), testNow)

	var inputErr *rules.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Empty(t, channel.delivered, "nothing may be dispatched when evaluation fails")
}

func TestTriggerAlertsSnapshotErrorPropagates(t *testing.T) {
	snapshots := &stubSnapshots{err: errors.New("store unavailable")}
	handler := NewTriggerAlertsHandler(snapshots, rules.NewEngine(rules.DefaultConfig()), notify.NewDispatcher())

	_, err := handler.Handle(context.Background(), testNow)
	require.Error(t, err)
}

func TestApplyPricesIsAlwaysSimulated(t *testing.T) {
	overstocked := healthyItem("Rice")
	overstocked.Quantity = 90
	overstocked.Price = decimal.NewFromFloat(10.00)
	snapshots := &stubSnapshots{items: []rules.Item{overstocked}}
	handler := NewApplyPricesHandler(snapshots, rules.NewEngine(rules.DefaultConfig()))

	result, err := handler.Handle(context.Background(), testNow)
	require.NoError(t, err)

	assert.True(t, result.Simulated)
	require.Len(t, result.Applied, 1)
	assert.Equal(t, "8.00", result.Applied[0].SuggestedPrice.StringFixed(2))
	assert.Equal(t, rules.ReasonOverstockDiscount, result.Applied[0].Reason)
}
