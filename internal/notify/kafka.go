package notify

import (
	"context"

	"github.com/tair/inventory-monitor/internal/rules"
	"github.com/tair/inventory-monitor/kafka"
)

// KafkaChannel publishes alerts to the inventory-alerts topic instead of
// delivering them directly; the notifier worker consumes the topic and fans
// out to the direct channels.
type KafkaChannel struct {
	publisher *kafka.Publisher
}

func NewKafkaChannel(publisher *kafka.Publisher) *KafkaChannel {
	return &KafkaChannel{publisher: publisher}
}

func (c *KafkaChannel) Name() string {
	return "kafka"
}

func (c *KafkaChannel) Deliver(ctx context.Context, alert rules.Alert) error {
	return c.publisher.PublishStockAlert(ctx, kafka.StockAlertEvent{
		Kind:      string(alert.Kind),
		ItemName:  alert.ItemName,
		Reason:    alert.Reason,
		Timestamp: alert.Timestamp,
	})
}
