package kafka

import "time"

// StockAlertEvent is the wire form of an evaluated alert. Events are fire and
// forget: the monitor publishes one per alert on a trigger pass, and the
// notifier worker fans them out to the direct channels.
type StockAlertEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Kind      string    `json:"kind"`
	ItemName  string    `json:"item_name"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`  // evaluation time
	EmittedAt time.Time `json:"emitted_at"` // publish time
}

// Event types
const (
	EventTypeStockAlert = "inventory.stock_alert"
)

// Kafka topics
const (
	TopicStockAlerts = "inventory-alerts"
)
