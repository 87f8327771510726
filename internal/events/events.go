// Package events publishes order lifecycle events to Kafka.
package events

import "time"

// OrderCreated is emitted after an order has been persisted. Consumers
// must treat it as informational; the order is the source of truth.
type OrderCreated struct {
	EventID    string    `json:"event_id"`
	OrderID    string    `json:"order_id"`
	UserID     string    `json:"user_id"`
	TotalPrice float64   `json:"total_price"`
	OccurredAt time.Time `json:"occurred_at"`
}
