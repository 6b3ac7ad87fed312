package domain

import "time"

// Event types published on the order stream.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventPaymentConfirmed   = "order.payment_confirmed"
)

// OrderEvent is the envelope published to Kafka for every order change.
type OrderEvent struct {
	Type          string      `json:"type"`
	OrderNumber   string      `json:"order_number"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	OldStatus     OrderStatus `json:"old_status,omitempty"`
	NewStatus     OrderStatus `json:"new_status,omitempty"`
	TotalUSD      string      `json:"total_usd,omitempty"`
	OccurredOn    time.Time   `json:"occurred_on"`
}

// EventPublisher publishes order events. Publish failures must not fail the
// triggering operation; the order is already persisted.
type EventPublisher interface {
	Publish(event OrderEvent) error
}
