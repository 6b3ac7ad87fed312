package messaging

import (
	"github.com/floresya/floresya/internal/order/domain"
	"github.com/floresya/floresya/pkg/metrics"
)

type instrumentedPublisher struct {
	next    domain.EventPublisher
	metrics *metrics.Metrics
}

// NewInstrumentedPublisher counts business events before delegating.
func NewInstrumentedPublisher(next domain.EventPublisher, m *metrics.Metrics) domain.EventPublisher {
	return &instrumentedPublisher{next: next, metrics: m}
}

func (p *instrumentedPublisher) Publish(event domain.OrderEvent) error {
	switch event.Type {
	case domain.EventOrderCreated:
		p.metrics.OrdersTotal.Inc()
	case domain.EventPaymentConfirmed:
		p.metrics.PaymentsConfirmed.Inc()
	}
	return p.next.Publish(event)
}
