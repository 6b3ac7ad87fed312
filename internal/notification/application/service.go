package application

import (
	"context"
	"fmt"

	"github.com/floresya/floresya/internal/notification/domain"
	orderdomain "github.com/floresya/floresya/internal/order/domain"
	"github.com/floresya/floresya/pkg/logger"
	"github.com/floresya/floresya/pkg/metrics"
)

// Sender delivers a composed notification. The log sender is the default;
// an SMTP sender can be plugged in without touching the service.
type Sender interface {
	Send(ctx context.Context, n *domain.Notification) error
}

// LogSender writes the notification to the application log instead of
// delivering it. Used until a mail provider is configured.
type LogSender struct{}

func (LogSender) Send(ctx context.Context, n *domain.Notification) error {
	logger.Info(ctx, "Notification dispatched",
		"order_number", n.OrderNumber,
		"recipient", n.Recipient,
		"subject", n.Subject,
	)
	return nil
}

// NotificationService turns order events into customer notifications and
// records every attempt.
type NotificationService struct {
	repo    domain.NotificationRepository
	sender  Sender
	metrics *metrics.Metrics
}

func NewNotificationService(repo domain.NotificationRepository, sender Sender, m *metrics.Metrics) *NotificationService {
	return &NotificationService{repo: repo, sender: sender, metrics: m}
}

// HandleOrderEvent composes and dispatches the notification for a single
// order event. Unknown event types are ignored.
func (s *NotificationService) HandleOrderEvent(ctx context.Context, event orderdomain.OrderEvent) error {
	var subject, body string
	switch event.Type {
	case orderdomain.EventOrderCreated:
		subject = fmt.Sprintf("Pedido %s recibido", event.OrderNumber)
		body = fmt.Sprintf("Hola %s, recibimos tu pedido %s por $%s. Te avisaremos cuando confirmemos el pago.",
			event.CustomerName, event.OrderNumber, event.TotalUSD)
	case orderdomain.EventPaymentConfirmed:
		subject = fmt.Sprintf("Pago del pedido %s confirmado", event.OrderNumber)
		body = fmt.Sprintf("Hola %s, confirmamos el pago de tu pedido %s. Ya estamos preparando tus flores.",
			event.CustomerName, event.OrderNumber)
	case orderdomain.EventOrderStatusChanged:
		subject = fmt.Sprintf("Pedido %s actualizado", event.OrderNumber)
		body = fmt.Sprintf("Hola %s, tu pedido %s pasó de %s a %s.",
			event.CustomerName, event.OrderNumber, event.OldStatus, event.NewStatus)
	default:
		logger.Warn(ctx, "Ignoring unknown order event type", "type", event.Type)
		return nil
	}

	n := &domain.Notification{
		OrderNumber: event.OrderNumber,
		Recipient:   event.CustomerEmail,
		Channel:     domain.ChannelLog,
		Subject:     subject,
		Body:        body,
	}

	if err := s.sender.Send(ctx, n); err != nil {
		logger.Error(ctx, "Failed to send notification", "order_number", event.OrderNumber, "error", err)
	} else {
		n.Sent = true
		if s.metrics != nil {
			s.metrics.NotificationsSent.Inc()
		}
	}

	if err := s.repo.Save(ctx, n); err != nil {
		return fmt.Errorf("failed to record notification: %w", err)
	}
	return nil
}

// ListByOrder returns the notification history for an order.
func (s *NotificationService) ListByOrder(ctx context.Context, orderNumber string) ([]*domain.Notification, error) {
	return s.repo.ListByOrder(ctx, orderNumber)
}
