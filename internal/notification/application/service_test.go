package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/floresya/floresya/internal/notification/domain"
	orderdomain "github.com/floresya/floresya/internal/order/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockNotificationRepository records saved notifications.
type MockNotificationRepository struct {
	saved []*domain.Notification
}

func (m *MockNotificationRepository) Save(_ context.Context, n *domain.Notification) error {
	m.saved = append(m.saved, n)
	return nil
}

func (m *MockNotificationRepository) ListByOrder(_ context.Context, orderNumber string) ([]*domain.Notification, error) {
	var list []*domain.Notification
	for _, n := range m.saved {
		if n.OrderNumber == orderNumber {
			list = append(list, n)
		}
	}
	return list, nil
}

// MockSender can be told to fail.
type MockSender struct {
	err  error
	sent []*domain.Notification
}

func (m *MockSender) Send(_ context.Context, n *domain.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, n)
	return nil
}

func orderCreatedEvent() orderdomain.OrderEvent {
	return orderdomain.OrderEvent{
		Type:          orderdomain.EventOrderCreated,
		OrderNumber:   "FY-TEST1234",
		CustomerName:  "Maria Perez",
		CustomerEmail: "maria@example.com",
		NewStatus:     orderdomain.OrderStatusPending,
		TotalUSD:      "75.00",
		OccurredOn:    time.Now(),
	}
}

func TestHandleOrderEvent_OrderCreated(t *testing.T) {
	repo := &MockNotificationRepository{}
	sender := &MockSender{}
	svc := NewNotificationService(repo, sender, nil)

	err := svc.HandleOrderEvent(context.Background(), orderCreatedEvent())

	require.NoError(t, err)
	require.Len(t, repo.saved, 1)
	n := repo.saved[0]
	assert.Equal(t, "FY-TEST1234", n.OrderNumber)
	assert.Equal(t, "maria@example.com", n.Recipient)
	assert.True(t, n.Sent)
	assert.Contains(t, n.Subject, "FY-TEST1234")
	assert.Contains(t, n.Body, "75.00")
}

func TestHandleOrderEvent_StatusChanged(t *testing.T) {
	repo := &MockNotificationRepository{}
	svc := NewNotificationService(repo, &MockSender{}, nil)

	event := orderdomain.OrderEvent{
		Type:          orderdomain.EventOrderStatusChanged,
		OrderNumber:   "FY-TEST1234",
		CustomerName:  "Maria Perez",
		CustomerEmail: "maria@example.com",
		OldStatus:     orderdomain.OrderStatusVerified,
		NewStatus:     orderdomain.OrderStatusPreparing,
	}

	require.NoError(t, svc.HandleOrderEvent(context.Background(), event))
	require.Len(t, repo.saved, 1)
	assert.Contains(t, repo.saved[0].Body, string(orderdomain.OrderStatusPreparing))
}

func TestHandleOrderEvent_UnknownTypeIgnored(t *testing.T) {
	repo := &MockNotificationRepository{}
	svc := NewNotificationService(repo, &MockSender{}, nil)

	event := orderdomain.OrderEvent{Type: "order.something_else", OrderNumber: "FY-TEST1234"}

	require.NoError(t, svc.HandleOrderEvent(context.Background(), event))
	assert.Empty(t, repo.saved)
}

func TestHandleOrderEvent_SendFailureStillRecorded(t *testing.T) {
	repo := &MockNotificationRepository{}
	sender := &MockSender{err: errors.New("smtp down")}
	svc := NewNotificationService(repo, sender, nil)

	require.NoError(t, svc.HandleOrderEvent(context.Background(), orderCreatedEvent()))

	require.Len(t, repo.saved, 1)
	assert.False(t, repo.saved[0].Sent)
}
