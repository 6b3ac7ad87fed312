package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo_HappyPath(t *testing.T) {
	assert.True(t, OrderStatusPending.CanTransitionTo(OrderStatusVerified))
	assert.True(t, OrderStatusVerified.CanTransitionTo(OrderStatusPreparing))
	assert.True(t, OrderStatusPreparing.CanTransitionTo(OrderStatusShipped))
	assert.True(t, OrderStatusShipped.CanTransitionTo(OrderStatusDelivered))
}

func TestCanTransitionTo_NoSkippingStages(t *testing.T) {
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusPreparing))
	assert.False(t, OrderStatusPending.CanTransitionTo(OrderStatusDelivered))
	assert.False(t, OrderStatusVerified.CanTransitionTo(OrderStatusDelivered))
}

func TestCanTransitionTo_NoGoingBack(t *testing.T) {
	assert.False(t, OrderStatusVerified.CanTransitionTo(OrderStatusPending))
	assert.False(t, OrderStatusShipped.CanTransitionTo(OrderStatusPreparing))
}

func TestCanTransitionTo_CancelFromAnyNonTerminal(t *testing.T) {
	for _, status := range []OrderStatus{
		OrderStatusPending,
		OrderStatusVerified,
		OrderStatusPreparing,
		OrderStatusShipped,
	} {
		assert.True(t, status.CanTransitionTo(OrderStatusCancelled), "from %s", status)
	}
}

func TestCanTransitionTo_TerminalStatesAreFinal(t *testing.T) {
	for _, status := range []OrderStatus{OrderStatusDelivered, OrderStatusCancelled} {
		assert.True(t, status.IsTerminal())
		for _, next := range []OrderStatus{
			OrderStatusPending,
			OrderStatusVerified,
			OrderStatusPreparing,
			OrderStatusShipped,
			OrderStatusDelivered,
			OrderStatusCancelled,
		} {
			assert.False(t, status.CanTransitionTo(next), "%s to %s", status, next)
		}
	}
}

func TestTransition(t *testing.T) {
	order := &Order{Status: OrderStatusPending}

	assert.NoError(t, order.Transition(OrderStatusVerified))
	assert.Equal(t, OrderStatusVerified, order.Status)

	err := order.Transition(OrderStatusDelivered)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Equal(t, OrderStatusVerified, order.Status)
}
