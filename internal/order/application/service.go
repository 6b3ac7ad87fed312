package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/floresya/floresya/internal/order/domain"
	"github.com/floresya/floresya/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrEmptyOrder = errors.New("order must contain at least one item")

// OrderService creates orders from checkout snapshots and drives the
// fulfillment status machine.
type OrderService struct {
	repo      domain.OrderRepository
	publisher domain.EventPublisher
}

func NewOrderService(repo domain.OrderRepository, publisher domain.EventPublisher) *OrderService {
	return &OrderService{repo: repo, publisher: publisher}
}

// ItemSnapshot is a cart line item frozen into the order.
type ItemSnapshot struct {
	ProductID uint
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	ImageURL  string
}

// CreateOrderCommand carries everything checkout has collected.
type CreateOrderCommand struct {
	UserID          *uint
	GuestCheckout   bool
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	DeliveryAddress string
	Items           []ItemSnapshot
	SubtotalUSD     decimal.Decimal
	ShippingUSD     decimal.Decimal
	TotalUSD        decimal.Decimal
	TotalVES        decimal.Decimal
	ExchangeRate    decimal.Decimal
}

// Create persists a new pending order and publishes order.created.
func (s *OrderService) Create(ctx context.Context, cmd CreateOrderCommand) (*domain.Order, error) {
	if len(cmd.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if cmd.CustomerName == "" || cmd.DeliveryAddress == "" {
		return nil, fmt.Errorf("customer name and delivery address are required")
	}

	order := &domain.Order{
		OrderNumber:     newOrderNumber(),
		UserID:          cmd.UserID,
		GuestCheckout:   cmd.GuestCheckout,
		CustomerName:    cmd.CustomerName,
		CustomerEmail:   cmd.CustomerEmail,
		CustomerPhone:   cmd.CustomerPhone,
		DeliveryAddress: cmd.DeliveryAddress,
		SubtotalUSD:     cmd.SubtotalUSD,
		ShippingUSD:     cmd.ShippingUSD,
		TotalUSD:        cmd.TotalUSD,
		TotalVES:        cmd.TotalVES,
		ExchangeRate:    cmd.ExchangeRate,
		Status:          domain.OrderStatusPending,
	}
	for _, item := range cmd.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ProductID:    item.ProductID,
			ProductName:  item.Name,
			UnitPriceUSD: item.UnitPrice,
			Quantity:     item.Quantity,
			ImageURL:     item.ImageURL,
		})
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.publish(ctx, domain.OrderEvent{
		Type:          domain.EventOrderCreated,
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		NewStatus:     order.Status,
		TotalUSD:      order.TotalUSD.StringFixed(2),
		OccurredOn:    time.Now(),
	})

	logger.Info(ctx, "Order created",
		"order_number", order.OrderNumber,
		"total_usd", order.TotalUSD.StringFixed(2),
		"guest", order.GuestCheckout,
	)
	return order, nil
}

// Get returns an order by its public number.
func (s *OrderService) Get(ctx context.Context, orderNumber string) (*domain.Order, error) {
	return s.repo.GetByNumber(ctx, orderNumber)
}

// ListByUser returns a user's order history.
func (s *OrderService) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*domain.Order, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// List returns orders for the admin panel.
func (s *OrderService) List(ctx context.Context, filter domain.OrderFilter) ([]*domain.Order, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.repo.List(ctx, filter)
}

// UpdateStatus applies a validated status transition and publishes the change.
func (s *OrderService) UpdateStatus(ctx context.Context, orderNumber string, next domain.OrderStatus) (*domain.Order, error) {
	order, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}

	oldStatus := order.Status
	if err := order.Transition(next); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	s.publish(ctx, domain.OrderEvent{
		Type:          domain.EventOrderStatusChanged,
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		OldStatus:     oldStatus,
		NewStatus:     next,
		OccurredOn:    time.Now(),
	})

	logger.Info(ctx, "Order status updated",
		"order_number", orderNumber,
		"old_status", oldStatus,
		"new_status", next,
	)
	return order, nil
}

// RegisterPaymentCommand is a customer-reported payment.
type RegisterPaymentCommand struct {
	OrderNumber     string
	Method          domain.PaymentMethod
	ReferenceNumber string
	AmountUSD       decimal.Decimal
	AmountVES       decimal.Decimal
}

// RegisterPayment attaches a pending payment report to an order.
func (s *OrderService) RegisterPayment(ctx context.Context, cmd RegisterPaymentCommand) (*domain.Payment, error) {
	order, err := s.repo.GetByNumber(ctx, cmd.OrderNumber)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		OrderID:         order.ID,
		Method:          cmd.Method,
		ReferenceNumber: cmd.ReferenceNumber,
		AmountUSD:       cmd.AmountUSD,
		AmountVES:       cmd.AmountVES,
		Status:          domain.PaymentStatusPending,
	}
	if err := s.repo.SavePayment(ctx, payment); err != nil {
		return nil, fmt.Errorf("failed to save payment: %w", err)
	}

	logger.Info(ctx, "Payment registered",
		"order_number", cmd.OrderNumber,
		"method", cmd.Method,
		"reference", cmd.ReferenceNumber,
	)
	return payment, nil
}

// ConfirmPayment marks a payment confirmed and, when the order is still
// pending, advances it to verified.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderNumber string, paymentID uint) (*domain.Order, error) {
	order, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	payment, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.OrderID != order.ID {
		return nil, domain.ErrPaymentNotFound
	}

	payment.Status = domain.PaymentStatusConfirmed
	oldStatus := order.Status
	if order.Status == domain.OrderStatusPending {
		if err := order.Transition(domain.OrderStatusVerified); err != nil {
			return nil, err
		}
	}

	// Payment confirmation and the order status it implies land together.
	if err := s.repo.SaveWithPayment(ctx, order, payment); err != nil {
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}

	if order.Status != oldStatus {
		s.publish(ctx, domain.OrderEvent{
			Type:          domain.EventOrderStatusChanged,
			OrderNumber:   order.OrderNumber,
			CustomerName:  order.CustomerName,
			CustomerEmail: order.CustomerEmail,
			OldStatus:     oldStatus,
			NewStatus:     order.Status,
			OccurredOn:    time.Now(),
		})
	}

	s.publish(ctx, domain.OrderEvent{
		Type:          domain.EventPaymentConfirmed,
		OrderNumber:   order.OrderNumber,
		CustomerName:  order.CustomerName,
		CustomerEmail: order.CustomerEmail,
		NewStatus:     order.Status,
		OccurredOn:    time.Now(),
	})

	logger.Info(ctx, "Payment confirmed",
		"order_number", order.OrderNumber,
		"payment_id", payment.ID,
	)
	return order, nil
}

// RejectPayment marks a payment rejected; the order stays in its current
// status for the customer to retry.
func (s *OrderService) RejectPayment(ctx context.Context, orderNumber string, paymentID uint) error {
	order, err := s.repo.GetByNumber(ctx, orderNumber)
	if err != nil {
		return err
	}
	payment, err := s.repo.GetPayment(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.OrderID != order.ID {
		return domain.ErrPaymentNotFound
	}

	payment.Status = domain.PaymentStatusRejected
	return s.repo.SavePayment(ctx, payment)
}

func (s *OrderService) publish(ctx context.Context, event domain.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(event); err != nil {
		logger.Warn(ctx, "Failed to publish order event",
			"type", event.Type,
			"order_number", event.OrderNumber,
			"error", err,
		)
	}
}

func newOrderNumber() string {
	return "FY-" + strings.ToUpper(uuid.New().String()[:8])
}
