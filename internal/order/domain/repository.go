package domain

import "context"

// OrderFilter narrows admin order listings.
type OrderFilter struct {
	Status OrderStatus
	Limit  int
	Offset int
}

type OrderRepository interface {
	Save(ctx context.Context, order *Order) error
	GetByNumber(ctx context.Context, orderNumber string) (*Order, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*Order, int64, error)
	List(ctx context.Context, filter OrderFilter) ([]*Order, int64, error)
	SavePayment(ctx context.Context, payment *Payment) error
	// SaveWithPayment persists the order and the payment in one
	// transaction so a payment decision and the status it implies can
	// never be written partially.
	SaveWithPayment(ctx context.Context, order *Order, payment *Payment) error
	GetPayment(ctx context.Context, paymentID uint) (*Payment, error)
}
