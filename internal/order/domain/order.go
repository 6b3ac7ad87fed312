// Package domain holds the order aggregate: line-item snapshot, dual-currency
// totals, delivery details, payments and the fulfillment status machine.
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrIllegalTransition = errors.New("illegal order status transition")
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusVerified  OrderStatus = "verified"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// transitions maps each status to the statuses reachable from it. Cancelled
// is reachable from every non-terminal state.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusVerified, OrderStatusCancelled},
	OrderStatusVerified:  {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:   {OrderStatusDelivered, OrderStatusCancelled},
}

// CanTransitionTo reports whether moving to next is legal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) String() string { return string(s) }

// PaymentMethod is how a customer pays; the store accepts Venezuelan mobile
// transfers alongside USD channels.
type PaymentMethod string

const (
	PaymentMethodPagoMovil PaymentMethod = "pago_movil"
	PaymentMethodZelle     PaymentMethod = "zelle"
	PaymentMethodBinance   PaymentMethod = "binance"
	PaymentMethodCash      PaymentMethod = "cash"
)

// PaymentStatus is the admin-verified state of a payment report.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusRejected  PaymentStatus = "rejected"
)

// Order is a placed order. Line items are a snapshot: later catalog price
// changes never reprice an existing order.
type Order struct {
	gorm.Model
	OrderNumber string `gorm:"column:order_number;type:varchar(36);uniqueIndex;not null" json:"order_number"`
	// Nil for guest orders.
	UserID *uint `gorm:"column:user_id;index" json:"user_id,omitempty"`

	CustomerName    string `gorm:"column:customer_name;type:varchar(255);not null" json:"customer_name"`
	CustomerEmail   string `gorm:"column:customer_email;type:varchar(255)" json:"customer_email"`
	CustomerPhone   string `gorm:"column:customer_phone;type:varchar(50)" json:"customer_phone"`
	DeliveryAddress string `gorm:"column:delivery_address;type:text;not null" json:"delivery_address"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`

	SubtotalUSD  decimal.Decimal `gorm:"column:subtotal_usd;type:decimal(10,2);not null" json:"subtotal_usd"`
	ShippingUSD  decimal.Decimal `gorm:"column:shipping_usd;type:decimal(10,2);not null" json:"shipping_usd"`
	TotalUSD     decimal.Decimal `gorm:"column:total_usd;type:decimal(10,2);not null" json:"total_usd"`
	TotalVES     decimal.Decimal `gorm:"column:total_ves;type:decimal(14,2);not null" json:"total_ves"`
	ExchangeRate decimal.Decimal `gorm:"column:exchange_rate;type:decimal(10,4);not null" json:"exchange_rate"`

	Status OrderStatus `gorm:"column:status;type:varchar(20);index;not null" json:"status"`
	// True when the order was placed through guest quick checkout.
	GuestCheckout bool `gorm:"column:guest_checkout;not null;default:false" json:"guest_checkout"`

	Payments []Payment `gorm:"foreignKey:OrderID" json:"payments,omitempty"`
}

func (Order) TableName() string { return "orders" }

// Transition moves the order to next, rejecting illegal moves.
func (o *Order) Transition(next OrderStatus) error {
	if !o.Status.CanTransitionTo(next) {
		return ErrIllegalTransition
	}
	o.Status = next
	return nil
}

// OrderItem is a snapshotted cart line item.
type OrderItem struct {
	gorm.Model
	OrderID      uint            `gorm:"column:order_id;index;not null" json:"-"`
	ProductID    uint            `gorm:"column:product_id;not null" json:"product_id"`
	ProductName  string          `gorm:"column:product_name;type:varchar(255);not null" json:"name"`
	UnitPriceUSD decimal.Decimal `gorm:"column:unit_price_usd;type:decimal(10,2);not null" json:"price"`
	Quantity     int             `gorm:"column:quantity;not null" json:"quantity"`
	ImageURL     string          `gorm:"column:image_url;type:varchar(512)" json:"image_url,omitempty"`
}

func (OrderItem) TableName() string { return "order_items" }

// Payment is a customer-reported payment pending admin verification.
type Payment struct {
	gorm.Model
	OrderID         uint            `gorm:"column:order_id;index;not null" json:"-"`
	Method          PaymentMethod   `gorm:"column:method;type:varchar(20);not null" json:"method"`
	ReferenceNumber string          `gorm:"column:reference_number;type:varchar(100)" json:"reference_number"`
	AmountUSD       decimal.Decimal `gorm:"column:amount_usd;type:decimal(10,2);not null" json:"amount_usd"`
	AmountVES       decimal.Decimal `gorm:"column:amount_ves;type:decimal(14,2)" json:"amount_ves"`
	Status          PaymentStatus   `gorm:"column:status;type:varchar(20);index;not null" json:"status"`
}

func (Payment) TableName() string { return "payments" }
