package application

import (
	"context"
	"errors"
	"fmt"

	cartapp "github.com/floresya/floresya/internal/cart/application"
	cartdomain "github.com/floresya/floresya/internal/cart/domain"
	"github.com/floresya/floresya/internal/checkout/domain"
	orderapp "github.com/floresya/floresya/internal/order/application"
	orderdomain "github.com/floresya/floresya/internal/order/domain"
	"github.com/floresya/floresya/pkg/logger"
)

var ErrEmptyCart = errors.New("cart is empty, nothing to checkout")

// CheckoutMode names the two paths out of Begin.
type CheckoutMode string

const (
	ModeAuthenticated CheckoutMode = "authenticated"
	ModeGuest         CheckoutMode = "guest"
)

// BeginResult tells the client which path it is on and where to go next.
type BeginResult struct {
	Mode CheckoutMode `json:"mode"`
	// RedirectURL is empty for guest mode until the contact form is submitted.
	RedirectURL string `json:"redirect_url,omitempty"`
}

// Carts is the slice of the cart service checkout needs.
type Carts interface {
	Get(ctx context.Context, cartID string) (*cartdomain.Cart, error)
	Price(ctx context.Context, cart *cartdomain.Cart) *cartapp.Totals
	Clear(ctx context.Context, cartID string) (*cartdomain.Cart, error)
}

// Orders is the slice of the order service checkout needs.
type Orders interface {
	Create(ctx context.Context, cmd orderapp.CreateOrderCommand) (*orderdomain.Order, error)
}

// CheckoutService dispatches between guest quick checkout and authenticated
// checkout, then turns the cart into an order.
type CheckoutService struct {
	carts          Carts
	orders         Orders
	sessions       domain.GuestSessionStore
	paymentPageURL string
}

func NewCheckoutService(carts Carts, orders Orders, sessions domain.GuestSessionStore, paymentPageURL string) *CheckoutService {
	return &CheckoutService{
		carts:          carts,
		orders:         orders,
		sessions:       sessions,
		paymentPageURL: paymentPageURL,
	}
}

// Begin starts a checkout. An authenticated caller goes straight to the
// payment page; a guest must submit contact details first.
func (s *CheckoutService) Begin(ctx context.Context, cartID string, userID *uint) (*BeginResult, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	if userID != nil {
		return &BeginResult{
			Mode:        ModeAuthenticated,
			RedirectURL: s.paymentPageURL + "?floresya=true",
		}, nil
	}
	return &BeginResult{Mode: ModeGuest}, nil
}

// SubmitGuestInfo validates and stores the guest contact payload, keyed by
// cart id, and hands back the payment redirect with the guest flags.
func (s *CheckoutService) SubmitGuestInfo(ctx context.Context, cartID string, info domain.GuestCheckoutInfo) (*BeginResult, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	if err := s.sessions.Save(ctx, cartID, info); err != nil {
		return nil, fmt.Errorf("failed to save guest session: %w", err)
	}

	logger.Info(ctx, "Guest checkout info collected", "cart_id", cartID)
	return &BeginResult{
		Mode:        ModeGuest,
		RedirectURL: s.paymentPageURL + "?floresya=true&guest=true",
	}, nil
}

// CompleteCommand finalizes a checkout into an order.
type CompleteCommand struct {
	CartID string
	UserID *uint
	// Contact for the authenticated path; the guest path consumes the stored
	// session instead.
	Contact *domain.GuestCheckoutInfo
}

// Complete snapshots the cart into a pending order, clears the cart and
// returns the order. Guest sessions are consumed here; a missing session
// means the contact form was never submitted.
func (s *CheckoutService) Complete(ctx context.Context, cmd CompleteCommand) (*orderdomain.Order, error) {
	cart, err := s.carts.Get(ctx, cmd.CartID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	guest := cmd.UserID == nil
	var contact domain.GuestCheckoutInfo
	if guest {
		stored, err := s.sessions.Consume(ctx, cmd.CartID)
		if err != nil {
			return nil, err
		}
		contact = *stored
	} else {
		if cmd.Contact == nil {
			return nil, domain.ErrMissingRequiredField
		}
		contact = *cmd.Contact
		if err := contact.Validate(); err != nil {
			return nil, err
		}
	}

	totals := s.carts.Price(ctx, cart)

	createCmd := orderapp.CreateOrderCommand{
		UserID:          cmd.UserID,
		GuestCheckout:   guest,
		CustomerName:    contact.Name,
		CustomerEmail:   contact.Email,
		CustomerPhone:   contact.Phone,
		DeliveryAddress: contact.Address,
		SubtotalUSD:     totals.Subtotal,
		ShippingUSD:     totals.ShippingUSD,
		TotalUSD:        totals.TotalUSD,
		TotalVES:        totals.TotalVES,
		ExchangeRate:    totals.Rate,
	}
	for _, item := range cart.Items {
		createCmd.Items = append(createCmd.Items, orderapp.ItemSnapshot{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
		})
	}

	order, err := s.orders.Create(ctx, createCmd)
	if err != nil {
		return nil, err
	}

	// The cart is spent once the order exists. A failed clear leaves a
	// harmless stale cart behind, so only log it.
	if _, err := s.carts.Clear(ctx, cmd.CartID); err != nil {
		logger.Warn(ctx, "Failed to clear cart after checkout",
			"cart_id", cmd.CartID,
			"order_number", order.OrderNumber,
			"error", err,
		)
	}

	logger.Info(ctx, "Checkout completed",
		"cart_id", cmd.CartID,
		"order_number", order.OrderNumber,
		"guest", guest,
	)
	return order, nil
}
