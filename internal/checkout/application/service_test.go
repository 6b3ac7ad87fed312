package application

import (
	"context"
	"testing"

	cartapp "github.com/floresya/floresya/internal/cart/application"
	cartdomain "github.com/floresya/floresya/internal/cart/domain"
	"github.com/floresya/floresya/internal/checkout/domain"
	orderapp "github.com/floresya/floresya/internal/order/application"
	orderdomain "github.com/floresya/floresya/internal/order/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MockCarts serves one cart per id and records Clear calls.
type MockCarts struct {
	carts   map[string]*cartdomain.Cart
	cleared []string
}

func NewMockCarts() *MockCarts {
	return &MockCarts{carts: make(map[string]*cartdomain.Cart)}
}

func (m *MockCarts) Get(_ context.Context, cartID string) (*cartdomain.Cart, error) {
	cart, ok := m.carts[cartID]
	if !ok {
		return cartdomain.NewCart(cartID), nil
	}
	return cart, nil
}

func (m *MockCarts) Price(_ context.Context, cart *cartdomain.Cart) *cartapp.Totals {
	rate := dec("36.5")
	subtotal := cart.Subtotal()
	total := cart.TotalUSD(dec("7.00"))
	shipping := decimal.Zero
	if subtotal.IsPositive() {
		shipping = dec("7.00")
	}
	return &cartapp.Totals{
		Subtotal:    subtotal,
		ShippingUSD: shipping,
		TotalUSD:    total,
		TotalVES:    total.Mul(rate),
		Rate:        rate,
		ItemCount:   cart.ItemCount(),
	}
}

func (m *MockCarts) Clear(_ context.Context, cartID string) (*cartdomain.Cart, error) {
	m.cleared = append(m.cleared, cartID)
	cart := cartdomain.NewCart(cartID)
	m.carts[cartID] = cart
	return cart, nil
}

// MockOrders captures the create command.
type MockOrders struct {
	created *orderapp.CreateOrderCommand
}

func (m *MockOrders) Create(_ context.Context, cmd orderapp.CreateOrderCommand) (*orderdomain.Order, error) {
	m.created = &cmd
	return &orderdomain.Order{
		OrderNumber:   "FY-TEST1234",
		Status:        orderdomain.OrderStatusPending,
		GuestCheckout: cmd.GuestCheckout,
		UserID:        cmd.UserID,
		TotalUSD:      cmd.TotalUSD,
	}, nil
}

// MockSessions is an in-memory consume-once session store.
type MockSessions struct {
	sessions map[string]domain.GuestCheckoutInfo
}

func NewMockSessions() *MockSessions {
	return &MockSessions{sessions: make(map[string]domain.GuestCheckoutInfo)}
}

func (m *MockSessions) Save(_ context.Context, sessionID string, info domain.GuestCheckoutInfo) error {
	m.sessions[sessionID] = info
	return nil
}

func (m *MockSessions) Consume(_ context.Context, sessionID string) (*domain.GuestCheckoutInfo, error) {
	info, ok := m.sessions[sessionID]
	if !ok {
		return nil, domain.ErrGuestSessionNotFound
	}
	delete(m.sessions, sessionID)
	return &info, nil
}

func filledCart(id string) *cartdomain.Cart {
	cart := cartdomain.NewCart(id)
	cart.AddItem(cartdomain.LineItem{ProductID: 1, Name: "Rosas Rojas", UnitPrice: dec("25.00"), Quantity: 2})
	cart.AddItem(cartdomain.LineItem{ProductID: 2, Name: "Girasoles", UnitPrice: dec("18.00"), Quantity: 1})
	return cart
}

func validContact() domain.GuestCheckoutInfo {
	return domain.GuestCheckoutInfo{
		Name:    "Maria Perez",
		Phone:   "0414-1234567",
		Email:   "maria@example.com",
		Address: "Av. Libertador, Caracas",
	}
}

func newTestService() (*CheckoutService, *MockCarts, *MockOrders, *MockSessions) {
	carts := NewMockCarts()
	orders := &MockOrders{}
	sessions := NewMockSessions()
	svc := NewCheckoutService(carts, orders, sessions, "/payment")
	return svc, carts, orders, sessions
}

func TestBegin_EmptyCart(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Begin(context.Background(), "c1", nil)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestBegin_AuthenticatedRedirectsToPayment(t *testing.T) {
	svc, carts, _, _ := newTestService()
	carts.carts["c1"] = filledCart("c1")

	userID := uint(7)
	result, err := svc.Begin(context.Background(), "c1", &userID)

	require.NoError(t, err)
	assert.Equal(t, ModeAuthenticated, result.Mode)
	assert.Equal(t, "/payment?floresya=true", result.RedirectURL)
}

func TestBegin_GuestNeedsContactFirst(t *testing.T) {
	svc, carts, _, _ := newTestService()
	carts.carts["c1"] = filledCart("c1")

	result, err := svc.Begin(context.Background(), "c1", nil)

	require.NoError(t, err)
	assert.Equal(t, ModeGuest, result.Mode)
	assert.Empty(t, result.RedirectURL)
}

func TestSubmitGuestInfo_StoresSessionAndRedirects(t *testing.T) {
	svc, carts, _, sessions := newTestService()
	carts.carts["c1"] = filledCart("c1")

	result, err := svc.SubmitGuestInfo(context.Background(), "c1", validContact())

	require.NoError(t, err)
	assert.Equal(t, ModeGuest, result.Mode)
	assert.Equal(t, "/payment?floresya=true&guest=true", result.RedirectURL)
	assert.Contains(t, sessions.sessions, "c1")
}

func TestSubmitGuestInfo_MissingField(t *testing.T) {
	svc, carts, _, _ := newTestService()
	carts.carts["c1"] = filledCart("c1")

	contact := validContact()
	contact.Phone = ""

	_, err := svc.SubmitGuestInfo(context.Background(), "c1", contact)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
}

func TestComplete_GuestConsumesSession(t *testing.T) {
	svc, carts, orders, sessions := newTestService()
	carts.carts["c1"] = filledCart("c1")
	require.NoError(t, sessions.Save(context.Background(), "c1", validContact()))

	order, err := svc.Complete(context.Background(), CompleteCommand{CartID: "c1"})

	require.NoError(t, err)
	assert.True(t, order.GuestCheckout)
	assert.Nil(t, order.UserID)
	assert.Equal(t, "Maria Perez", orders.created.CustomerName)
	assert.True(t, dec("75.00").Equal(orders.created.TotalUSD))
	require.Len(t, orders.created.Items, 2)

	// Session is spent and the cart is cleared.
	assert.NotContains(t, sessions.sessions, "c1")
	assert.Equal(t, []string{"c1"}, carts.cleared)
}

func TestComplete_GuestWithoutSession(t *testing.T) {
	svc, carts, _, _ := newTestService()
	carts.carts["c1"] = filledCart("c1")

	_, err := svc.Complete(context.Background(), CompleteCommand{CartID: "c1"})
	assert.ErrorIs(t, err, domain.ErrGuestSessionNotFound)
}

func TestComplete_SessionIsConsumeOnce(t *testing.T) {
	svc, carts, _, sessions := newTestService()
	carts.carts["c1"] = filledCart("c1")
	require.NoError(t, sessions.Save(context.Background(), "c1", validContact()))

	_, err := svc.Complete(context.Background(), CompleteCommand{CartID: "c1"})
	require.NoError(t, err)

	// Refill the cart; the spent session must not be reusable.
	carts.carts["c1"] = filledCart("c1")
	_, err = svc.Complete(context.Background(), CompleteCommand{CartID: "c1"})
	assert.ErrorIs(t, err, domain.ErrGuestSessionNotFound)
}

func TestComplete_AuthenticatedUsesProvidedContact(t *testing.T) {
	svc, carts, orders, _ := newTestService()
	carts.carts["c1"] = filledCart("c1")

	userID := uint(7)
	contact := validContact()
	order, err := svc.Complete(context.Background(), CompleteCommand{
		CartID:  "c1",
		UserID:  &userID,
		Contact: &contact,
	})

	require.NoError(t, err)
	assert.False(t, order.GuestCheckout)
	require.NotNil(t, orders.created.UserID)
	assert.Equal(t, uint(7), *orders.created.UserID)
}

func TestComplete_AuthenticatedRequiresContact(t *testing.T) {
	svc, carts, _, _ := newTestService()
	carts.carts["c1"] = filledCart("c1")

	userID := uint(7)
	_, err := svc.Complete(context.Background(), CompleteCommand{CartID: "c1", UserID: &userID})
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
}

func TestComplete_EmptyCart(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.Complete(context.Background(), CompleteCommand{CartID: "empty"})
	assert.ErrorIs(t, err, ErrEmptyCart)
}
