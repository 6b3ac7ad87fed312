package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/floresya/floresya/internal/cart/domain"
	"github.com/floresya/floresya/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	// ErrProductNotFound aborts an AddItem whose product does not exist or is
	// no longer sold.
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidQuantity = errors.New("quantity must be positive")
)

// ProductInfo is the slice of the catalog a cart needs.
type ProductInfo struct {
	ID       uint
	Name     string
	PriceUSD decimal.Decimal
	ImageURL string
	Active   bool
}

// ProductProvider looks up products for AddItem.
type ProductProvider interface {
	GetProduct(ctx context.Context, id uint) (*ProductInfo, error)
}

// RateProvider supplies the USD to VES rate. It never fails; it falls back to
// a configured constant instead.
type RateProvider interface {
	ExchangeRate(ctx context.Context) decimal.Decimal
}

// ChangeListener is notified synchronously after every cart mutation, in
// registration order.
type ChangeListener func(cart *domain.Cart)

// Totals is the priced view of a cart.
type Totals struct {
	Subtotal    decimal.Decimal `json:"subtotal_usd"`
	ShippingUSD decimal.Decimal `json:"shipping_usd"`
	TotalUSD    decimal.Decimal `json:"total_usd"`
	TotalVES    decimal.Decimal `json:"total_ves"`
	Rate        decimal.Decimal `json:"exchange_rate"`
	ItemCount   int             `json:"item_count"`
}

// CartService coordinates cart mutations, persistence and pricing.
type CartService struct {
	store       domain.CartStore
	products    ProductProvider
	rates       RateProvider
	shippingFee decimal.Decimal
	listeners   []ChangeListener
}

func NewCartService(store domain.CartStore, products ProductProvider, rates RateProvider, shippingFee decimal.Decimal) *CartService {
	return &CartService{
		store:       store,
		products:    products,
		rates:       rates,
		shippingFee: shippingFee,
	}
}

// OnChange registers a listener invoked after each mutation. Listeners run
// synchronously in registration order.
func (s *CartService) OnChange(listener ChangeListener) {
	s.listeners = append(s.listeners, listener)
}

func (s *CartService) notify(cart *domain.Cart) {
	for _, listener := range s.listeners {
		listener(cart)
	}
}

// Get loads the cart, returning an empty one when none is stored yet.
func (s *CartService) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.store.Load(ctx, cartID)
	if errors.Is(err, domain.ErrCartNotFound) {
		return domain.NewCart(cartID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	return cart, nil
}

// AddItem looks the product up, merges it into the cart and persists the
// result. A missing product aborts this operation only; the stored cart is
// left untouched.
func (s *CartService) AddItem(ctx context.Context, cartID string, productID uint, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, ErrProductNotFound
	}

	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	cart.AddItem(domain.LineItem{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.PriceUSD,
		Quantity:  quantity,
		ImageURL:  product.ImageURL,
	})

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}
	s.notify(cart)
	return cart, nil
}

// RemoveItem deletes the line item; removing an absent product is a logged
// no-op.
func (s *CartService) RemoveItem(ctx context.Context, cartID string, productID uint) (*domain.Cart, error) {
	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if !cart.RemoveItem(productID) {
		logger.Warn(ctx, "Attempted to remove a product not in the cart",
			"cart_id", cartID,
			"product_id", productID,
		)
		return cart, nil
	}

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}
	s.notify(cart)
	return cart, nil
}

// UpdateQuantity sets the quantity when positive and delegates to RemoveItem
// otherwise.
func (s *CartService) UpdateQuantity(ctx context.Context, cartID string, productID uint, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, cartID, productID)
	}

	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	if !cart.SetQuantity(productID, quantity) {
		logger.Warn(ctx, "Attempted to update a product not in the cart",
			"cart_id", cartID,
			"product_id", productID,
		)
		return cart, nil
	}

	if err := s.store.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}
	s.notify(cart)
	return cart, nil
}

// Clear empties the cart and persists it.
func (s *CartService) Clear(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	cart.Clear()
	if err := s.store.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("failed to persist cart: %w", err)
	}
	s.notify(cart)
	return cart, nil
}

// Totals prices the cart in USD and VES using the current exchange rate.
func (s *CartService) Totals(ctx context.Context, cartID string) (*Totals, error) {
	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return s.price(ctx, cart), nil
}

// Price computes totals for an already-loaded cart.
func (s *CartService) Price(ctx context.Context, cart *domain.Cart) *Totals {
	return s.price(ctx, cart)
}

func (s *CartService) price(ctx context.Context, cart *domain.Cart) *Totals {
	rate := s.rates.ExchangeRate(ctx)
	subtotal := cart.Subtotal()
	totalUSD := cart.TotalUSD(s.shippingFee)

	shipping := decimal.Zero
	if subtotal.IsPositive() {
		shipping = s.shippingFee
	}

	return &Totals{
		Subtotal:    subtotal,
		ShippingUSD: shipping,
		TotalUSD:    totalUSD,
		TotalVES:    totalUSD.Mul(rate),
		Rate:        rate,
		ItemCount:   cart.ItemCount(),
	}
}
