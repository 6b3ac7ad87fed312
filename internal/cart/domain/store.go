package domain

import (
	"context"
	"errors"
)

var ErrCartNotFound = errors.New("cart not found")

// CartStore persists carts between requests. Implementations must round-trip
// the line-item list exactly.
type CartStore interface {
	// Load returns the cart for cartID, or ErrCartNotFound.
	Load(ctx context.Context, cartID string) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	Delete(ctx context.Context, cartID string) error
}
