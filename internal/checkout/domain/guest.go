// Package domain holds the checkout types: the guest contact payload and the
// session store it lives in between form submit and payment.
package domain

import (
	"context"
	"errors"
)

var (
	ErrGuestSessionNotFound = errors.New("guest checkout session not found")
	ErrMissingRequiredField = errors.New("missing required checkout field")
)

// GuestCheckoutInfo is the contact payload collected by guest quick checkout.
// It lives for one session and is consumed once by the payment step.
type GuestCheckoutInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

// Validate checks required fields are non-empty. Format validation is left to
// later stages.
func (g GuestCheckoutInfo) Validate() error {
	if g.Name == "" || g.Phone == "" || g.Email == "" || g.Address == "" {
		return ErrMissingRequiredField
	}
	return nil
}

// GuestSessionStore keeps guest checkout payloads for the session lifetime.
type GuestSessionStore interface {
	Save(ctx context.Context, sessionID string, info GuestCheckoutInfo) error
	// Consume returns the payload and removes it, or ErrGuestSessionNotFound.
	Consume(ctx context.Context, sessionID string) (*GuestCheckoutInfo, error)
}
