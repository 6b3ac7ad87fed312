package domain

import (
	"context"
	"errors"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrOccasionNotFound = errors.New("occasion not found")
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	OccasionSlug string
	OnlyActive   bool
	Search       string
	Limit        int
	Offset       int
}

type ProductRepository interface {
	Get(ctx context.Context, id uint) (*Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*Product, int64, error)
	ListCarousel(ctx context.Context) ([]*Product, error)
	// Save persists the product and, when occasionIDs is non-nil, replaces
	// its occasion links in the same transaction. A nil slice leaves the
	// links untouched.
	Save(ctx context.Context, product *Product, occasionIDs []uint) error
	Delete(ctx context.Context, id uint) error
}

type OccasionRepository interface {
	Get(ctx context.Context, id uint) (*Occasion, error)
	GetBySlug(ctx context.Context, slug string) (*Occasion, error)
	List(ctx context.Context, onlyActive bool) ([]*Occasion, error)
	Save(ctx context.Context, occasion *Occasion) error
	Delete(ctx context.Context, id uint) error
}
