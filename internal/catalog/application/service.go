package application

import (
	"context"
	"fmt"
	"time"

	"github.com/floresya/floresya/internal/catalog/domain"
	"github.com/floresya/floresya/pkg/logger"
	"github.com/shopspring/decimal"
)

// ProductCache is the cache-aside layer in front of product reads.
type ProductCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CatalogService exposes storefront product reads and admin catalog writes.
type CatalogService struct {
	products  domain.ProductRepository
	occasions domain.OccasionRepository
	cache     ProductCache
	cacheTTL  time.Duration
}

func NewCatalogService(products domain.ProductRepository, occasions domain.OccasionRepository, cache ProductCache, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		products:  products,
		occasions: occasions,
		cache:     cache,
		cacheTTL:  cacheTTL,
	}
}

func productCacheKey(id uint) string {
	return fmt.Sprintf("floresya:product:%d", id)
}

// GetProduct returns a product by id, serving from cache when possible.
func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*domain.Product, error) {
	if s.cache != nil {
		var cached domain.Product
		if err := s.cache.GetJSON(ctx, productCacheKey(id), &cached); err == nil && cached.ID != 0 {
			return &cached, nil
		}
	}

	product, err := s.products.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, productCacheKey(id), product, s.cacheTTL); err != nil {
			logger.Warn(ctx, "Failed to cache product", "product_id", id, "error", err)
		}
	}
	return product, nil
}

// ListProducts returns a filtered product page and the total match count.
func (s *CatalogService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 20
	}
	return s.products.List(ctx, filter)
}

// ListCarousel returns the featured products in carousel order.
func (s *CatalogService) ListCarousel(ctx context.Context) ([]*domain.Product, error) {
	return s.products.ListCarousel(ctx)
}

// CreateProductCommand carries admin product creation fields.
type CreateProductCommand struct {
	Name          string
	Description   string
	PriceUSD      decimal.Decimal
	ImageURL      string
	Stock         int
	Active        bool
	CarouselOrder int
	OccasionIDs   []uint
}

func (s *CatalogService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (*domain.Product, error) {
	if cmd.Name == "" {
		return nil, fmt.Errorf("product name is required")
	}
	if cmd.PriceUSD.IsNegative() || cmd.PriceUSD.IsZero() {
		return nil, fmt.Errorf("product price must be positive")
	}

	product := &domain.Product{
		Name:          cmd.Name,
		Description:   cmd.Description,
		PriceUSD:      cmd.PriceUSD,
		ImageURL:      cmd.ImageURL,
		Stock:         cmd.Stock,
		Active:        cmd.Active,
		CarouselOrder: cmd.CarouselOrder,
	}
	if err := s.products.Save(ctx, product, cmd.OccasionIDs); err != nil {
		return nil, err
	}
	logger.Info(ctx, "Product created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// UpdateProductCommand carries admin product update fields.
type UpdateProductCommand struct {
	ID            uint
	Name          string
	Description   string
	PriceUSD      decimal.Decimal
	ImageURL      string
	Stock         int
	Active        bool
	CarouselOrder int
	OccasionIDs   []uint
}

func (s *CatalogService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (*domain.Product, error) {
	product, err := s.products.Get(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}

	product.Name = cmd.Name
	product.Description = cmd.Description
	product.PriceUSD = cmd.PriceUSD
	product.ImageURL = cmd.ImageURL
	product.Stock = cmd.Stock
	product.Active = cmd.Active
	product.CarouselOrder = cmd.CarouselOrder

	if err := s.products.Save(ctx, product, cmd.OccasionIDs); err != nil {
		return nil, err
	}
	s.invalidate(ctx, product.ID)
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if _, err := s.products.Get(ctx, id); err != nil {
		return err
	}
	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	logger.Info(ctx, "Product deleted", "product_id", id)
	return nil
}

func (s *CatalogService) invalidate(ctx context.Context, id uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, productCacheKey(id)); err != nil {
		logger.Warn(ctx, "Failed to invalidate product cache", "product_id", id, "error", err)
	}
}

// ListOccasions returns occasions ordered for display.
func (s *CatalogService) ListOccasions(ctx context.Context, onlyActive bool) ([]*domain.Occasion, error) {
	return s.occasions.List(ctx, onlyActive)
}

func (s *CatalogService) CreateOccasion(ctx context.Context, name, slug string, displayOrder int) (*domain.Occasion, error) {
	if name == "" || slug == "" {
		return nil, fmt.Errorf("occasion name and slug are required")
	}
	occasion := &domain.Occasion{
		Name:         name,
		Slug:         slug,
		Active:       true,
		DisplayOrder: displayOrder,
	}
	if err := s.occasions.Save(ctx, occasion); err != nil {
		return nil, err
	}
	return occasion, nil
}

func (s *CatalogService) UpdateOccasion(ctx context.Context, id uint, name, slug string, active bool, displayOrder int) (*domain.Occasion, error) {
	occasion, err := s.occasions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	occasion.Name = name
	occasion.Slug = slug
	occasion.Active = active
	occasion.DisplayOrder = displayOrder
	if err := s.occasions.Save(ctx, occasion); err != nil {
		return nil, err
	}
	return occasion, nil
}

func (s *CatalogService) DeleteOccasion(ctx context.Context, id uint) error {
	if _, err := s.occasions.Get(ctx, id); err != nil {
		return err
	}
	return s.occasions.Delete(ctx, id)
}
