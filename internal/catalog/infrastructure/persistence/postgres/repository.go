package postgres

import (
	"context"
	"errors"

	"github.com/floresya/floresya/internal/catalog/domain"
	pkgdb "github.com/floresya/floresya/pkg/db"
	"gorm.io/gorm"
)

type productRepository struct{ db *pkgdb.DB }

func NewProductRepository(db *pkgdb.DB) domain.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Get(ctx context.Context, id uint) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Preload("Occasions").First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]*domain.Product, int64, error) {
	query := r.db.WithContext(ctx).Model(&domain.Product{})

	if filter.OnlyActive {
		query = query.Where("active = ?", true)
	}
	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.OccasionSlug != "" {
		query = query.
			Joins("JOIN product_occasions po ON po.product_id = products.id").
			Joins("JOIN occasions o ON o.id = po.occasion_id AND o.deleted_at IS NULL").
			Where("o.slug = ?", filter.OccasionSlug)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var products []*domain.Product
	err := query.
		Preload("Occasions").
		Order("products.id").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *productRepository) ListCarousel(ctx context.Context) ([]*domain.Product, error) {
	var products []*domain.Product
	err := r.db.WithContext(ctx).
		Where("active = ? AND carousel_order > 0", true).
		Order("carousel_order").
		Find(&products).Error
	return products, err
}

// Save writes the product row and its occasion links in one transaction so
// an association failure never leaves a half-written product behind.
func (r *productRepository) Save(ctx context.Context, product *domain.Product, occasionIDs []uint) error {
	return r.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Omit("Occasions").Save(product).Error; err != nil {
			return err
		}
		if occasionIDs == nil {
			return nil
		}
		var occasions []domain.Occasion
		if len(occasionIDs) > 0 {
			if err := tx.Find(&occasions, occasionIDs).Error; err != nil {
				return err
			}
		}
		return tx.Model(product).Association("Occasions").Replace(&occasions)
	})
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Product{}, id).Error
}

type occasionRepository struct{ db *pkgdb.DB }

func NewOccasionRepository(db *pkgdb.DB) domain.OccasionRepository {
	return &occasionRepository{db: db}
}

func (r *occasionRepository) Get(ctx context.Context, id uint) (*domain.Occasion, error) {
	var occasion domain.Occasion
	err := r.db.WithContext(ctx).First(&occasion, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOccasionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &occasion, nil
}

func (r *occasionRepository) GetBySlug(ctx context.Context, slug string) (*domain.Occasion, error) {
	var occasion domain.Occasion
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&occasion).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOccasionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &occasion, nil
}

func (r *occasionRepository) List(ctx context.Context, onlyActive bool) ([]*domain.Occasion, error) {
	query := r.db.WithContext(ctx)
	if onlyActive {
		query = query.Where("active = ?", true)
	}
	var occasions []*domain.Occasion
	err := query.Order("display_order, id").Find(&occasions).Error
	return occasions, err
}

func (r *occasionRepository) Save(ctx context.Context, occasion *domain.Occasion) error {
	return r.db.WithContext(ctx).Save(occasion).Error
}

func (r *occasionRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Occasion{}, id).Error
}
