package application

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/floresya/floresya/internal/catalog/domain"
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

// MockProductRepository tracks repository hits so cache behavior is visible.
type MockProductRepository struct {
	products  map[uint]*domain.Product
	occasions map[uint][]uint
	getCalls  int
	lastList  domain.ProductFilter
	nextID    uint
	saveErr   error
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products:  make(map[uint]*domain.Product),
		occasions: make(map[uint][]uint),
	}
}

func (m *MockProductRepository) Get(_ context.Context, id uint) (*domain.Product, error) {
	m.getCalls++
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (m *MockProductRepository) List(_ context.Context, filter domain.ProductFilter) ([]*domain.Product, int64, error) {
	m.lastList = filter
	var list []*domain.Product
	for _, p := range m.products {
		list = append(list, p)
	}
	return list, int64(len(list)), nil
}

func (m *MockProductRepository) ListCarousel(_ context.Context) ([]*domain.Product, error) {
	var list []*domain.Product
	for _, p := range m.products {
		if p.CarouselOrder > 0 {
			list = append(list, p)
		}
	}
	return list, nil
}

func (m *MockProductRepository) Save(_ context.Context, product *domain.Product, occasionIDs []uint) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	if product.ID == 0 {
		m.nextID++
		product.ID = m.nextID
	}
	m.products[product.ID] = product
	if occasionIDs != nil {
		m.occasions[product.ID] = occasionIDs
	}
	return nil
}

func (m *MockProductRepository) Delete(_ context.Context, id uint) error {
	delete(m.products, id)
	return nil
}

// MockOccasionRepository is a map-backed occasion store.
type MockOccasionRepository struct {
	occasions map[uint]*domain.Occasion
	nextID    uint
}

func NewMockOccasionRepository() *MockOccasionRepository {
	return &MockOccasionRepository{occasions: make(map[uint]*domain.Occasion)}
}

func (m *MockOccasionRepository) Get(_ context.Context, id uint) (*domain.Occasion, error) {
	o, ok := m.occasions[id]
	if !ok {
		return nil, domain.ErrOccasionNotFound
	}
	return o, nil
}

func (m *MockOccasionRepository) GetBySlug(_ context.Context, slug string) (*domain.Occasion, error) {
	for _, o := range m.occasions {
		if o.Slug == slug {
			return o, nil
		}
	}
	return nil, domain.ErrOccasionNotFound
}

func (m *MockOccasionRepository) List(_ context.Context, onlyActive bool) ([]*domain.Occasion, error) {
	var list []*domain.Occasion
	for _, o := range m.occasions {
		if !onlyActive || o.Active {
			list = append(list, o)
		}
	}
	return list, nil
}

func (m *MockOccasionRepository) Save(_ context.Context, occasion *domain.Occasion) error {
	if occasion.ID == 0 {
		m.nextID++
		occasion.ID = m.nextID
	}
	m.occasions[occasion.ID] = occasion
	return nil
}

func (m *MockOccasionRepository) Delete(_ context.Context, id uint) error {
	delete(m.occasions, id)
	return nil
}

// MockProductCache is a JSON-blob cache.
type MockProductCache struct {
	data    map[string]string
	deleted []string
}

func NewMockProductCache() *MockProductCache {
	return &MockProductCache{data: make(map[string]string)}
}

func (m *MockProductCache) GetJSON(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return nil
	}
	return json.Unmarshal([]byte(raw), dest)
}

func (m *MockProductCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = string(raw)
	return nil
}

func (m *MockProductCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
		m.deleted = append(m.deleted, key)
	}
	return nil
}

func newTestService() (*CatalogService, *MockProductRepository, *MockProductCache) {
	repo := NewMockProductRepository()
	cache := NewMockProductCache()
	svc := NewCatalogService(repo, NewMockOccasionRepository(), cache, time.Minute)
	return svc, repo, cache
}

func TestGetProduct_CacheAside(t *testing.T) {
	svc, repo, _ := newTestService()
	require.NoError(t, repo.Save(context.Background(), &domain.Product{
		Name:     "Rosas Rojas",
		PriceUSD: dec("25.00"),
		Active:   true,
	}, nil))

	first, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Rosas Rojas", first.Name)
	assert.Equal(t, 1, repo.getCalls)

	// Second read is served from cache.
	second, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, 1, repo.getCalls)
}

func TestGetProduct_NotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.GetProduct(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestListProducts_ClampsLimit(t *testing.T) {
	svc, repo, _ := newTestService()

	_, _, err := svc.ListProducts(context.Background(), domain.ProductFilter{Limit: 0})
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastList.Limit)

	_, _, err = svc.ListProducts(context.Background(), domain.ProductFilter{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 20, repo.lastList.Limit)

	_, _, err = svc.ListProducts(context.Background(), domain.ProductFilter{Limit: 50})
	require.NoError(t, err)
	assert.Equal(t, 50, repo.lastList.Limit)
}

func TestCreateProduct_Validation(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateProduct(context.Background(), CreateProductCommand{PriceUSD: dec("25.00")})
	assert.Error(t, err)

	_, err = svc.CreateProduct(context.Background(), CreateProductCommand{Name: "Rosas", PriceUSD: decimal.Zero})
	assert.Error(t, err)
}

func TestCreateProduct_PersistsOccasionsWithProduct(t *testing.T) {
	svc, repo, _ := newTestService()

	created, err := svc.CreateProduct(context.Background(), CreateProductCommand{
		Name:        "Rosas Rojas",
		PriceUSD:    dec("25.00"),
		Active:      true,
		OccasionIDs: []uint{3, 5},
	})

	require.NoError(t, err)
	// Product row and occasion links go through a single repository write.
	assert.Equal(t, []uint{3, 5}, repo.occasions[created.ID])
}

func TestUpdateProduct_SaveFailureKeepsCache(t *testing.T) {
	svc, repo, cache := newTestService()
	require.NoError(t, repo.Save(context.Background(), &domain.Product{
		Name:     "Rosas Rojas",
		PriceUSD: dec("25.00"),
		Active:   true,
	}, nil))

	// Prime the cache.
	_, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	require.Contains(t, cache.data, "floresya:product:1")

	repo.saveErr = errors.New("db down")
	_, err = svc.UpdateProduct(context.Background(), UpdateProductCommand{
		ID:       1,
		Name:     "Rosas Blancas",
		PriceUSD: dec("27.00"),
		Active:   true,
	})
	require.Error(t, err)

	// Nothing was written, so the cached copy is still correct.
	assert.Empty(t, cache.deleted)
	assert.Contains(t, cache.data, "floresya:product:1")
}

func TestUpdateProduct_InvalidatesCache(t *testing.T) {
	svc, repo, cache := newTestService()
	require.NoError(t, repo.Save(context.Background(), &domain.Product{
		Name:     "Rosas Rojas",
		PriceUSD: dec("25.00"),
		Active:   true,
	}, nil))

	// Prime the cache.
	_, err := svc.GetProduct(context.Background(), 1)
	require.NoError(t, err)
	require.Contains(t, cache.data, "floresya:product:1")

	_, err = svc.UpdateProduct(context.Background(), UpdateProductCommand{
		ID:       1,
		Name:     "Rosas Blancas",
		PriceUSD: dec("27.00"),
		Active:   true,
	})
	require.NoError(t, err)

	assert.Contains(t, cache.deleted, "floresya:product:1")
}

func TestDeleteProduct_InvalidatesCache(t *testing.T) {
	svc, repo, cache := newTestService()
	require.NoError(t, repo.Save(context.Background(), &domain.Product{
		Name:     "Rosas Rojas",
		PriceUSD: dec("25.00"),
	}, nil))

	require.NoError(t, svc.DeleteProduct(context.Background(), 1))
	assert.Contains(t, cache.deleted, "floresya:product:1")
}

func TestOccasions_CreateAndListActive(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateOccasion(context.Background(), "Cumpleaños", "cumpleanos", 1)
	require.NoError(t, err)
	assert.True(t, created.Active)

	_, err = svc.UpdateOccasion(context.Background(), created.ID, "Cumpleaños", "cumpleanos", false, 1)
	require.NoError(t, err)

	active, err := svc.ListOccasions(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, active)
}
