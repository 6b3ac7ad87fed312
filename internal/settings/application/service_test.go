package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/floresya/floresya/internal/settings/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockSettingRepository serves settings from a map.
type MockSettingRepository struct {
	settings map[string]*domain.Setting
	getErr   error
	upserted *domain.Setting
}

func NewMockSettingRepository() *MockSettingRepository {
	return &MockSettingRepository{settings: make(map[string]*domain.Setting)}
}

func (m *MockSettingRepository) Get(_ context.Context, key string) (*domain.Setting, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	setting, ok := m.settings[key]
	if !ok {
		return nil, domain.ErrSettingNotFound
	}
	return setting, nil
}

func (m *MockSettingRepository) List(_ context.Context) ([]*domain.Setting, error) {
	var list []*domain.Setting
	for _, s := range m.settings {
		list = append(list, s)
	}
	return list, nil
}

func (m *MockSettingRepository) Upsert(_ context.Context, setting *domain.Setting) error {
	m.settings[setting.Key] = setting
	m.upserted = setting
	return nil
}

// MockSettingCache records invalidations.
type MockSettingCache struct {
	data    map[string]string
	deleted []string
}

func NewMockSettingCache() *MockSettingCache {
	return &MockSettingCache{data: make(map[string]string)}
}

func (m *MockSettingCache) Get(_ context.Context, key string) (string, error) {
	return m.data[key], nil
}

func (m *MockSettingCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.data[key] = value.(string)
	return nil
}

func (m *MockSettingCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.data, key)
		m.deleted = append(m.deleted, key)
	}
	return nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestService(repo *MockSettingRepository, cache *MockSettingCache) *SettingsService {
	return NewSettingsService(repo, cache, "exchange_rate_bcv", dec("36.5"), time.Minute)
}

func TestExchangeRate_StoredValue(t *testing.T) {
	repo := NewMockSettingRepository()
	repo.settings["exchange_rate_bcv"] = &domain.Setting{Key: "exchange_rate_bcv", Value: "40.25"}
	svc := newTestService(repo, NewMockSettingCache())

	rate := svc.ExchangeRate(context.Background())

	assert.True(t, dec("40.25").Equal(rate), "rate %s", rate)
}

func TestExchangeRate_MissingSettingUsesFallback(t *testing.T) {
	svc := newTestService(NewMockSettingRepository(), NewMockSettingCache())

	rate := svc.ExchangeRate(context.Background())

	assert.True(t, dec("36.5").Equal(rate))
}

func TestExchangeRate_StorageErrorUsesFallback(t *testing.T) {
	repo := NewMockSettingRepository()
	repo.getErr = errors.New("connection refused")
	svc := newTestService(repo, NewMockSettingCache())

	rate := svc.ExchangeRate(context.Background())

	assert.True(t, dec("36.5").Equal(rate))
}

func TestExchangeRate_NonNumericUsesFallback(t *testing.T) {
	repo := NewMockSettingRepository()
	repo.settings["exchange_rate_bcv"] = &domain.Setting{Key: "exchange_rate_bcv", Value: "not-a-number"}
	svc := newTestService(repo, NewMockSettingCache())

	rate := svc.ExchangeRate(context.Background())

	assert.True(t, dec("36.5").Equal(rate))
}

func TestExchangeRate_NonPositiveUsesFallback(t *testing.T) {
	repo := NewMockSettingRepository()
	repo.settings["exchange_rate_bcv"] = &domain.Setting{Key: "exchange_rate_bcv", Value: "0"}
	svc := newTestService(repo, NewMockSettingCache())

	rate := svc.ExchangeRate(context.Background())

	assert.True(t, dec("36.5").Equal(rate))
}

func TestExchangeRate_ReadThroughCache(t *testing.T) {
	repo := NewMockSettingRepository()
	repo.settings["exchange_rate_bcv"] = &domain.Setting{Key: "exchange_rate_bcv", Value: "40.25"}
	cache := NewMockSettingCache()
	svc := newTestService(repo, cache)

	_ = svc.ExchangeRate(context.Background())
	assert.Equal(t, "40.25", cache.data["floresya:setting:exchange_rate_bcv"])

	// Subsequent reads are served from the cache even if storage goes away.
	repo.getErr = errors.New("connection refused")
	rate := svc.ExchangeRate(context.Background())
	assert.True(t, dec("40.25").Equal(rate))
}

func TestSet_UpsertsAndInvalidatesCache(t *testing.T) {
	repo := NewMockSettingRepository()
	cache := NewMockSettingCache()
	cache.data["floresya:setting:exchange_rate_bcv"] = "36.5"
	svc := newTestService(repo, cache)

	setting, err := svc.Set(context.Background(), "exchange_rate_bcv", "41.00", "BCV reference rate")

	require.NoError(t, err)
	assert.Equal(t, "41.00", setting.Value)
	assert.Equal(t, "41.00", repo.upserted.Value)
	assert.Contains(t, cache.deleted, "floresya:setting:exchange_rate_bcv")
}
