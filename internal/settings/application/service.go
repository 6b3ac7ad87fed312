package application

import (
	"context"
	"time"

	"github.com/floresya/floresya/internal/settings/domain"
	"github.com/floresya/floresya/pkg/logger"
	"github.com/shopspring/decimal"
)

// SettingCache caches setting values between reads.
type SettingCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// SettingsService reads and writes store settings and derives the exchange
// rate from them.
type SettingsService struct {
	repo  domain.SettingRepository
	cache SettingCache

	exchangeRateKey string
	// The single fallback used whenever the stored rate is absent or not a
	// number. Duplicating this constant elsewhere is a bug.
	fallbackRate decimal.Decimal
	cacheTTL     time.Duration
}

func NewSettingsService(repo domain.SettingRepository, cache SettingCache, exchangeRateKey string, fallbackRate decimal.Decimal, cacheTTL time.Duration) *SettingsService {
	return &SettingsService{
		repo:            repo,
		cache:           cache,
		exchangeRateKey: exchangeRateKey,
		fallbackRate:    fallbackRate,
		cacheTTL:        cacheTTL,
	}
}

func settingCacheKey(key string) string {
	return "floresya:setting:" + key
}

// Get returns the raw setting for key.
func (s *SettingsService) Get(ctx context.Context, key string) (*domain.Setting, error) {
	return s.repo.Get(ctx, key)
}

// List returns every setting for the admin panel.
func (s *SettingsService) List(ctx context.Context) ([]*domain.Setting, error) {
	return s.repo.List(ctx)
}

// Set upserts a setting and drops its cache entry.
func (s *SettingsService) Set(ctx context.Context, key, value, description string) (*domain.Setting, error) {
	setting := &domain.Setting{Key: key, Value: value, Description: description}
	if err := s.repo.Upsert(ctx, setting); err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, settingCacheKey(key)); err != nil {
			logger.Warn(ctx, "Failed to invalidate setting cache", "key", key, "error", err)
		}
	}
	logger.Info(ctx, "Setting updated", "key", key)
	return setting, nil
}

// ExchangeRate returns the USD to VES rate. A missing key, a storage error or
// a non-numeric value falls back to the configured constant, so callers always
// get a usable rate.
func (s *SettingsService) ExchangeRate(ctx context.Context) decimal.Decimal {
	raw := s.rawRate(ctx)
	if raw == "" {
		return s.fallbackRate
	}
	rate, err := decimal.NewFromString(raw)
	if err != nil || !rate.IsPositive() {
		logger.Warn(ctx, "Stored exchange rate is not a positive number, using fallback",
			"key", s.exchangeRateKey,
			"value", raw,
		)
		return s.fallbackRate
	}
	return rate
}

func (s *SettingsService) rawRate(ctx context.Context) string {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, settingCacheKey(s.exchangeRateKey)); err == nil && cached != "" {
			return cached
		}
	}

	setting, err := s.repo.Get(ctx, s.exchangeRateKey)
	if err != nil {
		logger.Warn(ctx, "Failed to read exchange rate setting", "key", s.exchangeRateKey, "error", err)
		return ""
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, settingCacheKey(s.exchangeRateKey), setting.Value, s.cacheTTL); err != nil {
			logger.Warn(ctx, "Failed to cache exchange rate", "error", err)
		}
	}
	return setting.Value
}
