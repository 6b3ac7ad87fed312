package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/floresya/floresya/pkg/config"
	"github.com/floresya/floresya/pkg/ratelimit"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubLimiter allows a fixed number of requests per key.
type stubLimiter struct {
	limit int
	calls map[string]int
	err   error
}

func newStubLimiter(limit int) *stubLimiter {
	return &stubLimiter{limit: limit, calls: make(map[string]int)}
}

func (s *stubLimiter) Allow(_ context.Context, key string, _ ratelimit.Limit) (*ratelimit.Result, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.calls[key]++
	if s.calls[key] > s.limit {
		return &ratelimit.Result{Allowed: false, RetryAfter: time.Second}, nil
	}
	return &ratelimit.Result{Allowed: true, Remaining: s.limit - s.calls[key]}, nil
}

func rateLimitedEngine(limiter ratelimit.Limiter, cfg config.RateLimitConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(GinRateLimitMiddleware(limiter, cfg))
	engine.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return engine
}

func requestFrom(engine *gin.Engine, addr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = addr
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRateLimit_LimitsEachClientIndependently(t *testing.T) {
	engine := rateLimitedEngine(newStubLimiter(2), config.RateLimitConfig{Enabled: true, QPS: 2, Burst: 2})

	assert.Equal(t, http.StatusOK, requestFrom(engine, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusOK, requestFrom(engine, "10.0.0.1:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, requestFrom(engine, "10.0.0.1:1234").Code)

	// A throttled client must not starve other clients.
	assert.Equal(t, http.StatusOK, requestFrom(engine, "10.0.0.2:1234").Code)
}

func TestRateLimit_SetsRateLimitHeaders(t *testing.T) {
	engine := rateLimitedEngine(newStubLimiter(2), config.RateLimitConfig{Enabled: true, QPS: 2, Burst: 2})

	allowed := requestFrom(engine, "10.0.0.1:1234")
	require.Equal(t, http.StatusOK, allowed.Code)
	assert.Equal(t, "2", allowed.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", allowed.Header().Get("X-RateLimit-Remaining"))

	requestFrom(engine, "10.0.0.1:1234")
	throttled := requestFrom(engine, "10.0.0.1:1234")
	require.Equal(t, http.StatusTooManyRequests, throttled.Code)
	assert.Equal(t, "1", throttled.Header().Get("Retry-After"))
}

func TestRateLimit_FailsOpenWhenLimiterErrors(t *testing.T) {
	limiter := newStubLimiter(0)
	limiter.err = errors.New("redis unreachable")
	engine := rateLimitedEngine(limiter, config.RateLimitConfig{Enabled: true, QPS: 1, Burst: 1})

	assert.Equal(t, http.StatusOK, requestFrom(engine, "10.0.0.1:1234").Code)
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	limiter := newStubLimiter(0)
	engine := rateLimitedEngine(limiter, config.RateLimitConfig{Enabled: false})

	assert.Equal(t, http.StatusOK, requestFrom(engine, "10.0.0.1:1234").Code)
	assert.Empty(t, limiter.calls)
}
