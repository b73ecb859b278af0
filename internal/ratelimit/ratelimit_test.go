package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/metrics"
)

func TestMemoryStoreFixedWindow(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		n, ttl, err := s.Hit(ctx, "k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
		assert.Equal(t, time.Minute, ttl)
	}

	now = now.Add(30 * time.Second)
	n, ttl, _ := s.Hit(ctx, "k", time.Minute)
	assert.EqualValues(t, 4, n)
	assert.Equal(t, 30*time.Second, ttl)

	n, _, _ = s.Hit(ctx, "other", time.Minute)
	assert.EqualValues(t, 1, n)

	now = now.Add(time.Minute)
	assert.Equal(t, 2, s.Sweep())
	n, _, _ = s.Hit(ctx, "k", time.Minute)
	assert.EqualValues(t, 1, n)
}

type brokenStore struct{}

func (brokenStore) Hit(context.Context, string, time.Duration) (int64, time.Duration, error) {
	return 0, 0, errors.New("redis: connection refused")
}

func router(l *Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", l.Middleware(ByClientIP), func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	m := metrics.NewNop()
	r := router(New(NewMemoryStore(), 2, time.Minute, zap.NewNop(), m))

	var codes []int
	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		codes = append(codes, w.Code)
		last = w
	}

	assert.Equal(t, []int{200, 200, 429}, codes)
	assert.Equal(t, "60", last.Header().Get("Retry-After"))
	assert.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
	assert.Contains(t, last.Body.String(), "rate_limited")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RateLimited))
}

func TestMiddlewareFailsOpen(t *testing.T) {
	r := router(New(brokenStore{}, 1, time.Minute, zap.NewNop(), nil))

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
