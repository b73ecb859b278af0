package ratelimit

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/metrics"
)

const (
	DefaultLimit  = 100
	DefaultWindow = 15 * time.Minute
)

type Limiter struct {
	store   Store
	limit   int64
	window  time.Duration
	log     *zap.Logger
	metrics *metrics.Metrics
}

func New(store Store, limit int, window time.Duration, log *zap.Logger, m *metrics.Metrics) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Limiter{
		store:   store,
		limit:   int64(limit),
		window:  window,
		log:     log,
		metrics: m,
	}
}

// KeyFunc escolhe quem está sendo limitado.
type KeyFunc func(c *gin.Context) string

// ByClientIP serve para rotas públicas.
func ByClientIP(c *gin.Context) string {
	return "ip:" + c.ClientIP()
}

// ByUserOrIP usa o user_id do token quando houver.
func ByUserOrIP(c *gin.Context) string {
	if id := c.GetString("userID"); id != "" {
		return "user:" + id
	}
	return ByClientIP(c)
}

// Middleware responde 429 com Retry-After quando a janela estoura.
// Se o store falhar a requisição segue.
func (l *Limiter) Middleware(key KeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		k := key(c)

		count, ttl, err := l.store.Hit(c.Request.Context(), k, l.window)
		if err != nil {
			l.log.Warn("rate limit store unavailable", zap.String("key", k), zap.Error(err))
			c.Next()
			return
		}

		remaining := l.limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.FormatInt(l.limit, 10))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > l.limit {
			retry := int(math.Ceil(ttl.Seconds()))
			if retry < 1 {
				retry = 1
			}
			c.Header("Retry-After", strconv.Itoa(retry))
			if l.metrics != nil {
				l.metrics.RateLimited.Inc()
			}
			l.log.Warn("rate limit exceeded", zap.String("key", k))
			httperr.Write(c, http.StatusTooManyRequests, "rate_limited", "Too many requests, try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}
