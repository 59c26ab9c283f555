package middleware

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"ccrt-portal/backend/pkg/redis"
	"ccrt-portal/backend/pkg/response"
)

// Limiter decides whether one more request for key is allowed.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// NewLimiter returns a Redis sliding window limiter that falls back to an
// in-process token bucket whenever Redis is absent or failing.
func NewLimiter(rdb *redis.Client, limit int, window time.Duration, logger *zap.Logger) Limiter {
	mem := NewMemoryLimiter(limit, window)
	if rdb == nil {
		return mem
	}
	return &redisLimiter{rdb: rdb, limit: limit, window: window, fallback: mem, logger: logger}
}

type redisLimiter struct {
	rdb      *redis.Client
	limit    int
	window   time.Duration
	fallback Limiter
	logger   *zap.Logger
}

func (l *redisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	allowed, err := l.rdb.CheckRateLimit(ctx, key, l.limit, l.window)
	if err != nil {
		l.logger.Warn("redis rate limit unavailable, using local limiter", zap.Error(err))
		return l.fallback.Allow(ctx, key)
	}
	return allowed, nil
}

// MemoryLimiter per-key token buckets refilling limit tokens per window.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	every   rate.Limit
	burst   int
	idle    time.Duration
	calls   int
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter creates a MemoryLimiter.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		every:   rate.Every(window / time.Duration(limit)),
		burst:   limit,
		idle:    window,
	}
}

// Allow implements Limiter.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls++
	if l.calls%1000 == 0 {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > l.idle {
				delete(l.buckets, k)
			}
		}
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(l.every, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	return b.limiter.AllowN(now, 1), nil
}

// RateLimit rejects clients exceeding the limiter with 429. Keys are the
// client IP and route.
func RateLimit(l Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", c.ClientIP(), c.FullPath())
		allowed, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			// limiter failure never blocks authentication
			c.Next()
			return
		}

		if !allowed {
			response.Error(c, http.StatusTooManyRequests, "RateLimited", "Too many requests, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
