package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/driveshop/backend/internal/interfaces/http/dto"
)

// RateCounter counts hits for a key within a fixed window. Incr returns
// the number of hits recorded in the current window, including this one.
type RateCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

type memoryWindow struct {
	count     int64
	expiresAt time.Time
}

// MemoryRateCounter is an in-process RateCounter. Suitable for a single
// instance deployment; use RedisRateCounter when running more than one.
type MemoryRateCounter struct {
	mu      sync.Mutex
	windows map[string]*memoryWindow
	done    chan struct{}
}

// NewMemoryRateCounter creates an in-memory counter and starts a
// background sweep of expired windows.
func NewMemoryRateCounter() *MemoryRateCounter {
	c := &MemoryRateCounter{
		windows: make(map[string]*memoryWindow),
		done:    make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Incr implements RateCounter.
func (c *MemoryRateCounter) Incr(_ context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	w, ok := c.windows[key]
	if !ok || now.After(w.expiresAt) {
		w = &memoryWindow{expiresAt: now.Add(window)}
		c.windows[key] = w
	}
	w.count++
	return w.count, nil
}

// Stop terminates the background cleanup goroutine.
func (c *MemoryRateCounter) Stop() {
	close(c.done)
}

func (c *MemoryRateCounter) cleanupLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			now := time.Now()
			c.mu.Lock()
			for key, w := range c.windows {
				if now.After(w.expiresAt) {
					delete(c.windows, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// RedisRateCounter counts hits in Redis so the limit holds across instances.
type RedisRateCounter struct {
	client *redis.Client
}

// NewRedisRateCounter creates a Redis-backed RateCounter.
func NewRedisRateCounter(client *redis.Client) *RedisRateCounter {
	return &RedisRateCounter{client: client}
}

// Incr implements RateCounter using INCR plus EXPIRE on the first hit.
func (c *RedisRateCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("incr rate key: %w", err)
	}
	if count == 1 {
		if err := c.client.Expire(ctx, key, window).Err(); err != nil {
			return 0, fmt.Errorf("expire rate key: %w", err)
		}
	}
	return count, nil
}

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Requests allowed per window per client
	Requests int
	// Window length of the fixed window
	Window time.Duration
	// Counter backing store; defaults to a new MemoryRateCounter
	Counter RateCounter
	// KeyPrefix separates limiter instances sharing one counter
	KeyPrefix string
}

// RateLimit returns a fixed-window rate limiting middleware keyed by
// client IP. Counter errors fail open so a Redis outage does not take
// the API down with it.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.Counter == nil {
		cfg.Counter = NewMemoryRateCounter()
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "ratelimit"
	}

	return func(c *gin.Context) {
		key := fmt.Sprintf("%s:%s", cfg.KeyPrefix, c.ClientIP())

		count, err := cfg.Counter.Incr(c.Request.Context(), key, cfg.Window)
		if err != nil {
			c.Next()
			return
		}

		remaining := int64(cfg.Requests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
		c.Writer.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(cfg.Requests) {
			c.Writer.Header().Set("Retry-After", strconv.Itoa(int(cfg.Window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponse(
				dto.ErrCodeRateLimited,
				"too many requests, slow down",
			))
			return
		}

		c.Next()
	}
}
