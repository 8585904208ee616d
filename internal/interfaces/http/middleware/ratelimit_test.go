package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/driveshop/backend/internal/interfaces/http/dto"
)

func newRateLimitedRouter(cfg RateLimitConfig) *gin.Engine {
	router := gin.New()
	router.Use(RateLimit(cfg))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	counter := NewMemoryRateCounter()
	defer counter.Stop()

	router := newRateLimitedRouter(RateLimitConfig{
		Requests: 3,
		Window:   time.Minute,
		Counter:  counter,
	})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	counter := NewMemoryRateCounter()
	defer counter.Stop()

	router := newRateLimitedRouter(RateLimitConfig{
		Requests: 2,
		Window:   time.Minute,
		Counter:  counter,
	})

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeRateLimited, resp.Error.Code)
}

func TestRateLimit_SetsRemainingHeader(t *testing.T) {
	counter := NewMemoryRateCounter()
	defer counter.Stop()

	router := newRateLimitedRouter(RateLimitConfig{
		Requests: 5,
		Window:   time.Minute,
		Counter:  counter,
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "5", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "4", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestMemoryRateCounter_WindowResets(t *testing.T) {
	counter := NewMemoryRateCounter()
	defer counter.Stop()

	ctx := context.Background()
	window := 50 * time.Millisecond

	n, err := counter.Incr(ctx, "k", window)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = counter.Incr(ctx, "k", window)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	time.Sleep(60 * time.Millisecond)

	n, err = counter.Incr(ctx, "k", window)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

type failingCounter struct{}

func (failingCounter) Incr(context.Context, string, time.Duration) (int64, error) {
	return 0, context.DeadlineExceeded
}

func TestRateLimit_FailsOpenOnCounterError(t *testing.T) {
	router := newRateLimitedRouter(RateLimitConfig{
		Requests: 1,
		Window:   time.Minute,
		Counter:  failingCounter{},
	})

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}
