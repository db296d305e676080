package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	echo "github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedEcho(t *testing.T, cfg RateLimitConfig) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.IPExtractor = echo.ExtractIPDirect()
	e.POST("/reports", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	}, RateLimitMiddleware(cfg))
	return e
}

func post(e *echo.Echo, remoteAddr, forwardedFor string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/reports", nil)
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set(echo.HeaderXForwardedFor, forwardedFor)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRateLimitMiddleware_PassesWithoutRedis(t *testing.T) {
	e := newLimitedEcho(t, RateLimitConfig{RPS: 1})
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusNoContent, post(e, "203.0.113.9:4000", "").Code)
	}
}

func TestRateLimitMiddleware_LimitsPerWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 500*int(time.Millisecond), time.UTC)
	e := newLimitedEcho(t, RateLimitConfig{
		Redis:          newRedis(t),
		RPS:            2,
		Burst:          1,
		Window:         time.Second,
		RetryAfterHint: true,
		Now:            func() time.Time { return now },
	})

	for i := 0; i < 3; i++ {
		require.Equal(t, http.StatusNoContent, post(e, "203.0.113.9:4000", "").Code, "request %d", i)
	}
	rec := post(e, "203.0.113.9:4000", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))

	// other clients have their own budget
	assert.Equal(t, http.StatusNoContent, post(e, "198.51.100.7:4000", "").Code)

	// next window starts from zero
	now = now.Add(time.Second)
	assert.Equal(t, http.StatusNoContent, post(e, "203.0.113.9:4000", "").Code)
}

func TestRateLimitMiddleware_IgnoresForwardedHeaders(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	e := newLimitedEcho(t, RateLimitConfig{
		Redis:  newRedis(t),
		RPS:    1,
		Window: time.Second,
		Now:    func() time.Time { return now },
	})

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		codes = append(codes, post(e, "203.0.113.9:4000", "10.0.0."+strconv.Itoa(i)).Code)
	}
	assert.Equal(t, []int{
		http.StatusNoContent,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
	}, codes)
}
