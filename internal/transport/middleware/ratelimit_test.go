package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func newLimited(t *testing.T, perMinute int) (http.Handler, *RateLimiter, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	rl := NewRateLimiter(clock, 24*time.Hour)
	t.Cleanup(rl.Stop)

	handler := rl.Limit(perMinute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	return handler, rl, clock
}

func hit(handler http.Handler, addr string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/catalogs/x/entries/k/comment", nil)
	req.RemoteAddr = addr
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	t.Parallel()
	handler, _, _ := newLimited(t, 5)

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, hit(handler, "1.2.3.4:1234").Code, "request %d should be allowed", i)
	}

	rec := hit(handler, "1.2.3.4:9999")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code, "port does not split the bucket")
	assert.Equal(t, "13", rec.Header().Get("Retry-After"))
}

func TestRateLimiter_DifferentIPsIndependent(t *testing.T) {
	t.Parallel()
	handler, _, _ := newLimited(t, 2)

	hit(handler, "1.1.1.1:1234")
	hit(handler, "1.1.1.1:1234")

	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "1.1.1.1:1234").Code)
	assert.Equal(t, http.StatusOK, hit(handler, "2.2.2.2:5678").Code)
}

func TestRateLimiter_TokenRefill(t *testing.T) {
	t.Parallel()
	// 60 per minute = 1 per second
	handler, _, clock := newLimited(t, 60)

	for i := 0; i < 60; i++ {
		hit(handler, "5.5.5.5:1")
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "5.5.5.5:1").Code)

	clock.Advance(1100 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hit(handler, "5.5.5.5:1").Code)
}

func TestRateLimiter_Sweep(t *testing.T) {
	t.Parallel()
	handler, rl, clock := newLimited(t, 10)

	hit(handler, "1.1.1.1:1")
	clock.Advance(30 * time.Minute)
	hit(handler, "2.2.2.2:1")
	clock.Advance(31 * time.Minute)

	assert.Equal(t, 1, rl.sweep(time.Hour))
	_, ok := rl.buckets.Load("2.2.2.2")
	assert.True(t, ok)
}
