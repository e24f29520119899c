package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, rate float64, burst int) (*RateLimiter, *time.Time) {
	t.Helper()
	rl := NewRateLimiter(rate, burst)
	t.Cleanup(rl.Stop)
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestRateLimiterBurstThenRefill(t *testing.T) {
	rl, now := newTestLimiter(t, 2, 3)

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed within burst", i)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Fatalf("request past burst should be rejected")
	}
	if !rl.Allow("10.0.0.2") {
		t.Fatalf("other clients have their own bucket")
	}

	*now = now.Add(500 * time.Millisecond)
	if !rl.Allow("10.0.0.1") {
		t.Fatalf("one token should refill after 500ms at 2 rps")
	}
	if rl.Allow("10.0.0.1") {
		t.Fatalf("only one token should have refilled")
	}
}

func TestRateLimiterEvictsIdleBuckets(t *testing.T) {
	rl, now := newTestLimiter(t, 1, 1)
	rl.Allow("10.0.0.1")

	*now = now.Add(bucketIdleTTL + time.Second)
	rl.evictIdle()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if len(rl.buckets) != 0 {
		t.Fatalf("expected idle bucket to be evicted, have %d", len(rl.buckets))
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	rl, _ := newTestLimiter(t, 0.5, 1)
	handler := rl.Middleware(http.HandlerFunc(okHandler))

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/availability", nil)
	req.RemoteAddr = "192.0.2.1:5000"
	handler.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("expected first request allowed, got %d", first.Code)
	}

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/availability", nil)
	req.RemoteAddr = "192.0.2.1:6000"
	handler.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 for same host on a new port, got %d", second.Code)
	}
	if got := second.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("expected Retry-After 2, got %q", got)
	}
}

func TestClientKeyPrefersRealIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:1234"
	if got := clientKey(req); got != "10.0.0.9" {
		t.Fatalf("expected host without port, got %q", got)
	}
	req.Header.Set("X-Real-Ip", "203.0.113.7")
	if got := clientKey(req); got != "203.0.113.7" {
		t.Fatalf("expected X-Real-Ip, got %q", got)
	}
}

func TestRateLimiterRetryAfterRoundsUp(t *testing.T) {
	rl, now := newTestLimiter(t, 4, 1)
	if ok, _ := rl.take("10.0.0.1"); !ok {
		t.Fatalf("first request should be allowed")
	}
	ok, wait := rl.take("10.0.0.1")
	if ok {
		t.Fatalf("second request should be rejected")
	}
	if wait != 250*time.Millisecond {
		t.Fatalf("expected 250ms until next token, got %s", wait)
	}
	if got := retryAfterSeconds(wait); got != "1" {
		t.Fatalf("expected Retry-After rounded up to 1, got %q", got)
	}

	// A rejected request must not consume the next token.
	*now = now.Add(250 * time.Millisecond)
	if !rl.Allow("10.0.0.1") {
		t.Fatalf("token should be available after 250ms at 4 rps")
	}
}

func TestRetryAfterSeconds(t *testing.T) {
	tests := []struct {
		wait time.Duration
		want string
	}{
		{0, "1"},
		{300 * time.Millisecond, "1"},
		{2 * time.Second, "2"},
		{2100 * time.Millisecond, "3"},
	}
	for _, tt := range tests {
		if got := retryAfterSeconds(tt.wait); got != tt.want {
			t.Fatalf("retryAfterSeconds(%s) = %q, want %q", tt.wait, got, tt.want)
		}
	}
}
