package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/patterngallery/pattern-search/pkg/config"
)

func TestLimiterAllow(t *testing.T) {
	l := New(time.Minute)

	for i := 0; i < 5; i++ {
		if !l.Allow("client-a", 5) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("client-a", 5) {
		t.Error("6th request should be rejected")
	}
	// Other keys have their own bucket.
	if !l.Allow("client-b", 5) {
		t.Error("different key should not be affected")
	}
}

func TestLimiterRefill(t *testing.T) {
	// 100ms window so tokens refill quickly.
	l := New(100 * time.Millisecond)

	for i := 0; i < 2; i++ {
		if !l.Allow("k", 2) {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("k", 2) {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(120 * time.Millisecond)
	if !l.Allow("k", 2) {
		t.Error("bucket should refill after the window elapses")
	}
}

func TestLimiterReset(t *testing.T) {
	l := New(time.Minute)

	if !l.Allow("k", 1) {
		t.Fatal("first request should be allowed")
	}
	if l.Allow("k", 1) {
		t.Fatal("second request should be rejected")
	}

	l.Reset("k")
	if !l.Allow("k", 1) {
		t.Error("request after Reset should be allowed")
	}
}

func TestMiddleware(t *testing.T) {
	cfg := config.RateLimitConfig{Enabled: true, RequestsPerWindow: 2, Window: time.Minute}
	limiter := New(cfg.Window)

	handler := Middleware(limiter, cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(path, remoteAddr string) int {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do("/api/v1/search?q=load", "10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("first request: status %d, want 200", code)
	}
	if code := do("/api/v1/search?q=load", "10.0.0.1:1234"); code != http.StatusOK {
		t.Fatalf("second request: status %d, want 200", code)
	}
	if code := do("/api/v1/search?q=load", "10.0.0.1:1234"); code != http.StatusTooManyRequests {
		t.Errorf("third request: status %d, want 429", code)
	}

	// A different client IP gets its own bucket.
	if code := do("/api/v1/search?q=load", "10.0.0.2:1234"); code != http.StatusOK {
		t.Errorf("other client: status %d, want 200", code)
	}

	// Health endpoints bypass the limiter entirely.
	for i := 0; i < 5; i++ {
		if code := do("/health/live", "10.0.0.1:1234"); code != http.StatusOK {
			t.Errorf("health request %d: status %d, want 200", i+1, code)
		}
	}
}

func TestClientIPPrefersForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	req.RemoteAddr = "10.0.0.9:4000"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.9")

	if got := clientIP(req); got != "203.0.113.7" {
		t.Errorf("clientIP = %q, want first forwarded hop", got)
	}

	req.Header.Del("X-Forwarded-For")
	if got := clientIP(req); got != "10.0.0.9" {
		t.Errorf("clientIP = %q, want remote host", got)
	}
}
