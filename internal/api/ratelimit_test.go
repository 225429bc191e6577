package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/coda0/coda/internal/log"
)

func TestRateLimiter_BurstThenDeny(t *testing.T) {
	t.Parallel()

	rl := newRateLimiter(0.0001, 3) // near-zero refill so the burst is the budget

	for i := range 3 {
		if !rl.allow("192.0.2.1") {
			t.Fatalf("request %d within burst denied", i+1)
		}
	}
	if rl.allow("192.0.2.1") {
		t.Error("request over burst allowed")
	}
}

func TestRateLimiter_PerIPIsolation(t *testing.T) {
	t.Parallel()

	rl := newRateLimiter(0.0001, 1)

	if !rl.allow("192.0.2.1") {
		t.Fatal("first IP denied its burst")
	}
	if rl.allow("192.0.2.1") {
		t.Error("first IP allowed over burst")
	}
	if !rl.allow("192.0.2.2") {
		t.Error("second IP denied despite fresh bucket")
	}
}

func TestRateLimitMiddleware_Returns429(t *testing.T) {
	t.Parallel()

	rl := newRateLimiter(0.0001, 1)
	handler := rateLimitMiddleware(rl, false, log.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:51234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header not set on 429")
	}
}
