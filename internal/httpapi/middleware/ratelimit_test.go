package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_BurstThenRejects(t *testing.T) {
	h := RateLimit(60, 2)(okHandler())

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if do() != 200 || do() != 200 {
		t.Fatalf("first two requests should pass")
	}
	if do() != http.StatusTooManyRequests {
		t.Fatalf("third request should be limited")
	}
}

func TestRateLimit_KeysByClientIP(t *testing.T) {
	h := RateLimit(60, 1)(okHandler())

	do := func(addr, xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	if do("10.0.0.1:1", "") != 200 {
		t.Fatalf("first client should pass")
	}
	if do("10.0.0.1:2", "") != http.StatusTooManyRequests {
		t.Fatalf("same IP should be limited")
	}
	if do("10.0.0.1:3", "172.16.0.9, 10.0.0.1") != 200 {
		t.Fatalf("forwarded client is a different bucket")
	}
}

func TestRateLimit_DisabledPassesThrough(t *testing.T) {
	h := RateLimit(0, 0)(okHandler())
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != 200 {
			t.Fatalf("disabled limiter rejected request %d", i)
		}
	}
}
