package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGet_Status202(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("queued"))
	}))
	defer s.Close()

	c := New(2 * time.Second)
	out := c.Get(context.Background(), s.URL)
	if out.StatusCode != 202 {
		t.Fatalf("want status 202, got %d", out.StatusCode)
	}
	if out.Err != "" {
		t.Fatalf("want no error, got %q", out.Err)
	}
	if out.LatencyMS < 0 {
		t.Fatalf("latency should be >= 0, got %f", out.LatencyMS)
	}
}

func TestGet_SendsNoHeadersOrBody(t *testing.T) {
	var method string
	var contentLen int64
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method = r.Method
		contentLen = r.ContentLength
		w.WriteHeader(200)
	}))
	defer s.Close()

	c := New(2 * time.Second)
	_ = c.Get(context.Background(), s.URL)
	if method != http.MethodGet {
		t.Fatalf("want GET, got %s", method)
	}
	if contentLen > 0 {
		t.Fatalf("want empty body, got content length %d", contentLen)
	}
}

func TestGet_TimeoutSetsStatusZero(t *testing.T) {
	// Server sleeps longer than client timeout
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer s.Close()

	c := New(50 * time.Millisecond)
	out := c.Get(context.Background(), s.URL)
	if out.StatusCode != 0 {
		t.Fatalf("want status 0 on transport error, got %d", out.StatusCode)
	}
	if out.Err == "" {
		t.Fatalf("want non-empty error message")
	}
}

func TestGet_ConnectionRefused(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := s.URL
	s.Close()

	c := New(1 * time.Second)
	out := c.Get(context.Background(), url)
	if out.StatusCode != 0 || out.Err == "" {
		t.Fatalf("want transport failure, got %+v", out)
	}
}
