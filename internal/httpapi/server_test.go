package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/surgelabs/surge/internal/check"
	"github.com/surgelabs/surge/internal/domain"
	"github.com/surgelabs/surge/internal/httpapi/middleware"
	"github.com/surgelabs/surge/internal/metrics"
	"github.com/surgelabs/surge/internal/store/memory"
)

func newTestServer(stop func(), keys middleware.Keys) (*Server, *metrics.Engine) {
	e := metrics.NewEngine("books", "https://example.com/default/books", 2)
	runs := memory.New()
	_ = runs.Save(context.Background(), &domain.Run{Scenario: "books", Iterations: 10})
	return NewServer(zap.NewNop(), e, runs, stop, keys, 0, 0), e
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(nil, middleware.Keys{})
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 200 {
		t.Fatalf("want 200, got %d", resp.StatusCode)
	}
}

func TestStatus_ReflectsRunState(t *testing.T) {
	s, e := newTestServer(nil, middleware.Keys{})
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	get := func() map[string]any {
		resp, err := http.Get(ts.URL + "/api/status")
		if err != nil {
			t.Fatal(err)
		}
		defer resp.Body.Close()
		var m map[string]any
		_ = json.NewDecoder(resp.Body).Decode(&m)
		return m
	}

	if st := get()["state"]; st != "pending" {
		t.Fatalf("want pending, got %v", st)
	}
	e.Start()
	if st := get()["state"]; st != "running" {
		t.Fatalf("want running, got %v", st)
	}
	e.Finish()
	if st := get()["state"]; st != "finished" {
		t.Fatalf("want finished, got %v", st)
	}
}

func TestMetrics_ServesLiveSnapshot(t *testing.T) {
	s, e := newTestServer(nil, middleware.Keys{})
	e.Start()
	e.RecordIteration(check.Response{StatusCode: 202, LatencyMS: 7})
	e.RecordCheck("status is 200", true)

	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var snap metrics.Summary
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatal(err)
	}
	if snap.Iterations != 1 || len(snap.Checks) != 1 || snap.Checks[0].Passes != 1 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}

func TestRuns_ListsHistory(t *testing.T) {
	s, _ := newTestServer(nil, middleware.Keys{})
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/runs?limit=5")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var runs []domain.Run
	if err := json.NewDecoder(resp.Body).Decode(&runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 1 || runs[0].Iterations != 10 {
		t.Fatalf("unexpected runs: %+v", runs)
	}
}

func TestStop_RequiresAdminKey(t *testing.T) {
	stopped := false
	keys := middleware.Keys{Admin: []string{"adm_x"}}
	s, _ := newTestServer(func() { stopped = true }, keys)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	// no key -> forbidden
	resp, err := http.Post(ts.URL+"/api/stop", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("want 403, got %d", resp.StatusCode)
	}
	if stopped {
		t.Fatalf("stop must not fire without a key")
	}

	// admin key -> accepted
	req, _ := http.NewRequest(http.MethodPost, ts.URL+"/api/stop", nil)
	req.Header.Set("X-API-Key", "adm_x")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("want 202, got %d", resp.StatusCode)
	}
	if !stopped {
		t.Fatalf("stop should have fired")
	}
}

func TestReadEndpoints_RequireKeyWhenConfigured(t *testing.T) {
	keys := middleware.Keys{Public: []string{"pub_a"}}
	s, _ := newTestServer(nil, keys)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/status")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/status", nil)
	req.Header.Set("Authorization", "Bearer pub_a")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("want 200 with key, got %d", resp.StatusCode)
	}
}
