package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/surgelabs/surge/internal/httpapi/middleware"
	"github.com/surgelabs/surge/internal/metrics"
	"github.com/surgelabs/surge/internal/store"
)

// Server is the control API served alongside a run: live metrics for
// dashboards, run history, and an admin-gated stop switch.
type Server struct {
	Logger *zap.Logger
	Engine *metrics.Engine
	Runs   store.RunStore
	Stop   func() // cancels the run context
	Keys   middleware.Keys
	RPM    int
	Burst  int
}

func NewServer(l *zap.Logger, e *metrics.Engine, runs store.RunStore, stop func(), keys middleware.Keys, rpm, burst int) *Server {
	return &Server{Logger: l, Engine: e, Runs: runs, Stop: stop, Keys: keys, RPM: rpm, Burst: burst}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(g chi.Router) {
		g.Use(middleware.RateLimit(s.RPM, s.Burst))
		g.Use(middleware.RequireAny(s.Keys))
		g.Get("/api/status", s.handleStatus)
		g.Get("/api/metrics", s.handleMetrics)
		g.Get("/api/runs", s.handleRuns)
	})

	r.Group(func(g chi.Router) {
		g.Use(middleware.RequireAdmin(s.Keys))
		g.Post("/api/stop", s.handleStop)
	})

	return r
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.Engine.Snapshot()
	state := "finished"
	if s.Engine.Running() {
		state = "running"
	} else if snap.StartedAt.IsZero() {
		state = "pending"
	}
	writeJSON(w, map[string]any{
		"state":      state,
		"scenario":   snap.Scenario,
		"target":     snap.TargetURL,
		"vus":        snap.VUs,
		"iterations": snap.Iterations,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap := s.Engine.Snapshot()
	writeJSON(w, &snap)
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := s.Runs.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, runs)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.Logger.Info("run_stop_requested", zap.String("remote", r.RemoteAddr))
	if s.Stop != nil {
		s.Stop()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]bool{"stopping": true})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
