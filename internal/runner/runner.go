package runner

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/surgelabs/surge/internal/metrics"
	"github.com/surgelabs/surge/internal/scenario"
)

// Runner schedules virtual users. Each VU loops the scenario's iteration
// body until the run duration elapses, its iteration budget is spent, or
// the context is cancelled. VUs share nothing but the metrics engine; one
// VU's pause never delays another.
type Runner struct {
	Logger     *zap.Logger
	Scenario   *scenario.Scenario
	Client     scenario.Getter
	Engine     *metrics.Engine
	VUs        int
	Duration   time.Duration // 0 = no time bound
	Iterations int           // per-VU budget, 0 = no bound
}

func New(
	logger *zap.Logger,
	sc *scenario.Scenario,
	client scenario.Getter,
	engine *metrics.Engine,
	vus int,
	duration time.Duration,
	iterations int,
) *Runner {
	if vus < 1 {
		vus = 1
	}
	if duration < 0 {
		duration = 0
	}
	if iterations < 0 {
		iterations = 0
	}
	return &Runner{
		Logger:     logger,
		Scenario:   sc,
		Client:     client,
		Engine:     engine,
		VUs:        vus,
		Duration:   duration,
		Iterations: iterations,
	}
}

// Run executes the load test and returns the final summary. It blocks until
// every VU has stopped.
func (r *Runner) Run(ctx context.Context) metrics.Summary {
	if r.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Duration)
		defer cancel()
	}

	r.Engine.Start()
	r.Logger.Info("run_started",
		zap.String("scenario", r.Scenario.Name),
		zap.String("target", r.Scenario.TargetURL),
		zap.Int("vus", r.VUs),
		zap.Duration("duration", r.Duration),
		zap.Int("iterations_per_vu", r.Iterations),
	)

	var wg sync.WaitGroup
	for i := 0; i < r.VUs; i++ {
		vu := i + 1
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.runVU(ctx, vu)
		}()
	}
	wg.Wait()

	r.Engine.Finish()
	s := r.Engine.Snapshot()
	r.Logger.Info("run_finished",
		zap.Uint64("iterations", s.Iterations),
		zap.Uint64("requests_failed", s.RequestsFailed),
		zap.Uint64("checks_failed", s.ChecksFailed()),
		zap.Duration("elapsed", s.Elapsed),
	)
	return s
}

func (r *Runner) runVU(ctx context.Context, vu int) {
	n := 0
	for {
		if ctx.Err() != nil {
			break
		}
		resp := r.Scenario.Iteration(ctx, r.Client, r.Engine)
		r.Engine.RecordIteration(resp)
		if resp.Err != "" {
			r.Logger.Debug("iteration_request_failed",
				zap.Int("vu", vu),
				zap.String("reason", resp.Err),
			)
		}
		n++
		if r.Iterations > 0 && n >= r.Iterations {
			break
		}
	}
	r.Logger.Debug("vu_stopped", zap.Int("vu", vu), zap.Int("iterations", n))
}
