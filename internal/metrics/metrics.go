package metrics

import (
	"sync"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"

	"github.com/surgelabs/surge/internal/check"
)

const (
	maxRecordableLatencyNS = 300000000000
	sigFigs                = 5
)

// CheckStat aggregates one named check across all virtual users.
type CheckStat struct {
	Name   string `json:"name"`
	Passes uint64 `json:"passes"`
	Fails  uint64 `json:"fails"`
}

// Engine collects iteration latencies and check outcomes for a single run.
// It is shared by every virtual user, so all recording goes through a mutex.
type Engine struct {
	mu             sync.Mutex
	hist           *hdrhistogram.Histogram
	checks         map[string]*CheckStat
	order          []string
	iterations     uint64
	requestsFailed uint64
	started        time.Time
	finished       time.Time

	scenario string
	target   string
	vus      int
}

func NewEngine(scenario, target string, vus int) *Engine {
	return &Engine{
		hist:     hdrhistogram.New(1, maxRecordableLatencyNS, sigFigs),
		checks:   make(map[string]*CheckStat),
		scenario: scenario,
		target:   target,
		vus:      vus,
	}
}

// Start marks the beginning of the run.
func (e *Engine) Start() {
	e.mu.Lock()
	e.started = time.Now()
	e.finished = time.Time{}
	e.mu.Unlock()
}

// Finish freezes the elapsed clock.
func (e *Engine) Finish() {
	e.mu.Lock()
	e.finished = time.Now()
	e.mu.Unlock()
}

// RecordCheck implements check.Recorder.
func (e *Engine) RecordCheck(name string, pass bool) {
	e.mu.Lock()
	st := e.checks[name]
	if st == nil {
		st = &CheckStat{Name: name}
		e.checks[name] = st
		e.order = append(e.order, name)
	}
	if pass {
		st.Passes++
	} else {
		st.Fails++
	}
	e.mu.Unlock()
}

// RecordIteration accounts one completed iteration. A response with an
// error string counts as a failed request; its latency (time spent before
// the transport gave up) is still recorded.
func (e *Engine) RecordIteration(resp check.Response) {
	ns := int64(resp.LatencyMS * 1e6)
	if ns < 1 {
		ns = 1
	}
	e.mu.Lock()
	e.iterations++
	if resp.Err != "" {
		e.requestsFailed++
	}
	_ = e.hist.RecordValue(ns)
	e.mu.Unlock()
}

// Running reports whether the run has started and not yet finished.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return !e.started.IsZero() && e.finished.IsZero()
}

// Snapshot returns a point-in-time Summary. Safe to call mid-run.
func (e *Engine) Snapshot() Summary {
	e.mu.Lock()
	defer e.mu.Unlock()

	var elapsed time.Duration
	switch {
	case e.started.IsZero():
	case e.finished.IsZero():
		elapsed = time.Since(e.started)
	default:
		elapsed = e.finished.Sub(e.started)
	}

	checks := make([]CheckStat, 0, len(e.order))
	for _, name := range e.order {
		checks = append(checks, *e.checks[name])
	}

	s := Summary{
		Scenario:       e.scenario,
		TargetURL:      e.target,
		VUs:            e.vus,
		Iterations:     e.iterations,
		RequestsFailed: e.requestsFailed,
		Checks:         checks,
		Elapsed:        elapsed,
		StartedAt:      e.started,
		hist:           hdrhistogram.Import(e.hist.Export()),
	}
	if e.iterations > 0 {
		s.P50MS = float64(s.hist.ValueAtQuantile(50)) / 1e6
		s.P95MS = float64(s.hist.ValueAtQuantile(95)) / 1e6
		s.P99MS = float64(s.hist.ValueAtQuantile(99)) / 1e6
		s.MaxMS = float64(s.hist.Max()) / 1e6
	}
	if sec := elapsed.Seconds(); sec > 0 {
		s.Throughput = float64(e.iterations) / sec
	}
	return s
}
