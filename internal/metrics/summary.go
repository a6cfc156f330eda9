package metrics

import (
	"fmt"
	"os"
	"strings"
	"time"

	hdrhistogram "github.com/HdrHistogram/hdrhistogram-go"
)

var defaultPercentiles = []float64{
	10, 20, 30, 40, 50, 60, 70, 80, 90, 95, 99, 99.9, 99.99, 99.999,
}

// Summary is the aggregate result of a run (or of a run in progress).
type Summary struct {
	Scenario       string        `json:"scenario"`
	TargetURL      string        `json:"target_url"`
	VUs            int           `json:"vus"`
	Iterations     uint64        `json:"iterations"`
	RequestsFailed uint64        `json:"requests_failed"`
	Checks         []CheckStat   `json:"checks"`
	P50MS          float64       `json:"p50_ms"`
	P95MS          float64       `json:"p95_ms"`
	P99MS          float64       `json:"p99_ms"`
	MaxMS          float64       `json:"max_ms"`
	Throughput     float64       `json:"throughput"`
	Elapsed        time.Duration `json:"elapsed_ns"`
	StartedAt      time.Time     `json:"started_at"`

	hist *hdrhistogram.Histogram
}

// ChecksFailed sums failures across all checks.
func (s Summary) ChecksFailed() uint64 {
	var n uint64
	for _, c := range s.Checks {
		n += c.Fails
	}
	return n
}

// String renders the end-of-run report printed to stdout.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", s.Scenario)
	fmt.Fprintf(&b, "target:   %s\n", s.TargetURL)
	fmt.Fprintf(&b, "vus=%d iterations=%d failed_requests=%d elapsed=%s throughput=%.2f/s\n",
		s.VUs, s.Iterations, s.RequestsFailed, s.Elapsed.Round(time.Millisecond), s.Throughput)
	fmt.Fprintf(&b, "latency: p50=%.2fms p95=%.2fms p99=%.2fms max=%.2fms\n",
		s.P50MS, s.P95MS, s.P99MS, s.MaxMS)
	for _, c := range s.Checks {
		total := c.Passes + c.Fails
		pct := 0.0
		if total > 0 {
			pct = float64(c.Passes) / float64(total) * 100
		}
		fmt.Fprintf(&b, "check %q: %d/%d passed (%.1f%%)\n", c.Name, c.Passes, total, pct)
	}
	return b.String()
}

// WriteDistribution writes the latency distribution to file in the format
// plottable by http://hdrhistogram.github.io/HdrHistogram/plotFiles.html.
func (s Summary) WriteDistribution(file string) error {
	if s.hist == nil {
		return fmt.Errorf("no latency samples recorded")
	}
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteString("Value    Percentile    TotalCount    1/(1-Percentile)\n\n"); err != nil {
		return err
	}
	for _, p := range defaultPercentiles {
		value := float64(s.hist.ValueAtQuantile(p)) / 1e6 // ns -> ms
		oneBy := 1 / (1 - (p / 100))
		if p >= 100 {
			oneBy = 1e7
		}
		if _, err := fmt.Fprintf(f, "%f    %f        %d            %f\n",
			value, p/100, s.hist.TotalCount(), oneBy); err != nil {
			return err
		}
	}
	return nil
}
