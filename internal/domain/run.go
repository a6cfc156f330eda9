package domain

import (
	"time"

	"github.com/surgelabs/surge/internal/metrics"
)

// Run is one persisted end-of-run summary row, kept so consecutive runs
// against the same target can be compared.
type Run struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Scenario       string    `json:"scenario"`
	TargetURL      string    `json:"target_url"`
	VUs            int       `json:"vus"`
	Iterations     uint64    `json:"iterations"`
	RequestsFailed uint64    `json:"requests_failed"`
	ChecksFailed   uint64    `json:"checks_failed"`
	P50MS          float64   `json:"p50_ms"`
	P95MS          float64   `json:"p95_ms"`
	P99MS          float64   `json:"p99_ms"`
	ThroughputRPS  float64   `json:"throughput_rps"`
	StartedAt      time.Time `json:"started_at"`
	ElapsedMS      int64     `json:"elapsed_ms"`
}

// RunFromSummary flattens a metrics summary into a Run row.
func RunFromSummary(s metrics.Summary) *Run {
	return &Run{
		Scenario:       s.Scenario,
		TargetURL:      s.TargetURL,
		VUs:            s.VUs,
		Iterations:     s.Iterations,
		RequestsFailed: s.RequestsFailed,
		ChecksFailed:   s.ChecksFailed(),
		P50MS:          s.P50MS,
		P95MS:          s.P95MS,
		P99MS:          s.P99MS,
		ThroughputRPS:  s.Throughput,
		StartedAt:      s.StartedAt,
		ElapsedMS:      s.Elapsed.Milliseconds(),
	}
}
