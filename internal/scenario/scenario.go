package scenario

import (
	"context"
	"net/http"
	"time"

	"github.com/surgelabs/surge/internal/check"
)

// Getter is the HTTP capability an iteration consumes.
type Getter interface {
	Get(ctx context.Context, target string) check.Response
}

// Scenario describes the body of one virtual-user iteration: one GET
// against TargetURL, the checks to evaluate on the response, and the pause
// before the scheduler runs the next iteration.
type Scenario struct {
	Name      string
	TargetURL string
	Pause     time.Duration
	Checks    check.Set
}

// Default is the books-endpoint scenario: a single GET against the deployed
// API gateway stage. The check label is historical: the gateway replies
// 202 Accepted and the assertion tracks that, so the comparison stays at 202
// even though the label still says 200.
func Default() *Scenario {
	return &Scenario{
		Name:      "books",
		TargetURL: "https://4syb1g1pq7.execute-api.eu-west-2.amazonaws.com/default/books",
		Pause:     1 * time.Second,
		Checks: check.Set{
			{Name: "status is 200", Pred: check.StatusIs(http.StatusAccepted)},
		},
	}
}

// LocalDev is the same scenario pointed at a locally served stage. It differs
// from Default only in the URL, including the mislabeled status check.
func LocalDev() *Scenario {
	s := Default()
	s.Name = "books-local"
	s.TargetURL = "http://localhost:9000/default/books"
	return s
}

// ByName resolves a built-in scenario by its configured name. Anything that
// isn't "books-local" gets the deployed-gateway scenario; preflight rejects
// unknown names before a run starts.
func ByName(name string) *Scenario {
	if name == "books-local" {
		return LocalDev()
	}
	return Default()
}

// Iteration executes one virtual-user pass: issue the GET, evaluate every
// check against the response, record the outcomes, then pause. Exactly one
// request and one pause happen per call, and the pause always follows the
// recording, whatever the outcomes were. A transport failure is not an
// error here: the checks see status 0 and fail on their own terms.
func (s *Scenario) Iteration(ctx context.Context, g Getter, rec check.Recorder) check.Response {
	resp := g.Get(ctx, s.TargetURL)
	for _, o := range s.Checks.Eval(resp) {
		rec.RecordCheck(o.Name, o.Pass)
	}
	pause(ctx, s.Pause)
	return resp
}

// pause sleeps for d but wakes early when ctx is cancelled, so a stopped run
// doesn't hang on sleeping virtual users.
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
