package check

// Response is the per-iteration response descriptor checks are evaluated
// against. StatusCode is 0 when the request never produced a response
// (transport error, timeout); Err carries the error text in that case.
type Response struct {
	StatusCode int     `json:"status_code"`
	LatencyMS  float64 `json:"latency_ms"`
	Err        string  `json:"err,omitempty"`
}

// Check is a named boolean assertion over a Response. A failing check is
// reported to the Recorder and never alters control flow.
type Check struct {
	Name string
	Pred func(Response) bool
}

// Set is the ordered list of checks a scenario evaluates each iteration.
type Set []Check

// Outcome is one evaluated check.
type Outcome struct {
	Name string `json:"name"`
	Pass bool   `json:"pass"`
}

// Recorder receives check outcomes. The metrics engine implements it.
type Recorder interface {
	RecordCheck(name string, pass bool)
}

// StatusIs returns a predicate that compares the response status code
// against the given literal.
func StatusIs(code int) func(Response) bool {
	return func(r Response) bool { return r.StatusCode == code }
}

// Eval runs every check in the set against resp.
func (s Set) Eval(resp Response) []Outcome {
	out := make([]Outcome, 0, len(s))
	for _, c := range s {
		out = append(out, Outcome{Name: c.Name, Pass: c.Pred(resp)})
	}
	return out
}
