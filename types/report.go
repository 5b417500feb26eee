package types

import (
	"sync"
	"time"
)

// RunReport collects one SessionOutcome per capability descriptor across a
// single matrix run. Workers append concurrently, one write each, keyed by
// descriptor; everything else is read-only after Finalize.
type RunReport struct {
	mu sync.Mutex

	StartedAt  time.Time                  `json:"started_at"`
	FinishedAt time.Time                  `json:"finished_at"`
	Outcomes   map[string]*SessionOutcome `json:"outcomes"`

	order []string
}

// NewRunReport creates an empty report stamped with the run start time.
func NewRunReport() *RunReport {
	return &RunReport{
		StartedAt: time.Now(),
		Outcomes:  make(map[string]*SessionOutcome),
	}
}

// Add records a completed session's outcome (thread-safe). Each descriptor is
// written at most once; a duplicate key keeps the first outcome.
func (r *RunReport) Add(outcome *SessionOutcome) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := outcome.Descriptor.Key()
	if _, exists := r.Outcomes[key]; exists {
		return
	}
	r.Outcomes[key] = outcome
	r.order = append(r.order, key)
}

// Get returns the outcome recorded for the descriptor, if any (thread-safe).
func (r *RunReport) Get(d CapabilityDescriptor) (*SessionOutcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.Outcomes[d.Key()]
	return o, ok
}

// All returns outcomes in completion order (thread-safe snapshot).
func (r *RunReport) All() []*SessionOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*SessionOutcome, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.Outcomes[key])
	}
	return out
}

// Len reports how many sessions have completed so far.
func (r *RunReport) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.order)
}

// Counts tallies outcomes by verdict.
func (r *RunReport) Counts() (passed, failed int) {
	for _, o := range r.All() {
		if o.Passed() {
			passed++
		} else {
			failed++
		}
	}
	return passed, failed
}

// AllPassed reports whether every recorded session passed. An empty report
// counts as passed.
func (r *RunReport) AllPassed() bool {
	_, failed := r.Counts()
	return failed == 0
}

// Finalize stamps the run end time. The report must not be written after this.
func (r *RunReport) Finalize() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.FinishedAt = time.Now()
}

// Duration is the wall-clock time of the whole matrix run.
func (r *RunReport) Duration() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.FinishedAt.Sub(r.StartedAt)
}
