package types

import "time"

// Status is the final verdict for one session run.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// SessionOutcome is the complete record of one pipeline execution inside one
// browser session. It is created once by the orchestrator worker that owns the
// session and is immutable after being added to the RunReport.
type SessionOutcome struct {
	Descriptor    CapabilityDescriptor `json:"descriptor"`
	SessionID     string               `json:"session_id,omitempty"`
	Articles      []Article            `json:"articles,omitempty"`
	Translations  TranslationResult    `json:"translations,omitempty"`
	Frequencies   WordFrequencyTable   `json:"frequencies,omitempty"`
	Status        Status               `json:"status"`
	FailureReason string               `json:"failure_reason,omitempty"`
	StartedAt     time.Time            `json:"started_at"`
	FinishedAt    time.Time            `json:"finished_at"`
}

// Passed reports whether the session's pipeline completed successfully.
func (o *SessionOutcome) Passed() bool {
	return o.Status == StatusPassed
}

// Duration is the wall-clock time the session run took, including
// provisioning and teardown.
func (o *SessionOutcome) Duration() time.Duration {
	return o.FinishedAt.Sub(o.StartedAt)
}
