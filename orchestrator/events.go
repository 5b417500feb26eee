package orchestrator

import "github.com/Ciriously/BrowserStack-Automation-Demo/types"

// EventKind tags a progress notification.
type EventKind int

const (
	// EventAcquiring fires when a worker starts provisioning its session.
	EventAcquiring EventKind = iota
	// EventRunning fires once the session is live and the pipeline starts.
	EventRunning
	// EventFinished fires after the verdict is recorded.
	EventFinished
)

// Event is a progress notification from a matrix run. Terminal UIs consume
// these; delivery is best effort and never blocks a worker.
type Event struct {
	Kind       EventKind
	Descriptor types.CapabilityDescriptor
	SessionID  string
	Outcome    *types.SessionOutcome
}
