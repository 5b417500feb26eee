package tui

import (
	"time"

	"github.com/Ciriously/BrowserStack-Automation-Demo/orchestrator"
	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

// SessionEventMsg carries one orchestrator progress event.
type SessionEventMsg struct {
	Event orchestrator.Event
}

// EventsClosedMsg signals the orchestrator closed its event stream.
type EventsClosedMsg struct{}

// RunFinishedMsg delivers the final report once the whole matrix is done.
type RunFinishedMsg struct {
	Report *types.RunReport
}

// TickMsg drives elapsed-time redraws while sessions run.
type TickMsg struct {
	Time time.Time
}
