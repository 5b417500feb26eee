package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ciriously/BrowserStack-Automation-Demo/orchestrator"
	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

// Phase is where a single session currently is in its lifecycle.
type Phase string

const (
	PhaseWaiting   Phase = "waiting"
	PhaseAcquiring Phase = "acquiring"
	PhaseRunning   Phase = "running"
	PhasePassed    Phase = "passed"
	PhaseFailed    Phase = "failed"
)

// SessionRow is the live display state for one matrix cell.
type SessionRow struct {
	Phase     Phase
	SessionID string
	Reason    string
	StartedAt time.Time
	Duration  time.Duration
}

// Model renders a live dashboard for one matrix run. The orchestrator runs
// in its own goroutine and feeds the Events channel; the model only mirrors
// what it is told.
type Model struct {
	TestName    string
	Descriptors []types.CapabilityDescriptor
	Rows        map[string]*SessionRow
	Events      <-chan orchestrator.Event

	Report    *types.RunReport
	StartedAt time.Time
	Done      bool
}

// NewModel creates a dashboard for the given matrix.
func NewModel(testName string, matrix []types.CapabilityDescriptor, events <-chan orchestrator.Event) Model {
	rows := make(map[string]*SessionRow, len(matrix))
	for _, d := range matrix {
		rows[d.Key()] = &SessionRow{Phase: PhaseWaiting}
	}
	return Model{
		TestName:    testName,
		Descriptors: matrix,
		Rows:        rows,
		Events:      events,
		StartedAt:   time.Now(),
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.Events),
		tickCmd(),
	)
}

func (m Model) row(d types.CapabilityDescriptor) *SessionRow {
	row, ok := m.Rows[d.Key()]
	if !ok {
		row = &SessionRow{Phase: PhaseWaiting}
		m.Rows[d.Key()] = row
	}
	return row
}

func (m Model) counts() (passed, failed, active int) {
	for _, row := range m.Rows {
		switch row.Phase {
		case PhasePassed:
			passed++
		case PhaseFailed:
			failed++
		default:
			active++
		}
	}
	return passed, failed, active
}
