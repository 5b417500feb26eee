package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ciriously/BrowserStack-Automation-Demo/orchestrator"
	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case SessionEventMsg:
		return m.handleSessionEvent(msg)
	case EventsClosedMsg:
		return m, nil
	case RunFinishedMsg:
		return m.handleRunFinished(msg)
	case TickMsg:
		if m.Done {
			return m, nil
		}
		return m, tickCmd()
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	}
	return m, nil
}

// handleSessionEvent mirrors one orchestrator event into its row.
func (m Model) handleSessionEvent(msg SessionEventMsg) (tea.Model, tea.Cmd) {
	ev := msg.Event
	row := m.row(ev.Descriptor)

	switch ev.Kind {
	case orchestrator.EventAcquiring:
		row.Phase = PhaseAcquiring
		row.StartedAt = time.Now()
	case orchestrator.EventRunning:
		row.Phase = PhaseRunning
		row.SessionID = ev.SessionID
	case orchestrator.EventFinished:
		if ev.Outcome != nil {
			applyOutcome(row, ev.Outcome)
		}
	}

	if m.Done {
		return m, nil
	}
	return m, waitForEvent(m.Events)
}

// handleRunFinished stores the final report and reconciles every row with
// it, which also repairs rows whose events were dropped under load.
func (m Model) handleRunFinished(msg RunFinishedMsg) (tea.Model, tea.Cmd) {
	m.Done = true
	m.Report = msg.Report
	if m.Report != nil {
		for _, outcome := range m.Report.All() {
			applyOutcome(m.row(outcome.Descriptor), outcome)
		}
	}
	return m, nil
}

func applyOutcome(row *SessionRow, outcome *types.SessionOutcome) {
	if outcome.Passed() {
		row.Phase = PhasePassed
	} else {
		row.Phase = PhaseFailed
	}
	row.Reason = outcome.FailureReason
	row.Duration = outcome.Duration()
}
