package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Ciriously/BrowserStack-Automation-Demo/orchestrator"
)

// waitForEvent blocks on the orchestrator's event channel and delivers the
// next event as a message. Update re-arms it after every delivery.
func waitForEvent(events <-chan orchestrator.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return EventsClosedMsg{}
		}
		return SessionEventMsg{Event: ev}
	}
}

// tickCmd creates a command that ticks every 250ms to refresh timers
func tickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
