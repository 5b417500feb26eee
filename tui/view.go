package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Ciriously/BrowserStack-Automation-Demo/report"
	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("🧪 " + m.TestName))
	b.WriteString("\n\n")

	for _, d := range m.Descriptors {
		b.WriteString(m.renderRow(d))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	passed, failed, active := m.counts()
	if m.Done {
		b.WriteString(BoxStyle.Render(m.renderSummary(passed, failed)))
		b.WriteString("\n\n")
		b.WriteString(HighlightStyle.Render("Press 'q' or Ctrl+C to exit"))
	} else {
		status := fmt.Sprintf("⏳ %d active | ✅ %d passed | ❌ %d failed | elapsed %s",
			active, passed, failed, time.Since(m.StartedAt).Round(time.Second))
		b.WriteString(InfoStyle.Render(status))
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render("Press 'q' or Ctrl+C to quit"))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderRow(d types.CapabilityDescriptor) string {
	row := m.Rows[d.Key()]
	label := fmt.Sprintf("%-40s", d.Label())

	started := row.StartedAt
	if started.IsZero() {
		started = m.StartedAt
	}
	elapsed := time.Since(started).Round(time.Second)

	switch row.Phase {
	case PhaseAcquiring:
		return InfoStyle.Render(fmt.Sprintf("🔌 %sacquiring session (%s)", label, elapsed))
	case PhaseRunning:
		return fmt.Sprintf("⏳ %s", label) + InfoStyle.Render(fmt.Sprintf("running %s (%s)", row.SessionID, elapsed))
	case PhasePassed:
		return PassStyle.Render(fmt.Sprintf("✅ %spassed in %s", label, row.Duration.Round(time.Second)))
	case PhaseFailed:
		line := FailStyle.Render(fmt.Sprintf("❌ %sfailed in %s", label, row.Duration.Round(time.Second)))
		if row.Reason != "" {
			line += "\n" + InfoStyle.Render("     "+truncate(row.Reason, 100))
		}
		return line
	default:
		return InfoStyle.Render(fmt.Sprintf("💤 %squeued", label))
	}
}

func (m Model) renderSummary(passed, failed int) string {
	var b strings.Builder

	b.WriteString(HighlightStyle.Render("Matrix Run Complete"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Sessions: %d\n", len(m.Descriptors)))
	b.WriteString(PassStyle.Render(fmt.Sprintf("Passed:   %d", passed)))
	b.WriteString("\n")
	b.WriteString(FailStyle.Render(fmt.Sprintf("Failed:   %d", failed)))
	b.WriteString("\n")

	if m.Report != nil {
		b.WriteString(fmt.Sprintf("Duration: %s\n", m.Report.Duration().Round(time.Millisecond)))
		for _, o := range m.Report.All() {
			if o.Passed() && len(o.Frequencies) > 0 {
				b.WriteString("\nRepeated words: " + report.FormatFrequencies(o.Frequencies))
				b.WriteString("\n")
				break
			}
		}
	}
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
