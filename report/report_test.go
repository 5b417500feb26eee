package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/IBM/sarama/mocks"

	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

func sampleReport() *types.RunReport {
	r := types.NewRunReport()
	now := time.Now()

	r.Add(&types.SessionOutcome{
		Descriptor: types.CapabilityDescriptor{
			Browser: "Chrome", BrowserVersion: "latest", OS: "Windows", OSVersion: "11",
		},
		Status:       types.StatusPassed,
		Articles:     []types.Article{{Title: "El gobierno en crisis", URL: "https://example.test/a"}},
		Translations: types.TranslationResult{"The government in crisis"},
		Frequencies:  types.WordFrequencyTable{"government": 2},
		StartedAt:    now.Add(-12 * time.Second),
		FinishedAt:   now,
	})
	r.Add(&types.SessionOutcome{
		Descriptor: types.CapabilityDescriptor{
			Browser: "Safari", Device: "iPhone 14 Pro", OSVersion: "16", RealMobile: true,
		},
		Status:       types.StatusPassed,
		Articles:     []types.Article{{Title: "La economía crece", URL: "https://example.test/b"}},
		Translations: types.TranslationResult{"The economy grows"},
		Frequencies:  types.WordFrequencyTable{},
		StartedAt:    now.Add(-15 * time.Second),
		FinishedAt:   now,
	})
	r.Add(&types.SessionOutcome{
		Descriptor: types.CapabilityDescriptor{
			Browser: "Firefox", BrowserVersion: "latest", OS: "Windows", OSVersion: "10",
		},
		Status:        types.StatusFailed,
		FailureReason: "extract stage failed: failed to load https://example.test: connection reset",
		StartedAt:     now.Add(-8 * time.Second),
		FinishedAt:    now,
	})
	r.Finalize()
	return r
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, sampleReport())
	out := buf.String()

	for _, want := range []string{
		"Sessions: 3",
		"Passed:   2",
		"Failed:   1",
		"Chrome latest / Windows 11",
		"El gobierno en crisis",
		"→ The government in crisis",
		"repeated words: government=2",
		"repeated words: none",
		"❌ failed: extract stage failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q\n%s", want, out)
		}
	}
}

func TestFormatFrequencies(t *testing.T) {
	got := FormatFrequencies(types.WordFrequencyTable{"beta": 2, "alpha": 2, "gamma": 5})
	want := "gamma=5, alpha=2, beta=2"
	if got != want {
		t.Errorf("FormatFrequencies = %q, want %q", got, want)
	}
}

func TestExitCode(t *testing.T) {
	r := types.NewRunReport()
	r.Add(&types.SessionOutcome{
		Descriptor: types.CapabilityDescriptor{Browser: "Chrome"},
		Status:     types.StatusPassed,
	})
	r.Finalize()
	if code := ExitCode(r); code != 0 {
		t.Errorf("all-pass exit code = %d, want 0", code)
	}

	if code := ExitCode(sampleReport()); code != 1 {
		t.Errorf("failing-run exit code = %d, want 1", code)
	}
}

func TestBuildRunEvent(t *testing.T) {
	event := BuildRunEvent("El Pais Scraper", sampleReport())

	if event.Test != "El Pais Scraper" {
		t.Errorf("event.Test = %q", event.Test)
	}
	if event.Passed != 2 || event.Failed != 1 {
		t.Errorf("event counts = %d/%d, want 2/1", event.Passed, event.Failed)
	}
	if len(event.Sessions) != 3 {
		t.Fatalf("event has %d sessions, want 3", len(event.Sessions))
	}
	for _, s := range event.Sessions {
		if s.Key == "" || s.Label == "" {
			t.Errorf("session entry missing key or label: %+v", s)
		}
		if s.Status != "passed" && s.Status != "failed" {
			t.Errorf("session status = %q", s.Status)
		}
		if s.DurationSeconds <= 0 {
			t.Errorf("session %s duration = %f, want > 0", s.Key, s.DurationSeconds)
		}
	}
}

func TestPublishRunSendsRunEvent(t *testing.T) {
	mp := mocks.NewSyncProducer(t, nil)
	mp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event RunEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return fmt.Errorf("payload is not a run event: %w", err)
		}
		if event.Passed != 2 || event.Failed != 1 {
			return fmt.Errorf("event counts = %d/%d, want 2/1", event.Passed, event.Failed)
		}
		if len(event.Sessions) != 3 {
			return fmt.Errorf("event has %d sessions, want 3", len(event.Sessions))
		}
		return nil
	})

	p := &Publisher{producer: mp, topic: "harness.run-events"}
	if err := p.PublishRun("El Pais Scraper", sampleReport()); err != nil {
		t.Fatalf("PublishRun failed: %v", err)
	}
	if err := mp.Close(); err != nil {
		t.Fatalf("unmet producer expectations: %v", err)
	}
}
