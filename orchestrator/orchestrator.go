// Package orchestrator fans a capability matrix out into parallel browser
// sessions, runs the article pipeline in each, and gathers one verdict per
// matrix cell. Every session gets its own wall-clock budget; a hung session
// is torn down and reported as failed without stalling the rest of the run.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Ciriously/BrowserStack-Automation-Demo/config"
	"github.com/Ciriously/BrowserStack-Automation-Demo/pipeline"
	"github.com/Ciriously/BrowserStack-Automation-Demo/session"
	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

// verdictTimeout bounds the status report and teardown of a finished
// session. It is separate from the session budget so a timed-out session
// can still push its failed verdict to the dashboard.
const verdictTimeout = 30 * time.Second

// Runner is the work one live session performs. *pipeline.Pipeline is the
// production implementation.
type Runner interface {
	Run(ctx context.Context, sess session.Handle) (*pipeline.Result, error)
}

// Config carries the run-wide knobs.
type Config struct {
	// SessionBudget is the wall-clock limit for one session, acquisition
	// included. Zero falls back to the default.
	SessionBudget time.Duration
	// TestName tags sessions on the provider's dashboard.
	TestName string
	// Events receives progress notifications when non-nil.
	Events chan<- Event
}

// Orchestrator runs the matrix.
type Orchestrator struct {
	provider session.Provider
	runner   Runner
	cfg      Config
}

// New assembles an orchestrator around a session provider and a runner.
func New(provider session.Provider, runner Runner, cfg Config) *Orchestrator {
	if cfg.SessionBudget <= 0 {
		cfg.SessionBudget = config.DefaultSessionBudget
	}
	if cfg.TestName == "" {
		cfg.TestName = config.DefaultTestName
	}
	return &Orchestrator{provider: provider, runner: runner, cfg: cfg}
}

// RunMatrix starts one worker per descriptor and blocks until every session
// has a recorded outcome. It always returns a complete report; per-session
// failures are verdicts, not errors.
func (o *Orchestrator) RunMatrix(ctx context.Context, matrix []types.CapabilityDescriptor) *types.RunReport {
	report := types.NewRunReport()
	log.Printf("[orchestrator] 🚀 starting %d parallel sessions on %s", len(matrix), o.provider.Name())

	var wg sync.WaitGroup
	for _, d := range matrix {
		wg.Add(1)
		go func(d types.CapabilityDescriptor) {
			defer wg.Done()
			outcome := o.runOne(ctx, d)
			report.Add(outcome)
			o.emit(Event{Kind: EventFinished, Descriptor: d, Outcome: outcome})
		}(d)
	}
	wg.Wait()

	report.Finalize()
	passed, failed := report.Counts()
	log.Printf("[orchestrator] matrix finished in %s: %d passed, %d failed", report.Duration().Round(time.Millisecond), passed, failed)
	return report
}

// runOne owns the full lifecycle of a single session: acquire, run the
// pipeline under the budget, report the verdict, tear down.
func (o *Orchestrator) runOne(parent context.Context, d types.CapabilityDescriptor) *types.SessionOutcome {
	outcome := &types.SessionOutcome{Descriptor: d, StartedAt: time.Now()}
	ctx, cancel := context.WithTimeout(parent, o.cfg.SessionBudget)
	defer cancel()

	o.emit(Event{Kind: EventAcquiring, Descriptor: d})
	sess, err := o.provider.Acquire(ctx, d, o.cfg.TestName)
	if err != nil {
		outcome.Status = types.StatusFailed
		outcome.FailureReason = err.Error()
		outcome.FinishedAt = time.Now()
		log.Printf("[orchestrator] ❌ %s: %v", d.Label(), err)
		return outcome
	}
	outcome.SessionID = sess.ID()
	o.emit(Event{Kind: EventRunning, Descriptor: d, SessionID: sess.ID()})

	type pipeDone struct {
		result *pipeline.Result
		err    error
	}
	resultCh := make(chan pipeDone, 1)
	go func() {
		result, err := o.runner.Run(ctx, sess)
		resultCh <- pipeDone{result: result, err: err}
	}()

	select {
	case done := <-resultCh:
		if done.err != nil {
			outcome.Status = types.StatusFailed
			// An error that arrives together with the expired budget is
			// the budget's fault, whichever channel won the race.
			if ctx.Err() != nil {
				outcome.FailureReason = fmt.Sprintf("Timeout: session exceeded its %s budget", o.cfg.SessionBudget)
			} else {
				outcome.FailureReason = done.err.Error()
			}
			log.Printf("[orchestrator] ❌ %s: %v", d.Label(), done.err)
		} else {
			outcome.Status = types.StatusPassed
			outcome.Articles = done.result.Articles
			outcome.Translations = done.result.Translations
			outcome.Frequencies = done.result.Frequencies
			log.Printf("[orchestrator] ✅ %s: %d articles through the pipeline", d.Label(), len(outcome.Articles))
		}
	case <-ctx.Done():
		outcome.Status = types.StatusFailed
		outcome.FailureReason = fmt.Sprintf("Timeout: session exceeded its %s budget", o.cfg.SessionBudget)
		log.Printf("[orchestrator] ⏱️ %s: %s", d.Label(), outcome.FailureReason)
	}

	// Verdict first, teardown second. Tearing down a hung session is also
	// what unblocks its abandoned pipeline goroutine.
	o.finishSession(sess, d, outcome)
	outcome.FinishedAt = time.Now()
	return outcome
}

// finishSession pushes the verdict to the session's dashboard and releases
// the session. It runs on a fresh context so an expired budget cannot
// swallow the verdict.
func (o *Orchestrator) finishSession(sess session.Handle, d types.CapabilityDescriptor, outcome *types.SessionOutcome) {
	ctx, cancel := context.WithTimeout(context.Background(), verdictTimeout)
	defer cancel()

	reason := outcome.FailureReason
	if outcome.Status == types.StatusPassed {
		reason = fmt.Sprintf("Scraped, translated and analysed %d articles", len(outcome.Articles))
	}
	if err := sess.MarkStatus(ctx, outcome.Status, reason); err != nil {
		log.Printf("[orchestrator] ⚠️ could not report %s verdict for %s: %v", outcome.Status, d.Label(), err)
	}
	if err := sess.Teardown(); err != nil {
		log.Printf("[orchestrator] ⚠️ teardown failed for %s: %v", d.Label(), err)
	}
}

func (o *Orchestrator) emit(ev Event) {
	if o.cfg.Events == nil {
		return
	}
	select {
	case o.cfg.Events <- ev:
	default:
	}
}
