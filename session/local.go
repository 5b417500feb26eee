package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/chromedp/chromedp"

	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

// LocalProvider runs sessions against a locally installed Chrome via the
// DevTools protocol. Capability descriptors are recorded for reporting but
// cannot change the browser; there is only the one Chrome.
type LocalProvider struct {
	Headless bool
}

// NewLocalProvider creates a provider for local Chrome sessions.
func NewLocalProvider(headless bool) *LocalProvider {
	return &LocalProvider{Headless: headless}
}

func (p *LocalProvider) Name() string { return "local-chrome" }

var localSessionSeq atomic.Int64

// Acquire starts a fresh Chrome and opens a tab for it. The browser is owned
// by the returned handle, not by ctx, so it survives until Teardown.
func (p *LocalProvider) Acquire(ctx context.Context, d types.CapabilityDescriptor, testName string) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ProvisioningError{Descriptor: d.Label(), Err: err}
	}
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !p.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Run with no actions launches the browser, so a missing Chrome binary
	// fails here rather than on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, &ProvisioningError{Descriptor: d.Label(), Err: err}
	}

	id := fmt.Sprintf("local-%d", localSessionSeq.Add(1))
	log.Printf("[session] ✅ acquired %s session %s for %s", p.Name(), id, d.Label())
	return &localSession{
		id:         id,
		label:      d.Label(),
		browserCtx: browserCtx,
		cancels:    []context.CancelFunc{browserCancel, allocCancel},
	}, nil
}

type localSession struct {
	id         string
	label      string
	browserCtx context.Context
	cancels    []context.CancelFunc

	quit sync.Once
}

func (s *localSession) ID() string { return s.id }

// run executes actions on the session tab while honoring the caller's
// context. chromedp actions only observe the context they run under, so the
// tab context is re-derived per call and canceled when ctx expires.
func (s *localSession) run(ctx context.Context, actions ...chromedp.Action) error {
	rctx, cancel := context.WithCancel(s.browserCtx)
	defer cancel()
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()
	err := chromedp.Run(rctx, actions...)
	close(done)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

func (s *localSession) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

func (s *localSession) WaitVisible(ctx context.Context, selector string) error {
	err := s.run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("%q did not appear: %w", selector, ErrWaitTimeout)
		}
		return err
	}
	return nil
}

func (s *localSession) Text(ctx context.Context, selector string) (string, error) {
	var out string
	if err := s.run(ctx, chromedp.Text(selector, &out, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return out, nil
}

func (s *localSession) TextAll(ctx context.Context, selector string) ([]string, error) {
	expr := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%q)).map(el => el.textContent.trim())`,
		selector,
	)
	out := []string{}
	if err := s.run(ctx, chromedp.Evaluate(expr, &out)); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *localSession) AttrAll(ctx context.Context, selector, attr string) ([]string, error) {
	// Prefer the DOM property so URL-valued attributes like href and src
	// come back absolute, as remote drivers return them.
	expr := fmt.Sprintf(
		`Array.from(document.querySelectorAll(%q)).map(el => {
			const v = el[%q];
			if (typeof v === "string" && v !== "") { return v; }
			return el.getAttribute(%q) || "";
		})`,
		selector, attr, attr,
	)
	out := []string{}
	if err := s.run(ctx, chromedp.Evaluate(expr, &out)); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *localSession) PageSource(ctx context.Context) (string, error) {
	var out string
	if err := s.run(ctx, chromedp.OuterHTML("html", &out, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return out, nil
}

// MarkStatus has no dashboard to reach locally; the verdict is logged so a
// local run still shows per-session results.
func (s *localSession) MarkStatus(ctx context.Context, status types.Status, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if status == types.StatusPassed {
		log.Printf("[session] ✅ %s (%s): %s", s.label, s.id, reason)
	} else {
		log.Printf("[session] ❌ %s (%s): %s", s.label, s.id, reason)
	}
	return nil
}

func (s *localSession) Teardown() error {
	s.quit.Do(func() {
		for _, cancel := range s.cancels {
			cancel()
		}
	})
	return nil
}
