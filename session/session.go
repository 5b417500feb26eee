// Package session unifies local and remote browser automation behind a single
// handle abstraction. The orchestrator acquires one handle per capability
// descriptor and drives it through navigate/wait/extract calls without knowing
// which runtime is behind it.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

// ErrWaitTimeout is wrapped by handle implementations when a waited-for page
// region never rendered within the caller's deadline.
var ErrWaitTimeout = errors.New("wait timed out")

// Handle is a live browser session. All blocking calls honor the passed
// context; WaitVisible in particular polls until the selector matches or the
// context expires.
type Handle interface {
	// ID identifies the session for logs and dashboards.
	ID() string
	// Navigate loads the given URL in the session's window.
	Navigate(ctx context.Context, url string) error
	// WaitVisible blocks until at least one element matches the CSS selector.
	WaitVisible(ctx context.Context, selector string) error
	// Text returns the text of the first element matching the CSS selector.
	Text(ctx context.Context, selector string) (string, error)
	// TextAll returns the text of every element matching the CSS selector,
	// in document order.
	TextAll(ctx context.Context, selector string) ([]string, error)
	// AttrAll returns the named attribute of every element matching the CSS
	// selector, in document order. Elements without the attribute yield "".
	AttrAll(ctx context.Context, selector, attr string) ([]string, error)
	// PageSource returns the current document's HTML.
	PageSource(ctx context.Context) (string, error)
	// MarkStatus reports the session verdict to the session's dashboard.
	// It must be called before Teardown so the verdict lands on the session.
	MarkStatus(ctx context.Context, status types.Status, reason string) error
	// Teardown releases the session. Safe to call more than once.
	Teardown() error
}

// Provider acquires sessions for capability descriptors.
type Provider interface {
	// Name identifies the provider in logs ("browserstack", "local-chrome").
	Name() string
	// Acquire provisions a session matching the descriptor, tagged with the
	// human-readable test name. Failures surface as *ProvisioningError.
	Acquire(ctx context.Context, d types.CapabilityDescriptor, testName string) (Handle, error)
}

// ProvisioningError reports that no session could be created for a
// descriptor. The matrix run continues; only this descriptor fails.
type ProvisioningError struct {
	Descriptor string
	Err        error
}

func (e *ProvisioningError) Error() string {
	return fmt.Sprintf("failed to provision session for %s: %v", e.Descriptor, e.Err)
}

func (e *ProvisioningError) Unwrap() error { return e.Err }
