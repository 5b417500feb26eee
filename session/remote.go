package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tebeka/selenium"

	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

// DefaultPollInterval is how often remote waits re-query the page.
const DefaultPollInterval = 500 * time.Millisecond

// RemoteProvider provisions sessions on a remote WebDriver hub such as
// BrowserStack. Credentials travel inside the hub URL userinfo.
type RemoteProvider struct {
	HubURL       string
	PollInterval time.Duration
}

// NewRemoteProvider creates a provider pointed at the given hub URL.
func NewRemoteProvider(hubURL string) *RemoteProvider {
	return &RemoteProvider{HubURL: hubURL, PollInterval: DefaultPollInterval}
}

func (p *RemoteProvider) Name() string { return "browserstack" }

// Acquire opens a remote session with W3C capabilities built from the
// descriptor. BrowserStack reads the matrix cell from bstack:options.
func (p *RemoteProvider) Acquire(ctx context.Context, d types.CapabilityDescriptor, testName string) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, &ProvisioningError{Descriptor: d.Label(), Err: err}
	}
	caps := BuildCapabilities(d, testName)
	wd, err := selenium.NewRemote(caps, p.HubURL)
	if err != nil {
		return nil, &ProvisioningError{Descriptor: d.Label(), Err: err}
	}
	poll := p.PollInterval
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	log.Printf("[session] ✅ acquired %s session %s for %s", p.Name(), wd.SessionID(), d.Label())
	return &remoteSession{wd: wd, label: d.Label(), poll: poll}, nil
}

// BuildCapabilities maps a capability descriptor onto W3C capabilities with
// the bstack:options vendor block. Desktop cells carry os/osVersion, device
// cells carry deviceName/realMobile instead, and browserVersion stays
// top-level per the W3C shape.
func BuildCapabilities(d types.CapabilityDescriptor, testName string) selenium.Capabilities {
	bstack := map[string]interface{}{
		"sessionName": testName,
	}
	if d.Device != "" {
		bstack["deviceName"] = d.Device
		bstack["realMobile"] = d.RealMobile
		if d.OSVersion != "" {
			bstack["osVersion"] = d.OSVersion
		}
	} else {
		if d.OS != "" {
			bstack["os"] = d.OS
		}
		if d.OSVersion != "" {
			bstack["osVersion"] = d.OSVersion
		}
	}
	caps := selenium.Capabilities{
		"browserName":    d.Browser,
		"bstack:options": bstack,
	}
	if d.BrowserVersion != "" && d.Device == "" {
		caps["browserVersion"] = d.BrowserVersion
	}
	return caps
}

type remoteSession struct {
	wd    selenium.WebDriver
	label string
	poll  time.Duration

	quit    sync.Once
	quitErr error
}

func (s *remoteSession) ID() string { return s.wd.SessionID() }

func (s *remoteSession) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.wd.Get(url)
}

// WaitVisible polls FindElements until the selector matches. The remote
// protocol has no context plumbing, so cancellation is only observed between
// polls.
func (s *remoteSession) WaitVisible(ctx context.Context, selector string) error {
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	for {
		els, err := s.wd.FindElements(selenium.ByCSSSelector, selector)
		if err == nil && len(els) > 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%q did not appear: %w", selector, ErrWaitTimeout)
		case <-ticker.C:
		}
	}
}

func (s *remoteSession) Text(ctx context.Context, selector string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	el, err := s.wd.FindElement(selenium.ByCSSSelector, selector)
	if err != nil {
		return "", err
	}
	return el.Text()
}

func (s *remoteSession) TextAll(ctx context.Context, selector string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	els, err := s.wd.FindElements(selenium.ByCSSSelector, selector)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(els))
	for _, el := range els {
		text, err := el.Text()
		if err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	return out, nil
}

func (s *remoteSession) AttrAll(ctx context.Context, selector, attr string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	els, err := s.wd.FindElements(selenium.ByCSSSelector, selector)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(els))
	for _, el := range els {
		// Remote drivers signal a missing attribute as an error; treat it
		// as an empty value so document order is preserved.
		v, err := el.GetAttribute(attr)
		if err != nil {
			v = ""
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *remoteSession) PageSource(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.wd.PageSource()
}

// MarkStatus pushes the verdict through the browserstack_executor protocol,
// which BrowserStack intercepts instead of executing as JavaScript.
func (s *remoteSession) MarkStatus(ctx context.Context, status types.Status, reason string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload := map[string]interface{}{
		"action": "setSessionStatus",
		"arguments": map[string]string{
			"status": string(status),
			"reason": truncateReason(reason),
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode session status: %w", err)
	}
	if _, err := s.wd.ExecuteScript("browserstack_executor: "+string(raw), []interface{}{}); err != nil {
		return fmt.Errorf("failed to set session status for %s: %w", s.label, err)
	}
	return nil
}

// Teardown quits the remote session exactly once. A session can be torn down
// from the deadline watcher while the pipeline goroutine still holds it, so
// the driver handle stays valid and later calls fail at the hub instead.
func (s *remoteSession) Teardown() error {
	s.quit.Do(func() {
		if err := s.wd.Quit(); err != nil {
			s.quitErr = fmt.Errorf("failed to quit session for %s: %w", s.label, err)
		}
	})
	return s.quitErr
}

// maxReasonLen keeps verdict reasons inside what the dashboard displays.
const maxReasonLen = 255

func truncateReason(reason string) string {
	runes := []rune(reason)
	if len(runes) <= maxReasonLen {
		return reason
	}
	return string(runes[:maxReasonLen])
}
