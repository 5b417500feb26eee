package types

import (
	"fmt"
	"strings"
)

// CapabilityDescriptor identifies one browser/OS/device combination in the
// test matrix. Instances are immutable: the orchestrator only ever reads them.
type CapabilityDescriptor struct {
	Browser        string `json:"browser"`
	BrowserVersion string `json:"browser_version,omitempty"`
	OS             string `json:"os,omitempty"`
	OSVersion      string `json:"os_version,omitempty"`
	Device         string `json:"device,omitempty"`
	RealMobile     bool   `json:"real_mobile,omitempty"`
}

// Label renders a human-readable identifier used in logs and session names,
// e.g. "Chrome latest / Windows 11" or "Safari / iPhone 14 Pro".
func (d CapabilityDescriptor) Label() string {
	browser := d.Browser
	if d.BrowserVersion != "" {
		browser = fmt.Sprintf("%s %s", d.Browser, d.BrowserVersion)
	}

	if d.Device != "" {
		return fmt.Sprintf("%s / %s", browser, d.Device)
	}

	platform := d.OS
	if d.OSVersion != "" {
		platform = fmt.Sprintf("%s %s", d.OS, d.OSVersion)
	}
	if platform == "" {
		return browser
	}
	return fmt.Sprintf("%s / %s", browser, platform)
}

// Key returns a stable slug for use as a RunReport map key.
func (d CapabilityDescriptor) Key() string {
	return slugify(d.Label())
}

func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
