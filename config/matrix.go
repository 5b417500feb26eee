package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

// DefaultMatrix returns the five browser/OS/device combinations the harness
// validates against when no capability file is supplied.
func DefaultMatrix() []types.CapabilityDescriptor {
	return []types.CapabilityDescriptor{
		{Browser: "Chrome", BrowserVersion: "latest", OS: "Windows", OSVersion: "11"},
		{Browser: "Safari", BrowserVersion: "latest", OS: "OS X", OSVersion: "Sonoma"},
		{Browser: "Firefox", BrowserVersion: "latest", OS: "Windows", OSVersion: "10"},
		{Browser: "Safari", Device: "iPhone 14 Pro", OSVersion: "16", RealMobile: true},
		{Browser: "Chrome", Device: "Samsung Galaxy S23", OSVersion: "13.0", RealMobile: true},
	}
}

// LoadMatrix reads a capability matrix from a JSON file: an array of
// descriptors, at minimum naming a browser each.
func LoadMatrix(path string) ([]types.CapabilityDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read capability file: %w", err)
	}

	var matrix []types.CapabilityDescriptor
	if err := json.Unmarshal(data, &matrix); err != nil {
		return nil, fmt.Errorf("failed to parse capability file %s: %w", path, err)
	}

	if len(matrix) == 0 {
		return nil, fmt.Errorf("capability file %s contains no entries", path)
	}
	for i, d := range matrix {
		if d.Browser == "" {
			return nil, fmt.Errorf("capability entry %d is missing a browser name", i)
		}
	}
	return matrix, nil
}

// Matrix resolves the capability matrix for this run: the file named by
// CapsFile when set, the built-in default otherwise.
func (c Config) Matrix() ([]types.CapabilityDescriptor, error) {
	if c.CapsFile == "" {
		return DefaultMatrix(), nil
	}
	return LoadMatrix(c.CapsFile)
}
