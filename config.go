package main

import "github.com/Ciriously/BrowserStack-Automation-Demo/config"

// ListingPresets maps friendly section names to El País listing pages, so
// CI jobs can pass -listing opinion instead of a full URL. The stub preset
// points at the local fake grid's fixture site for offline smoke runs.
var ListingPresets = map[string]string{
	"opinion":    config.DefaultListingURL,
	"espana":     "https://elpais.com/espana/",
	"economia":   "https://elpais.com/economia/",
	"tecnologia": "https://elpais.com/tecnologia/",
	"stub":       "https://elpais.stub/opinion/",
}

// ResolveListingURL resolves a listing identifier to a URL.
// If the input is a preset name, returns the corresponding URL.
// Otherwise, returns the input as-is (assuming it's a direct URL).
func ResolveListingURL(listingInput string) string {
	if url, exists := ListingPresets[listingInput]; exists {
		return url
	}
	return listingInput
}
