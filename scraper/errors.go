package scraper

import "fmt"

// NavigationError reports that a page never loaded. The whole extraction run
// is abandoned when one surfaces; partial article lists are never returned.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ExtractionError reports that a loaded page did not yield the expected
// content for a selector.
type ExtractionError struct {
	URL      string
	Selector string
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("failed to extract %q from %s: %v", e.Selector, e.URL, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
