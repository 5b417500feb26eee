// Package report renders and distributes the results of a matrix run: a
// terminal summary, a Kafka run event, and an optional spreadsheet log.
package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

// PrintSummary writes the human-readable run summary. Sessions appear in
// completion order with their verdicts, translated titles, and the words
// repeated across titles.
func PrintSummary(w io.Writer, r *types.RunReport) {
	passed, failed := r.Counts()
	fmt.Fprintln(w, "\n=== Cross-Browser Run Summary ===")
	fmt.Fprintf(w, "Sessions: %d\n", r.Len())
	fmt.Fprintf(w, "Passed:   %d\n", passed)
	fmt.Fprintf(w, "Failed:   %d\n", failed)
	fmt.Fprintf(w, "Duration: %s\n", r.Duration().Round(time.Millisecond))

	for _, outcome := range r.All() {
		fmt.Fprintf(w, "\n--- %s (%s) ---\n", outcome.Descriptor.Label(), outcome.Duration().Round(time.Millisecond))
		if !outcome.Passed() {
			fmt.Fprintf(w, "❌ failed: %s\n", outcome.FailureReason)
			continue
		}
		fmt.Fprintln(w, "✅ passed")
		for i, article := range outcome.Articles {
			fmt.Fprintf(w, "  [%d] %s\n", i+1, article.Title)
			if i < len(outcome.Translations) {
				fmt.Fprintf(w, "      → %s\n", outcome.Translations[i])
			}
		}
		if len(outcome.Frequencies) > 0 {
			fmt.Fprintf(w, "  repeated words: %s\n", FormatFrequencies(outcome.Frequencies))
		} else {
			fmt.Fprintln(w, "  repeated words: none")
		}
	}
	fmt.Fprintln(w, "\n=================================")
}

// FormatFrequencies renders a frequency table as "word=count" pairs, most
// frequent first, ties alphabetical, so output is stable across runs.
func FormatFrequencies(freq types.WordFrequencyTable) string {
	words := make([]string, 0, len(freq))
	for word := range freq {
		words = append(words, word)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})

	pairs := make([]string, 0, len(words))
	for _, word := range words {
		pairs = append(pairs, fmt.Sprintf("%s=%d", word, freq[word]))
	}
	return strings.Join(pairs, ", ")
}

// ExitCode maps a run to the process exit code: zero only when every
// session passed.
func ExitCode(r *types.RunReport) int {
	if r.AllPassed() {
		return 0
	}
	return 1
}
