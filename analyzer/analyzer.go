// Package analyzer counts repeated words across the translated titles.
package analyzer

import (
	"strings"
	"unicode"

	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

// Analyze lower-cases the titles, splits them on non-alphanumeric boundaries,
// counts occurrences across all titles combined, and returns only words whose
// count reached minCount. An empty title sequence yields an empty table.
func Analyze(titles []string, minCount int) types.WordFrequencyTable {
	if minCount < 1 {
		minCount = 1
	}

	counts := make(map[string]int)
	for _, title := range titles {
		for _, word := range tokenize(title) {
			counts[word]++
		}
	}

	table := make(types.WordFrequencyTable)
	for word, n := range counts {
		if n >= minCount {
			table[word] = n
		}
	}
	return table
}

// tokenize splits a title into lower-cased word tokens. Unicode letters and
// digits are kept, so accented Spanish words survive intact.
func tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
