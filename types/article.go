package types

// Article is one extracted content item: the title and concatenated body text
// of a single opinion piece, in listing order.
type Article struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	URL      string `json:"url"`
	ImageURL string `json:"image_url,omitempty"`
}

// TranslationResult is the ordered sequence of translated titles. Index i
// corresponds to the article at index i of the extracted sequence.
type TranslationResult []string

// WordFrequencyTable maps normalized words to occurrence counts, restricted to
// words that met the configured repetition threshold.
type WordFrequencyTable map[string]int
