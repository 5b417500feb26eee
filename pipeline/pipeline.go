// Package pipeline chains extraction, translation, and frequency analysis
// into the unit of work one browser session performs. Stage names travel in
// errors so a session verdict can say where the run died.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"github.com/Ciriously/BrowserStack-Automation-Demo/analyzer"
	"github.com/Ciriously/BrowserStack-Automation-Demo/scraper"
	"github.com/Ciriously/BrowserStack-Automation-Demo/session"
	"github.com/Ciriously/BrowserStack-Automation-Demo/translate"
	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

// Stage names as they appear in failure reasons.
const (
	StageExtract   = "extract"
	StageTranslate = "translate"
	StageAnalyze   = "analyze"
)

// Error wraps a stage failure with the stage that produced it.
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Result is everything one session produced.
type Result struct {
	Articles     []types.Article
	Translations types.TranslationResult
	Frequencies  types.WordFrequencyTable
}

// Pipeline runs scrape, translate, analyze against one session at a time.
// It is safe to share across sessions; all per-run state stays on the stack.
type Pipeline struct {
	scraper    *scraper.Scraper
	translator *translate.Translator
	listingURL string
	count      int
	minCount   int
}

// New assembles a pipeline around the given stages.
func New(s *scraper.Scraper, t *translate.Translator, listingURL string, articleCount, minWordCount int) *Pipeline {
	return &Pipeline{
		scraper:    s,
		translator: t,
		listingURL: listingURL,
		count:      articleCount,
		minCount:   minWordCount,
	}
}

// Run drives the session through all stages. The first stage failure aborts
// the run; later stages never see partial input.
func (p *Pipeline) Run(ctx context.Context, sess session.Handle) (*Result, error) {
	articles, err := p.scraper.Extract(ctx, sess, p.listingURL, p.count)
	if err != nil {
		return nil, &Error{Stage: StageExtract, Err: err}
	}
	log.Printf("[pipeline] [%s] extracted %d articles", sess.ID(), len(articles))

	titles := make([]string, len(articles))
	for i, a := range articles {
		titles[i] = a.Title
	}
	translations, err := p.translator.TranslateTitles(ctx, titles)
	if err != nil {
		return nil, &Error{Stage: StageTranslate, Err: err}
	}
	log.Printf("[pipeline] [%s] translated %d titles", sess.ID(), len(translations))

	if len(translations) != len(titles) {
		return nil, &Error{
			Stage: StageAnalyze,
			Err:   fmt.Errorf("got %d translations for %d titles", len(translations), len(titles)),
		}
	}
	frequencies := analyzer.Analyze(translations, p.minCount)
	log.Printf("[pipeline] [%s] %d words repeated across titles", sess.ID(), len(frequencies))

	return &Result{
		Articles:     articles,
		Translations: translations,
		Frequencies:  frequencies,
	}, nil
}
