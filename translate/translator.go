package translate

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

// ServiceError reports a translation batch that failed even after retrying.
// One surfacing fails the owning session.
type ServiceError struct {
	Provider string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("translation via %s failed: %v", e.Provider, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Translator runs title batches through a Provider. The output always has
// the same length and order as the input; a batch either translates fully or
// fails as a whole.
type Translator struct {
	provider Provider
	source   string
	target   string
	retries  int
}

// NewTranslator creates a Translator for the given language pair.
func NewTranslator(provider Provider, sourceLang, targetLang string) *Translator {
	return &Translator{
		provider: provider,
		source:   sourceLang,
		target:   targetLang,
		retries:  1,
	}
}

// TranslateTitles translates each title in order. Blank titles pass through
// unchanged without touching the provider.
func (t *Translator) TranslateTitles(ctx context.Context, titles []string) (types.TranslationResult, error) {
	out := make(types.TranslationResult, 0, len(titles))
	for i, title := range titles {
		if strings.TrimSpace(title) == "" {
			out = append(out, title)
			continue
		}
		translated, err := t.translateOne(ctx, title)
		if err != nil {
			return nil, &ServiceError{
				Provider: t.provider.Name(),
				Err:      fmt.Errorf("title %d of %d: %w", i+1, len(titles), err),
			}
		}
		out = append(out, translated)
	}
	return out, nil
}

// translateOne retries a transient per-title failure once before giving up.
func (t *Translator) translateOne(ctx context.Context, title string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= t.retries; attempt++ {
		if attempt > 0 {
			log.Printf("[translate] ⚠️ retrying after error: %v", lastErr)
		}
		translated, err := t.provider.Translate(ctx, title, t.source, t.target)
		if err == nil {
			return translated, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}
