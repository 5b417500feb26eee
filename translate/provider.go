// Package translate renders scraped article titles into the target language.
// Providers are swappable behind a single-string interface; the Translator on
// top handles batching, ordering, and retries.
package translate

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// Provider abstracts a text translation backend.
// Implementations translate one string per call.
type Provider interface {
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
	Name() string
}

// DefaultCacheTTL is how long cached translations stay valid. Article titles
// do not change, so the value mostly bounds cache growth.
const DefaultCacheTTL = 24 * time.Hour

// NewProviderFromEnv builds the provider selected by TRANSLATE_PROVIDER.
// The free Google translation endpoint is the default; Cohere is used when
// requested and configured. When REDIS_ADDR is set the provider is wrapped
// with a Redis-backed cache, and a cache that cannot connect only costs the
// caching, never the run.
func NewProviderFromEnv() (Provider, error) {
	var p Provider
	switch name := strings.ToLower(os.Getenv("TRANSLATE_PROVIDER")); name {
	case "", "google":
		p = NewGoogleWebProvider()
	case "cohere":
		cp, err := NewCohereProvider()
		if err != nil {
			return nil, err
		}
		p = cp
	default:
		return nil, fmt.Errorf("unknown TRANSLATE_PROVIDER %q", name)
	}
	log.Printf("[translate] using %s provider", p.Name())

	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		store, err := NewRedisStore(addr, os.Getenv("REDIS_PASSWORD"), DefaultCacheTTL)
		if err != nil {
			log.Printf("[translate] ⚠️ redis cache unavailable, continuing without: %v", err)
		} else {
			log.Printf("[translate] caching translations in redis at %s", addr)
			p = NewCachedProvider(p, store)
		}
	}
	return p, nil
}
