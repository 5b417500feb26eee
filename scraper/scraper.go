// Package scraper walks the El País opinion section through a live browser
// session and extracts the leading articles. It only talks to the
// session.Handle interface, so the same extraction runs unchanged against
// BrowserStack, local Chrome, or a fake in tests.
package scraper

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/Ciriously/BrowserStack-Automation-Demo/config"
	"github.com/Ciriously/BrowserStack-Automation-Demo/session"
	"github.com/Ciriously/BrowserStack-Automation-Demo/types"
)

// Config holds the selectors the extraction is built around. The defaults
// match the El País opinion section markup.
type Config struct {
	// ListingSelector matches the article links on the section page.
	ListingSelector string
	// TitleSelector matches the headline on an article page.
	TitleSelector string
	// ParagraphSelector matches the article body paragraphs.
	ParagraphSelector string
	// ImageSelector matches the cover image. A page without one is fine.
	ImageSelector string
	// WaitTimeout bounds each wait for page content to render.
	WaitTimeout time.Duration
}

// DefaultConfig returns the selector set for elpais.com/opinion.
func DefaultConfig() Config {
	return Config{
		ListingSelector:   "h2 a",
		TitleSelector:     "h1",
		ParagraphSelector: "div.c-article-body p",
		ImageSelector:     "figure img",
		WaitTimeout:       config.DefaultWaitTimeout,
	}
}

// Scraper extracts articles from a listing page via a browser session.
type Scraper struct {
	cfg Config
}

// New creates a Scraper. Zero-valued config fields fall back to defaults.
func New(cfg Config) *Scraper {
	def := DefaultConfig()
	if cfg.ListingSelector == "" {
		cfg.ListingSelector = def.ListingSelector
	}
	if cfg.TitleSelector == "" {
		cfg.TitleSelector = def.TitleSelector
	}
	if cfg.ParagraphSelector == "" {
		cfg.ParagraphSelector = def.ParagraphSelector
	}
	if cfg.ImageSelector == "" {
		cfg.ImageSelector = def.ImageSelector
	}
	if cfg.WaitTimeout <= 0 {
		cfg.WaitTimeout = def.WaitTimeout
	}
	return &Scraper{cfg: cfg}
}

// Extract opens the listing page, collects up to count article links, and
// visits each one for its title, body, and cover image. Any navigation or
// extraction failure aborts the run; the caller never sees a partial list
// with holes in it.
func (s *Scraper) Extract(ctx context.Context, sess session.Handle, listingURL string, count int) ([]types.Article, error) {
	if count <= 0 {
		count = config.DefaultArticleCount
	}

	links, err := s.collectLinks(ctx, sess, listingURL, count)
	if err != nil {
		return nil, err
	}
	log.Printf("[scraper] found %d article links on %s", len(links), listingURL)

	articles := make([]types.Article, 0, len(links))
	for _, link := range links {
		article, err := s.extractArticle(ctx, sess, link)
		if err != nil {
			return nil, err
		}
		articles = append(articles, article)
	}
	return articles, nil
}

// collectLinks loads the listing page and returns up to count unique,
// non-empty article hrefs in document order.
func (s *Scraper) collectLinks(ctx context.Context, sess session.Handle, listingURL string, count int) ([]string, error) {
	if err := sess.Navigate(ctx, listingURL); err != nil {
		return nil, &NavigationError{URL: listingURL, Err: err}
	}
	if err := s.waitFor(ctx, sess, s.cfg.ListingSelector); err != nil {
		return nil, &ExtractionError{URL: listingURL, Selector: s.cfg.ListingSelector, Err: err}
	}
	hrefs, err := sess.AttrAll(ctx, s.cfg.ListingSelector, "href")
	if err != nil {
		return nil, &ExtractionError{URL: listingURL, Selector: s.cfg.ListingSelector, Err: err}
	}

	seen := make(map[string]bool)
	links := make([]string, 0, count)
	for _, href := range hrefs {
		if href == "" || seen[href] {
			continue
		}
		seen[href] = true
		links = append(links, href)
		if len(links) == count {
			break
		}
	}
	if len(links) < count {
		log.Printf("[scraper] ⚠️ only %d of %d requested articles listed on %s", len(links), count, listingURL)
	}
	return links, nil
}

func (s *Scraper) extractArticle(ctx context.Context, sess session.Handle, url string) (types.Article, error) {
	if err := sess.Navigate(ctx, url); err != nil {
		return types.Article{}, &NavigationError{URL: url, Err: err}
	}
	if err := s.waitFor(ctx, sess, s.cfg.TitleSelector); err != nil {
		return types.Article{}, &ExtractionError{URL: url, Selector: s.cfg.TitleSelector, Err: err}
	}

	title, err := sess.Text(ctx, s.cfg.TitleSelector)
	if err != nil {
		return types.Article{}, &ExtractionError{URL: url, Selector: s.cfg.TitleSelector, Err: err}
	}

	paragraphs, err := sess.TextAll(ctx, s.cfg.ParagraphSelector)
	if err != nil {
		return types.Article{}, &ExtractionError{URL: url, Selector: s.cfg.ParagraphSelector, Err: err}
	}
	body := strings.Join(paragraphs, "\n")
	if body == "" {
		log.Printf("[scraper] ⚠️ empty article body at %s", url)
	}

	// A missing cover image is a warning, never a failure.
	imageURL := ""
	images, err := sess.AttrAll(ctx, s.cfg.ImageSelector, "src")
	if err != nil {
		return types.Article{}, &ExtractionError{URL: url, Selector: s.cfg.ImageSelector, Err: err}
	}
	for _, src := range images {
		if src != "" {
			imageURL = src
			break
		}
	}
	if imageURL == "" {
		log.Printf("[scraper] ⚠️ no cover image found at %s", url)
	}

	return types.Article{
		Title:    strings.TrimSpace(title),
		Body:     body,
		URL:      url,
		ImageURL: imageURL,
	}, nil
}

func (s *Scraper) waitFor(ctx context.Context, sess session.Handle, selector string) error {
	wctx, cancel := context.WithTimeout(ctx, s.cfg.WaitTimeout)
	defer cancel()
	return sess.WaitVisible(wctx, selector)
}
