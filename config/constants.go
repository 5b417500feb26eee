package config

import "time"

// Scrape target constants
const (
	// DefaultListingURL is the section page whose first articles each session scrapes.
	DefaultListingURL = "https://elpais.com/opinion/"

	// DefaultArticleCount is how many listing entries each session extracts.
	DefaultArticleCount = 5

	// DefaultSourceLang is the language the scraped titles are written in.
	DefaultSourceLang = "es"

	// DefaultTargetLang is the language titles are translated into before analysis.
	DefaultTargetLang = "en"

	// DefaultMinWordCount is the repetition threshold: words appearing at least
	// this many times across the translated titles are reported.
	DefaultMinWordCount = 2
)

// Session constants
const (
	// BrowserStackHub is the remote WebDriver endpoint. Credentials are
	// embedded as userinfo, mirroring the hub URL the dashboard documents.
	BrowserStackHub = "https://hub-cloud.browserstack.com/wd/hub"

	// DefaultWaitTimeout bounds each explicit wait for a page region to render.
	DefaultWaitTimeout = 10 * time.Second

	// DefaultSessionBudget is the wall-clock allowance for one full session run:
	// provisioning, the pipeline, and verdict reporting.
	DefaultSessionBudget = 4 * time.Minute

	// DefaultTestName prefixes the per-session names shown on the dashboard.
	DefaultTestName = "El Pais Scraper"
)
