package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every knob the harness reads at startup. There is no other
// global state: callers pass the loaded Config (or pieces of it) down
// explicitly.
type Config struct {
	// Pipeline inputs
	ListingURL   string
	ArticleCount int
	SourceLang   string
	TargetLang   string
	MinWordCount int

	// Session handling
	WaitTimeout   time.Duration
	SessionBudget time.Duration
	TestName      string
	HubURL        string
	BSUser        string
	BSKey         string
	Headless      bool

	// Optional collaborators; empty means disabled.
	FeedURL      string
	ArtifactsDir string
	CapsFile     string
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads the .env file if present (non-fatal when missing, mirroring the
// original harness) and assembles a Config from environment variables with
// documented defaults.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ListingURL:   GetEnvOrDefault("LISTING_URL", DefaultListingURL),
		ArticleCount: GetEnvInt("ARTICLE_COUNT", DefaultArticleCount),
		SourceLang:   GetEnvOrDefault("SOURCE_LANG", DefaultSourceLang),
		TargetLang:   GetEnvOrDefault("TARGET_LANG", DefaultTargetLang),
		MinWordCount: GetEnvInt("MIN_WORD_COUNT", DefaultMinWordCount),

		WaitTimeout:   GetEnvDuration("WAIT_TIMEOUT", DefaultWaitTimeout),
		SessionBudget: GetEnvDuration("SESSION_BUDGET", DefaultSessionBudget),
		TestName:      GetEnvOrDefault("TEST_NAME", DefaultTestName),
		HubURL:        strings.TrimSpace(os.Getenv("HUB_URL")),
		BSUser:        strings.TrimSpace(os.Getenv("BS_USER")),
		BSKey:         strings.TrimSpace(os.Getenv("BS_KEY")),
		Headless:      strings.EqualFold(os.Getenv("HEADLESS"), "true"),

		FeedURL:      strings.TrimSpace(os.Getenv("FEED_URL")),
		ArtifactsDir: strings.TrimSpace(os.Getenv("ARTIFACTS_DIR")),
		CapsFile:     strings.TrimSpace(os.Getenv("CAPS_FILE")),
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   GetEnvOrDefault("KAFKA_TOPIC", "harness.run-events"),
	}
}

// RemoteConfigured reports whether a remote hub can be reached: either
// dashboard credentials are set or a hub URL override is present.
func (c Config) RemoteConfigured() bool {
	return (c.BSUser != "" && c.BSKey != "") || c.HubURL != ""
}

// ResolveHubURL returns the remote WebDriver endpoint for this run: the
// HUB_URL override when present, otherwise the dashboard hub with the
// account credentials embedded as userinfo.
func (c Config) ResolveHubURL() string {
	if c.HubURL != "" {
		return c.HubURL
	}
	u, err := url.Parse(BrowserStackHub)
	if err != nil {
		return BrowserStackHub
	}
	u.User = url.UserPassword(c.BSUser, c.BSKey)
	return u.String()
}

// Validate checks invariants that would otherwise surface as confusing
// mid-run failures.
func (c Config) Validate() error {
	if c.ListingURL == "" {
		return fmt.Errorf("listing URL must not be empty")
	}
	if c.ArticleCount <= 0 {
		return fmt.Errorf("article count must be positive, got %d", c.ArticleCount)
	}
	if c.MinWordCount < 1 {
		return fmt.Errorf("min word count must be at least 1, got %d", c.MinWordCount)
	}
	if c.SessionBudget <= 0 {
		return fmt.Errorf("session budget must be positive, got %s", c.SessionBudget)
	}
	return nil
}

// GetEnvOrDefault returns the environment value for key, or def when unset or blank.
func GetEnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// GetEnvInt returns the integer environment value for key, or def when unset
// or unparsable.
func GetEnvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetEnvDuration returns the duration environment value for key (Go duration
// syntax, e.g. "90s"), or def when unset or unparsable.
func GetEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
