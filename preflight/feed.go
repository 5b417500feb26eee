// Package preflight runs cheap reachability checks before any paid browser
// session is provisioned. A section that is down fails the run in seconds
// instead of burning five parallel sessions to find out.
package preflight

import (
	"context"
	"fmt"
	"log"

	"github.com/mmcdole/gofeed"
)

// CheckFeed fetches the section's RSS feed and confirms it is serving
// entries. The feed lives next to the section pages, so an unreachable or
// empty feed is a strong signal the scrape would fail too.
func CheckFeed(ctx context.Context, feedURL string) error {
	parser := gofeed.NewParser()
	feed, err := parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return fmt.Errorf("feed %s unreachable: %w", feedURL, err)
	}
	if len(feed.Items) == 0 {
		return fmt.Errorf("feed %s has no entries", feedURL)
	}
	log.Printf("[preflight] ✅ feed ok: %q (%d entries)", feed.Title, len(feed.Items))
	return nil
}
