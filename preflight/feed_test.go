package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Opinión</title>
    <link>https://example.test/opinion/</link>
    <description>Sección de opinión</description>
    <item>
      <title>El gobierno en crisis</title>
      <link>https://example.test/opinion/uno.html</link>
    </item>
    <item>
      <title>La economía crece</title>
      <link>https://example.test/opinion/dos.html</link>
    </item>
  </channel>
</rss>`

const emptyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Opinión</title>
    <link>https://example.test/opinion/</link>
    <description>Sección de opinión</description>
  </channel>
</rss>`

func TestCheckFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	if err := CheckFeed(context.Background(), srv.URL); err != nil {
		t.Fatalf("CheckFeed failed: %v", err)
	}
}

func TestCheckFeedEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(emptyFeed))
	}))
	defer srv.Close()

	if err := CheckFeed(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for a feed with no entries")
	}
}

func TestCheckFeedUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	if err := CheckFeed(context.Background(), srv.URL); err == nil {
		t.Fatal("expected an error for an unreachable feed")
	}
}
