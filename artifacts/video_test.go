package artifacts

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestVideoFetcherCollect(t *testing.T) {
	videoBytes := []byte("not really an mp4")
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/automate/sessions/abc123.json", func(w http.ResponseWriter, r *http.Request) {
		user, key, ok := r.BasicAuth()
		if !ok || user != "alice" || key != "secret" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		fmt.Fprintf(w, `{"automation_session":{"video_url":"%s/videos/abc123.mp4"}}`, srv.URL)
	})
	mux.HandleFunc("/videos/abc123.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.Write(videoBytes)
	})

	v := NewVideoFetcher("alice", "secret")
	v.apiBase = srv.URL + "/automate"

	dir := t.TempDir()
	dest, err := v.Collect(context.Background(), "abc123", dir)
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if dest != filepath.Join(dir, "session.mp4") {
		t.Errorf("dest = %q", dest)
	}
	saved, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("recording missing: %v", err)
	}
	if string(saved) != string(videoBytes) {
		t.Error("saved recording does not match served bytes")
	}
}

func TestVideoFetcherCollectNotReady(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/automate/sessions/abc123.json", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"automation_session":{"video_url":""}}`))
	})

	v := NewVideoFetcher("alice", "secret")
	v.apiBase = srv.URL + "/automate"

	dest, err := v.Collect(context.Background(), "abc123", t.TempDir())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if dest != "" {
		t.Errorf("dest = %q, want empty for a pending recording", dest)
	}
}

func TestVideoFetcherLookupFailure(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/automate/sessions/abc123.json", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	v := NewVideoFetcher("alice", "wrong")
	v.apiBase = srv.URL + "/automate"

	if _, err := v.Collect(context.Background(), "abc123", t.TempDir()); err == nil {
		t.Fatal("expected an error on rejected lookup")
	}
}
