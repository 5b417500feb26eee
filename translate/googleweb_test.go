package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func gtxServer(t *testing.T, handler http.HandlerFunc) *GoogleWebProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &GoogleWebProvider{endpoint: srv.URL, client: srv.Client()}
}

func TestGoogleWebTranslate(t *testing.T) {
	var gotQuery map[string]string
	p := gtxServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotQuery = map[string]string{
			"client": q.Get("client"),
			"sl":     q.Get("sl"),
			"tl":     q.Get("tl"),
			"q":      q.Get("q"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[[["The government in crisis","El gobierno en crisis",null,null,10]],null,"es"]`))
	})

	got, err := p.Translate(context.Background(), "El gobierno en crisis", "es", "en")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "The government in crisis" {
		t.Errorf("got %q, want %q", got, "The government in crisis")
	}
	if gotQuery["client"] != "gtx" {
		t.Errorf("client param = %q, want %q", gotQuery["client"], "gtx")
	}
	if gotQuery["sl"] != "es" || gotQuery["tl"] != "en" {
		t.Errorf("language params = %q -> %q, want es -> en", gotQuery["sl"], gotQuery["tl"])
	}
	if gotQuery["q"] != "El gobierno en crisis" {
		t.Errorf("q param = %q, want the source title", gotQuery["q"])
	}
}

func TestGoogleWebTranslateJoinsSegments(t *testing.T) {
	p := gtxServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[["First sentence. ","Primera frase. "],["Second sentence.","Segunda frase."]],null,"es"]`))
	})

	got, err := p.Translate(context.Background(), "Primera frase. Segunda frase.", "es", "en")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "First sentence. Second sentence." {
		t.Errorf("got %q, want joined segments", got)
	}
}

func TestGoogleWebTranslateStatusError(t *testing.T) {
	p := gtxServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	if _, err := p.Translate(context.Background(), "Hola", "es", "en"); err == nil {
		t.Fatal("expected an error on 429, got none")
	}
}

func TestGoogleWebTranslateMalformedResponse(t *testing.T) {
	p := gtxServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"unexpected":"shape"}`))
	})

	if _, err := p.Translate(context.Background(), "Hola", "es", "en"); err == nil {
		t.Fatal("expected an error on malformed payload, got none")
	}
}
