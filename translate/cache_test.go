package translate

import (
	"context"
	"errors"
	"testing"
)

type mapStore struct {
	data   map[string]string
	getErr error
	setErr error
	gets   int
	sets   int
}

func newMapStore() *mapStore {
	return &mapStore{data: make(map[string]string)}
}

func (s *mapStore) Get(_ context.Context, key string) (string, bool, error) {
	s.gets++
	if s.getErr != nil {
		return "", false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *mapStore) Set(_ context.Context, key, value string) error {
	s.sets++
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = value
	return nil
}

func TestCachedProviderHitsUpstreamOncePerTitle(t *testing.T) {
	inner := newFakeProvider()
	inner.out["Hola"] = "Hello"
	cached := NewCachedProvider(inner, newMapStore())

	for i := 0; i < 3; i++ {
		got, err := cached.Translate(context.Background(), "Hola", "es", "en")
		if err != nil {
			t.Fatalf("Translate failed on call %d: %v", i+1, err)
		}
		if got != "Hello" {
			t.Errorf("call %d: got %q, want %q", i+1, got, "Hello")
		}
	}
	if inner.calls != 1 {
		t.Errorf("upstream called %d times, want 1", inner.calls)
	}
}

func TestCachedProviderDistinguishesLanguagePairs(t *testing.T) {
	inner := newFakeProvider()
	inner.out["Hola"] = "Hello"
	store := newMapStore()
	cached := NewCachedProvider(inner, store)

	if _, err := cached.Translate(context.Background(), "Hola", "es", "en"); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if _, err := cached.Translate(context.Background(), "Hola", "es", "fr"); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if inner.calls != 2 {
		t.Errorf("upstream called %d times, want 2 (different targets must not share entries)", inner.calls)
	}
	if len(store.data) != 2 {
		t.Errorf("store holds %d entries, want 2", len(store.data))
	}
}

func TestCachedProviderSurvivesStoreFailures(t *testing.T) {
	inner := newFakeProvider()
	inner.out["Hola"] = "Hello"
	store := newMapStore()
	store.getErr = errors.New("redis down")
	store.setErr = errors.New("redis down")
	cached := NewCachedProvider(inner, store)

	got, err := cached.Translate(context.Background(), "Hola", "es", "en")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if got != "Hello" {
		t.Errorf("got %q, want %q", got, "Hello")
	}
}

func TestCachedProviderDoesNotCacheFailures(t *testing.T) {
	inner := newFakeProvider()
	store := newMapStore()
	cached := NewCachedProvider(inner, store)

	if _, err := cached.Translate(context.Background(), "Desconocido", "es", "en"); err == nil {
		t.Fatal("expected an error, got none")
	}
	if store.sets != 0 {
		t.Errorf("store written %d times after failure, want 0", store.sets)
	}
}
