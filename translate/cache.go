package translate

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store caches finished translations keyed by language pair and source text.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// CachedProvider wraps a Provider with a translation cache. Identical titles
// showing up across parallel sessions then cost one upstream call instead of
// one per session. Cache failures are logged and absorbed.
type CachedProvider struct {
	inner Provider
	store Store
}

// NewCachedProvider decorates inner with the given store.
func NewCachedProvider(inner Provider, store Store) *CachedProvider {
	return &CachedProvider{inner: inner, store: store}
}

func (c *CachedProvider) Name() string { return c.inner.Name() }

func (c *CachedProvider) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	key := cacheKey(text, sourceLang, targetLang)
	cached, ok, err := c.store.Get(ctx, key)
	if err != nil {
		log.Printf("[translate] ⚠️ cache read failed: %v", err)
	} else if ok {
		return cached, nil
	}

	out, err := c.inner.Translate(ctx, text, sourceLang, targetLang)
	if err != nil {
		return "", err
	}
	if err := c.store.Set(ctx, key, out); err != nil {
		log.Printf("[translate] ⚠️ cache write failed: %v", err)
	}
	return out, nil
}

func cacheKey(text, sourceLang, targetLang string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("translate:%s:%s:%x", sourceLang, targetLang, sum[:8])
}

// RedisStore is the production Store.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies connectivity before the
// first translation needs it.
func NewRedisStore(addr, password string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	// Ping to verify
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, key, value, s.ttl).Err()
}

// Close closes the underlying Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}
