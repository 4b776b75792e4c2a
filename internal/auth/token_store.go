// Package auth manages the console's backend session token. The token is
// issued by the backend's login endpoint; the console only stores it under a
// configured key and inspects its claims to know when a session has expired.
package auth

import (
	"context"
	"errors"
	"sync"

	"github.com/redis/go-redis/v9"
)

// ErrNoToken is returned when no session token is stored.
var ErrNoToken = errors.New("auth: no token stored")

// TokenStore persists the session token under the configured storage key.
type TokenStore interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// MemoryStore keeps the token in process memory. It is the default when no
// redis is configured.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore builds an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.token == "" {
		return "", ErrNoToken
	}
	return s.token, nil
}

func (s *MemoryStore) Set(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	return nil
}

// RedisStore keeps the token in redis so a restarted console keeps its
// session.
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore builds a redis-backed token store keyed by storageKey.
func NewRedisStore(client *redis.Client, storageKey string) *RedisStore {
	return &RedisStore{client: client, key: storageKey}
}

func (s *RedisStore) Get(ctx context.Context) (string, error) {
	token, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

func (s *RedisStore) Set(ctx context.Context, token string) error {
	return s.client.Set(ctx, s.key, token, 0).Err()
}

func (s *RedisStore) Clear(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

// Source adapts a TokenStore to the api client's TokenSource: a missing
// token yields an empty string rather than an error so unauthenticated
// endpoints still work.
type Source struct {
	Store TokenStore
}

func (s Source) Token(ctx context.Context) (string, error) {
	token, err := s.Store.Get(ctx)
	if errors.Is(err, ErrNoToken) {
		return "", nil
	}
	return token, err
}
