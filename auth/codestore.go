package auth

import (
	"context"
	"crypto/rand"
	"math/big"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// CodeStore holds short-lived one-time codes keyed by purpose+email.
type CodeStore interface {
	Set(ctx context.Context, key, code string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error) // "" when missing or expired
	Delete(ctx context.Context, key string) error
}

type redisCodeStore struct {
	client *redis.Client
}

// NewRedisCodeStore backs one-time codes by redis, relying on key TTLs for
// expiry.
func NewRedisCodeStore(addr, password string) CodeStore {
	return &redisCodeStore{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
	}
}

func (s *redisCodeStore) Set(ctx context.Context, key, code string, ttl time.Duration) error {
	return s.client.Set(ctx, "otp:"+key, code, ttl).Err()
}

func (s *redisCodeStore) Get(ctx context.Context, key string) (string, error) {
	code, err := s.client.Get(ctx, "otp:"+key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return code, nil
}

func (s *redisCodeStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, "otp:"+key).Err()
}

type memoryEntry struct {
	code      string
	expiresAt time.Time
}

type memoryCodeStore struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
}

// NewMemoryCodeStore is the dev-mode fallback used when REDIS_ADDR is unset.
func NewMemoryCodeStore() CodeStore {
	return &memoryCodeStore{entries: make(map[string]memoryEntry)}
}

func (s *memoryCodeStore) Set(_ context.Context, key, code string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = memoryEntry{code: code, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *memoryCodeStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.entries[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(s.entries, key)
		return "", nil
	}
	return entry.code, nil
}

func (s *memoryCodeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

// generateOTP returns a 6-digit numeric code.
func generateOTP() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "000000"
	}
	return big.NewInt(0).Add(n, big.NewInt(100000)).String()
}
