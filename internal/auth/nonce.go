package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	noncePrefix = "nonce:"
	// NonceTTL bounds how long a sign-in challenge stays valid
	NonceTTL = 5 * time.Minute
)

// ErrNonceNotFound means the challenge was never issued, expired or was already used
var ErrNonceNotFound = errors.New("challenge expired")

// NonceStore keeps single-use wallet sign-in challenges
type NonceStore interface {
	Set(ctx context.Context, walletAddress, nonce string) error
	Take(ctx context.Context, walletAddress string) (string, error)
}

// RedisNonceStore stores challenges under nonce:<address> with a TTL
type RedisNonceStore struct {
	rdb *redis.Client
}

func NewRedisNonceStore(rdb *redis.Client) *RedisNonceStore {
	return &RedisNonceStore{rdb: rdb}
}

func (s *RedisNonceStore) Set(ctx context.Context, walletAddress, nonce string) error {
	return s.rdb.Set(ctx, noncePrefix+walletAddress, nonce, NonceTTL).Err()
}

// Take returns the challenge and deletes it atomically
func (s *RedisNonceStore) Take(ctx context.Context, walletAddress string) (string, error) {
	nonce, err := s.rdb.GetDel(ctx, noncePrefix+walletAddress).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNonceNotFound
	}
	return nonce, err
}

// MemoryNonceStore is a process-local NonceStore for single-instance
// deployments without Redis.
type MemoryNonceStore struct {
	mu      sync.Mutex
	entries map[string]memoryNonce
	now     func() time.Time
}

type memoryNonce struct {
	value     string
	expiresAt time.Time
}

func NewMemoryNonceStore() *MemoryNonceStore {
	return &MemoryNonceStore{entries: make(map[string]memoryNonce), now: time.Now}
}

func (s *MemoryNonceStore) Set(_ context.Context, walletAddress, nonce string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[walletAddress] = memoryNonce{value: nonce, expiresAt: s.now().Add(NonceTTL)}
	return nil
}

func (s *MemoryNonceStore) Take(_ context.Context, walletAddress string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[walletAddress]
	delete(s.entries, walletAddress)
	if !ok || s.now().After(entry.expiresAt) {
		return "", ErrNonceNotFound
	}
	return entry.value, nil
}
