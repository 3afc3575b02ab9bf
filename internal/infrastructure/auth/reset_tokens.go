package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrResetTokenNotFound is returned when a reset token is unknown or expired
var ErrResetTokenNotFound = errors.New("password reset token not found or expired")

// ResetTokenStore holds single-use password reset tokens.
// A token maps to the user ID it was issued for and expires after its TTL.
type ResetTokenStore interface {
	// Issue creates a new reset token for the given user
	Issue(ctx context.Context, userID string, ttl time.Duration) (string, error)

	// Consume validates a token and removes it, returning the user ID it was issued for.
	// A token can only be consumed once.
	Consume(ctx context.Context, token string) (string, error)
}

// generateResetToken produces a random URL-safe token string
func generateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// RedisResetTokenStore implements ResetTokenStore using Redis
type RedisResetTokenStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisResetTokenStore creates a reset token store with an existing Redis client
func NewRedisResetTokenStore(client *redis.Client) *RedisResetTokenStore {
	return &RedisResetTokenStore{
		client:    client,
		keyPrefix: "auth:reset:",
	}
}

func (s *RedisResetTokenStore) key(token string) string {
	return s.keyPrefix + token
}

// Issue creates a new reset token for the given user
func (s *RedisResetTokenStore) Issue(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	token, err := generateResetToken()
	if err != nil {
		return "", err
	}

	if err := s.client.Set(ctx, s.key(token), userID, ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store reset token: %w", err)
	}

	return token, nil
}

// Consume validates a token and removes it, returning the user ID it was issued for
func (s *RedisResetTokenStore) Consume(ctx context.Context, token string) (string, error) {
	key := s.key(token)

	userID, err := s.client.GetDel(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrResetTokenNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to consume reset token: %w", err)
	}

	return userID, nil
}

// Close closes the Redis client
func (s *RedisResetTokenStore) Close() error {
	return s.client.Close()
}

// Ensure RedisResetTokenStore implements ResetTokenStore
var _ ResetTokenStore = (*RedisResetTokenStore)(nil)

// InMemoryResetTokenStore provides an in-memory implementation for testing
// and single-instance deployments without Redis
type InMemoryResetTokenStore struct {
	mu     sync.Mutex
	tokens map[string]resetEntry
}

type resetEntry struct {
	userID    string
	expiresAt time.Time
}

// NewInMemoryResetTokenStore creates a new in-memory reset token store
func NewInMemoryResetTokenStore() *InMemoryResetTokenStore {
	return &InMemoryResetTokenStore{
		tokens: make(map[string]resetEntry),
	}
}

// Issue creates a new reset token for the given user
func (s *InMemoryResetTokenStore) Issue(_ context.Context, userID string, ttl time.Duration) (string, error) {
	token, err := generateResetToken()
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = resetEntry{
		userID:    userID,
		expiresAt: time.Now().Add(ttl),
	}
	return token, nil
}

// Consume validates a token and removes it, returning the user ID it was issued for
func (s *InMemoryResetTokenStore) Consume(_ context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.tokens[token]
	if !exists {
		return "", ErrResetTokenNotFound
	}
	delete(s.tokens, token)

	if time.Now().After(entry.expiresAt) {
		return "", ErrResetTokenNotFound
	}

	return entry.userID, nil
}

// Ensure InMemoryResetTokenStore implements ResetTokenStore
var _ ResetTokenStore = (*InMemoryResetTokenStore)(nil)
