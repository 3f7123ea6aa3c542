package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/elevva/client-portal/internal/core/domain"
)

// TokenStore holds issued session tokens in Redis, keyed by token id with
// the session TTL as expiry. A token absent from the store is revoked or
// expired regardless of its JWT validity.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

type sessionRecord struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Save records a freshly minted session under its token id.
func (s *TokenStore) Save(ctx context.Context, tokenID, userID, email string, ttl time.Duration) error {
	payload, err := json.Marshal(sessionRecord{
		UserID:    userID,
		Email:     email,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, s.key(tokenID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Lookup returns the user id and email bound to a token id, or
// domain.ErrSessionNotFound when the token was revoked or has expired.
func (s *TokenStore) Lookup(ctx context.Context, tokenID string) (userID, email string, err error) {
	payload, err := s.client.Get(ctx, s.key(tokenID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", "", domain.ErrSessionNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("lookup session: %w", err)
	}

	var rec sessionRecord
	if err := json.Unmarshal([]byte(payload), &rec); err != nil {
		return "", "", fmt.Errorf("unmarshal session: %w", err)
	}
	return rec.UserID, rec.Email, nil
}

// Revoke deletes a session token. Revoking an unknown token is not an
// error.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string) error {
	if err := s.client.Del(ctx, s.key(tokenID)).Err(); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *TokenStore) key(tokenID string) string {
	return "session:" + tokenID
}
