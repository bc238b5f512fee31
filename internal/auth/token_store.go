package auth

import (
	"context"
	"time"

	"jupiter/internal/cache"
)

const revokedSessionKeyPrefix = "revoked:session:"

// TokenStoreInterface defines the interface for session revocation storage.
type TokenStoreInterface interface {
	RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error
	IsSessionRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenStore keeps revoked session token IDs in Redis until they would have expired anyway.
type TokenStore struct {
	cache *cache.Client
}

var _ TokenStoreInterface = (*TokenStore)(nil)

// NewTokenStore creates a new token store.
func NewTokenStore(cache *cache.Client) *TokenStore {
	return &TokenStore{cache: cache}
}

// RevokeSession marks tokenID as revoked for ttl. A non-positive ttl is a no-op: the token has
// already expired.
func (s *TokenStore) RevokeSession(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.cache.Set(ctx, revokedSessionKeyPrefix+tokenID, []byte("1"), ttl)
}

// IsSessionRevoked checks if a session token ID has been revoked.
func (s *TokenStore) IsSessionRevoked(ctx context.Context, tokenID string) (bool, error) {
	data, err := s.cache.Get(ctx, revokedSessionKeyPrefix+tokenID)
	if err != nil {
		return false, nil // not revoked if redis is unavailable (fail safe)
	}
	return data != nil, nil
}
