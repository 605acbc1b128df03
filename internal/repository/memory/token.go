package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/practice-dashboard/internal/repository"
)

// TokenStore is the single-process fallback used when no Redis address is
// configured. Entries expire with their TTL.
type TokenStore struct {
	revoked *cache.Cache
	resets  *cache.Cache
}

var _ repository.TokenStore = (*TokenStore)(nil)

func NewTokenStore() *TokenStore {
	return &TokenStore{
		revoked: cache.New(time.Hour, 10*time.Minute),
		resets:  cache.New(time.Hour, 10*time.Minute),
	}
}

func (s *TokenStore) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	s.revoked.Set(tokenID, struct{}{}, ttl)
	return nil
}

func (s *TokenStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	_, ok := s.revoked.Get(tokenID)
	return ok, nil
}

func (s *TokenStore) SaveResetToken(_ context.Context, token, userID string, ttl time.Duration) error {
	s.resets.Set(token, userID, ttl)
	return nil
}

// ConsumeResetToken returns the owning user and invalidates the token.
func (s *TokenStore) ConsumeResetToken(_ context.Context, token string) (string, error) {
	v, ok := s.resets.Get(token)
	if !ok {
		return "", repository.ErrInvalidToken
	}
	s.resets.Delete(token)
	return v.(string), nil
}
