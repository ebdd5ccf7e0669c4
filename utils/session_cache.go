// File: utils/session_cache.go
package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// SessionCachePrefix is the prefix used for Redis session cache keys.
const SessionCachePrefix = "session:"

// SessionCacheTTL is the default time-to-live for cached validations.
const SessionCacheTTL = 10 * time.Minute

// CachedSession is a backend-confirmed token validation, held briefly so
// that session polling does not hit the backend on every request.
type CachedSession struct {
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	ValidatedAt time.Time `json:"validatedAt"`
}

// SessionCache is the fast server-side tier over the backend's validate
// endpoint. The backend remains authoritative: any "invalid" signal from it
// must evict the entry synchronously.
type SessionCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewSessionCache(client *redis.Client) *SessionCache {
	return &SessionCache{Client: client, TTL: SessionCacheTTL}
}

// Save stores a validation result. The TTL never outlives the token's own
// exp claim, so a cached entry can't vouch for an expired token.
func (s *SessionCache) Save(ctx context.Context, token string, session CachedSession) error {
	session.ValidatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal cached session: %w", err)
	}
	ttl := s.TTL
	if exp, err := TokenExpiry(token); err == nil && !exp.IsZero() {
		if remaining := time.Until(exp); remaining > 0 && remaining < ttl {
			ttl = remaining
		}
	}
	if err := s.Client.Set(ctx, SessionCachePrefix+HashToken(token), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cached session: %w", err)
	}
	return nil
}

// Get retrieves a cached validation. A miss returns (nil, nil).
func (s *SessionCache) Get(ctx context.Context, token string) (*CachedSession, error) {
	data, err := s.Client.Get(ctx, SessionCachePrefix+HashToken(token)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var session CachedSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached session: %w", err)
	}
	return &session, nil
}

// Delete evicts a token's entry.
func (s *SessionCache) Delete(ctx context.Context, token string) error {
	return s.Client.Del(ctx, SessionCachePrefix+HashToken(token)).Err()
}
