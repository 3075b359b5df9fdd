// Package session tracks which minted tokens are still honored. A token is
// only usable while its jti has a live marker in redis, so logout revokes
// immediately instead of waiting for expiry.
package session

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Store is the subset of the redis client the manager needs.
type Store interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SessionKey(sessionID string) string
}

// Manager creates, checks, and revokes session markers.
type Manager struct {
	store Store
	ttl   time.Duration
}

// NewManager wires the manager with the marker TTL, which should match the
// token expiry.
func NewManager(store Store, ttl time.Duration) *Manager {
	return &Manager{store: store, ttl: ttl}
}

// Create records a live session marker for the token's jti.
func (m *Manager) Create(ctx context.Context, sessionID, userID string) error {
	if sessionID == "" {
		return errors.New("session id is required")
	}
	return m.store.Set(ctx, m.store.SessionKey(sessionID), userID, m.ttl)
}

// Active reports whether the session marker still exists.
func (m *Manager) Active(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	_, err := m.store.Get(ctx, m.store.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Revoke deletes the session marker. Revoking an unknown session is a no-op.
func (m *Manager) Revoke(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return m.store.Del(ctx, m.store.SessionKey(sessionID))
}
