// Package session provides the Redis-backed session store that associates a
// browser cookie with an authenticated identity.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName matches the cookie the frontend already sends.
	CookieName = "session"

	sessionPrefix = "session:"
	statePrefix   = "oauthstate:"

	// SessionTTL bounds a login; there is no refresh, the user just logs in
	// again.
	SessionTTL = time.Hour

	stateTTL = 10 * time.Minute
)

var ErrNotFound = errors.New("session not found or expired")

// Identity is what a live session resolves to. It is the value handlers see;
// they never read session state themselves.
type Identity struct {
	UserID  uint   `json:"user_id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

type Store struct {
	client *redis.Client
}

// NewStore connects to Redis and verifies the connection.
func NewStore(redisURL string) (*Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Store{client: client}, nil
}

// NewStoreWithClient wraps an existing Redis client.
func NewStoreWithClient(client *redis.Client) *Store {
	return &Store{client: client}
}

// Create stores the identity under a fresh random session ID and returns the
// ID for the cookie.
func (s *Store) Create(ctx context.Context, identity Identity) (string, error) {
	data, err := json.Marshal(identity)
	if err != nil {
		return "", fmt.Errorf("marshal session: %w", err)
	}

	sid := uuid.NewString()
	if err := s.client.Set(ctx, sessionPrefix+sid, data, SessionTTL).Err(); err != nil {
		return "", fmt.Errorf("save session: %w", err)
	}
	return sid, nil
}

// Get resolves a session ID to its identity. Returns ErrNotFound for missing
// or expired sessions.
func (s *Store) Get(ctx context.Context, sid string) (Identity, error) {
	data, err := s.client.Get(ctx, sessionPrefix+sid).Result()
	if err == redis.Nil {
		return Identity{}, ErrNotFound
	}
	if err != nil {
		return Identity{}, fmt.Errorf("lookup session: %w", err)
	}

	var identity Identity
	if err := json.Unmarshal([]byte(data), &identity); err != nil {
		return Identity{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return identity, nil
}

// Delete removes a session (logout).
func (s *Store) Delete(ctx context.Context, sid string) error {
	return s.client.Del(ctx, sessionPrefix+sid).Err()
}

// SaveOAuthState stores an OAuth state nonce for the login round-trip.
func (s *Store) SaveOAuthState(ctx context.Context, state string) error {
	return s.client.Set(ctx, statePrefix+state, 1, stateTTL).Err()
}

// ConsumeOAuthState validates and deletes a state nonce; each state is good
// for exactly one callback.
func (s *Store) ConsumeOAuthState(ctx context.Context, state string) (bool, error) {
	deleted, err := s.client.Del(ctx, statePrefix+state).Result()
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
