package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	red "github.com/redis/go-redis/v9"

	"github.com/barisuyucak/nobetpazari/internal/core/domain"
	"github.com/barisuyucak/nobetpazari/internal/repository"
)

const defaultSessionPrefix = "session"

// SessionStore persists sign-in sessions in Redis. Expiry is enforced by the
// key TTL, so an expired session simply stops existing.
type SessionStore struct {
	client *red.Client
	prefix string
}

// NewSessionStore constructs a session store with the provided Redis client
// and key prefix.
func NewSessionStore(client *red.Client, keyPrefix string) *SessionStore {
	prefix := strings.TrimSpace(keyPrefix)
	if prefix == "" {
		prefix = defaultSessionPrefix
	}
	return &SessionStore{client: client, prefix: prefix}
}

// Save writes the session under its id with the supplied TTL.
func (s *SessionStore) Save(ctx context.Context, session domain.Session, ttl time.Duration) error {
	if session.ID == "" {
		return errors.New("session id is required")
	}
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(session.ID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	return nil
}

// Get resolves a live session by id.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	payload, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, red.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("load session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}

	return &session, nil
}

// Delete removes the session. Deleting a missing session reports
// repository.ErrNotFound.
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	removed, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if removed == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (s *SessionStore) key(id string) string {
	return s.prefix + ":" + id
}
