package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
)

// Store is the key-value backend of the session repository
type Store interface {
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	Delete(ctx context.Context, key string) error
}

// SessionRepository persists live sessions as JSON documents in a Store
type SessionRepository struct {
	store Store
	ttl   time.Duration
}

// NewSessionRepository creates a session repository; sessions expire ttl after their last save
func NewSessionRepository(store Store, ttl time.Duration) *SessionRepository {
	return &SessionRepository{store: store, ttl: ttl}
}

func sessionKey(id string) string {
	return fmt.Sprintf("live:session:%s", id)
}

// Save creates or replaces a session
func (r *SessionRepository) Save(ctx context.Context, session *entities.LiveSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := r.store.Set(ctx, sessionKey(session.ID), string(data), r.ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// FindByID returns entities.ErrSessionNotFound when the session does not exist or expired
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*entities.LiveSession, error) {
	raw, ok, err := r.store.Get(ctx, sessionKey(id))
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if !ok {
		return nil, entities.ErrSessionNotFound
	}

	var session entities.LiveSession
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

// Delete removes a session
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, sessionKey(id))
}
