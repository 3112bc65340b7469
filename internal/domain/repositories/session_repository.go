package repositories

import (
	"context"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
)

// LiveSessionRepository defines the interface for live session state
type LiveSessionRepository interface {
	// Save creates or replaces a session
	Save(ctx context.Context, session *entities.LiveSession) error

	// FindByID returns entities.ErrSessionNotFound when the session does not exist or expired
	FindByID(ctx context.Context, id string) (*entities.LiveSession, error)

	// Delete removes a session
	Delete(ctx context.Context, id string) error
}
