package live

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/repositories"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/metrics"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/storage"
	usecaseErrors "github.com/ashwiniraykar1997/speech-to-text-app/internal/usecase/errors"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/usecase/transcript"
	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/stt"
)

// Persister stores a finished transcript
type Persister interface {
	Persist(ctx context.Context, rec *entities.Transcript) transcript.PersistResult
}

// ArtifactStore keeps the raw audio of each chunk
type ArtifactStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
}

// ChunkInput is one recorded audio chunk
type ChunkInput struct {
	SessionID    string
	NewRecording bool
	Audio        []byte
	Filename     string
	ContentType  string
	Identity     *entities.Identity
}

// StopResult is the outcome of stopping a session
type StopResult struct {
	Session *entities.LiveSession
	Persist transcript.PersistResult
}

// Service manages live recording sessions
type Service struct {
	sessions    repositories.LiveSessionRepository
	transcriber stt.Transcriber
	persister   Persister
	artifacts   ArtifactStore
	clock       *transcript.Clock
	locks       *keyedMutex
	logger      *zap.Logger
}

// NewService creates a new live session service. artifacts may be nil.
func NewService(
	sessions repositories.LiveSessionRepository,
	transcriber stt.Transcriber,
	persister Persister,
	artifacts ArtifactStore,
	clock *transcript.Clock,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = transcript.NewClock(nil)
	}
	return &Service{
		sessions:    sessions,
		transcriber: transcriber,
		persister:   persister,
		artifacts:   artifacts,
		clock:       clock,
		locks:       newKeyedMutex(),
		logger:      logger,
	}
}

// UploadChunk transcribes one chunk and appends it to its session. An empty session id or
// NewRecording starts a new session; chunks of one session are processed in arrival order.
func (s *Service) UploadChunk(ctx context.Context, in ChunkInput) (*entities.LiveSession, error) {
	if len(in.Audio) == 0 {
		return nil, usecaseErrors.ErrEmptyAudio
	}
	if s.transcriber == nil || !s.transcriber.Configured() {
		return nil, usecaseErrors.ErrTranscriberNotConfigured
	}

	id := strings.TrimSpace(in.SessionID)
	if id == "" {
		id = uuid.NewString()
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	session, created, err := s.load(ctx, id, in.NewRecording)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return nil, usecaseErrors.ErrSessionCompleted
	}

	filename := in.Filename
	if s.artifacts != nil {
		key := storage.ObjectKey(fmt.Sprintf("live/%s", id), fmt.Sprintf("%03d_%s", session.TotalChunks+1, in.Filename))
		if err := s.artifacts.Upload(ctx, key, in.Audio, in.ContentType); err != nil {
			s.logger.Warn("failed to store live chunk audio", zap.String("session_id", id), zap.Error(err))
		} else {
			filename = key
		}
	}

	result, err := s.transcriber.Transcribe(ctx, in.Audio, in.Filename)
	if err != nil {
		if !errors.Is(err, stt.ErrTranscriptionFailed) {
			err = fmt.Errorf("%w: %w", stt.ErrTranscriptionFailed, err)
		}
		return nil, err
	}

	var duration float64
	if result.DurationSeconds != nil {
		duration = *result.DurationSeconds
	}
	session.AppendChunk(result.Text, filename, duration, s.clock.Now())
	if session.UserID == nil {
		session.UserID = in.Identity.UserID()
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	if created {
		metrics.LiveSessionsActive.Inc()
	}

	s.logger.Info("live chunk processed",
		zap.String("session_id", id),
		zap.Int("chunks", session.ProcessedChunks),
		zap.Int("chars", len(result.Text)),
	)
	return session, nil
}

// load returns the stored session, or a new one when fresh is set or none exists
func (s *Service) load(ctx context.Context, id string, fresh bool) (*entities.LiveSession, bool, error) {
	session, err := s.sessions.FindByID(ctx, id)
	switch {
	case err == nil && !fresh:
		return session, false, nil
	case err == nil:
		// restarting a recording that was never stopped keeps the active count unchanged
		return entities.NewLiveSession(id, s.clock.Now()), session.IsCompleted(), nil
	case errors.Is(err, entities.ErrSessionNotFound):
		return entities.NewLiveSession(id, s.clock.Now()), true, nil
	default:
		return nil, false, err
	}
}

// Stop completes a session and persists its text once. Stopping again returns the stored outcome.
func (s *Service) Stop(ctx context.Context, sessionID string, identity *entities.Identity) (*StopResult, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return nil, usecaseErrors.ErrSessionIDRequired
	}
	unlock := s.locks.Lock(id)
	defer unlock()

	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.IsCompleted() {
		return &StopResult{Session: session, Persist: storedResult(session)}, nil
	}

	session.Complete(s.clock.Now())
	if session.UserID == nil {
		session.UserID = identity.UserID()
	}

	// the completed state is stored before persisting so a retried stop never writes twice
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	metrics.LiveSessionsActive.Dec()

	result := transcript.PersistResult{Store: transcript.StoreNone}
	if strings.TrimSpace(session.Text) != "" {
		result = s.persist(ctx, session)
	}
	session.PersistedStore = result.Store
	session.TranscriptID = result.ID

	if err := s.sessions.Save(ctx, session); err != nil {
		s.logger.Warn("failed to record live session outcome",
			zap.String("session_id", id),
			zap.String("store", result.Store),
			zap.Error(err),
		)
	}

	s.logger.Info("live session stopped",
		zap.String("session_id", id),
		zap.String("store", result.Store),
		zap.String("transcript_id", result.ID),
		zap.Bool("degraded", result.Degraded),
	)
	return &StopResult{Session: session, Persist: result}, nil
}

func (s *Service) persist(ctx context.Context, session *entities.LiveSession) transcript.PersistResult {
	var duration *float64
	if session.DurationSeconds > 0 {
		d := session.DurationSeconds
		duration = &d
	}
	in := transcript.NormalizeInput{
		Text:            session.Text,
		Filename:        session.Filename,
		DurationSeconds: duration,
		CreatedAt:       session.UpdatedAt,
	}
	if session.UserID != nil {
		in.Identity = &entities.Identity{ID: *session.UserID}
	}

	rec, err := transcript.Build(in, s.clock.Now())
	if err != nil {
		return transcript.PersistResult{Store: transcript.StoreNone, Degraded: true, Err: err}
	}
	return s.persister.Persist(ctx, rec)
}

// storedResult rebuilds the persist outcome recorded on a completed session
func storedResult(session *entities.LiveSession) transcript.PersistResult {
	store := session.PersistedStore
	if store == "" {
		store = transcript.StoreNone
	}
	return transcript.PersistResult{
		Store:    store,
		ID:       session.TranscriptID,
		Degraded: store == transcript.StoreNone && strings.TrimSpace(session.Text) != "",
	}
}

// Snapshot returns the current state of a session
func (s *Service) Snapshot(ctx context.Context, sessionID string) (*entities.LiveSession, error) {
	id := strings.TrimSpace(sessionID)
	if id == "" {
		return nil, usecaseErrors.ErrSessionIDRequired
	}
	return s.sessions.FindByID(ctx, id)
}
