package errors

import "errors"

// Common errors
var (
	ErrInvalidInput = errors.New("invalid input")
)

// Transcript errors
var (
	ErrEmptyText        = errors.New("transcript text is empty")
	ErrNegativeDuration = errors.New("duration must not be negative")
)

// Transcription errors
var (
	ErrTranscriberNotConfigured = errors.New("transcriber not configured")
	ErrEmptyAudio               = errors.New("audio payload is empty")
)

// Live session errors
var (
	ErrSessionIDRequired = errors.New("session id is required")
	ErrSessionCompleted  = errors.New("live session already stopped")
)

// Artifact errors
var (
	ErrArtifactStoreDisabled = errors.New("artifact storage not configured")
)
