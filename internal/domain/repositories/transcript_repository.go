package repositories

import (
	"context"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
)

// Store names reported to callers
const (
	StorePrimary  = "primary"
	StoreFallback = "fallback"
)

// Response is the normalized result of a store call. Exactly one of Data or Err is meaningful:
// a non-nil Err means the call failed regardless of Data.
type Response struct {
	Data []*entities.Transcript
	Err  error
}

// Failed reports whether the response carries an error
func (r Response) Failed() bool {
	return r.Err != nil
}

// First returns the first row or nil
func (r Response) First() *entities.Transcript {
	if len(r.Data) == 0 {
		return nil
	}
	return r.Data[0]
}

// TranscriptStore defines the interface for a transcript persistence backend
type TranscriptStore interface {
	// Name returns the store name used in results and logs
	Name() string

	// Available reports whether the store is configured. An unavailable store answers every
	// call with entities.ErrStoreUnreachable.
	Available() bool

	// Insert stores a new transcript and returns the stored row
	Insert(ctx context.Context, transcript *entities.Transcript) Response

	// SelectAll returns every transcript ordered by created_at descending
	SelectAll(ctx context.Context) Response

	// SelectByUser returns the user's transcripts ordered by created_at descending
	SelectByUser(ctx context.Context, userID string) Response
}
