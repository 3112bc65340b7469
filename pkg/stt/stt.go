package stt

import (
	"context"
	"errors"
)

// ErrTranscriptionFailed is returned when the provider reports a failed transcript
var ErrTranscriptionFailed = errors.New("transcription failed")

// Result is a finished transcript of one audio payload
type Result struct {
	Text            string
	DurationSeconds *float64
	Language        string
}

// Transcriber converts audio into text
type Transcriber interface {
	// Configured reports whether the provider has credentials
	Configured() bool

	// Transcribe blocks until the provider has finished the audio
	Transcribe(ctx context.Context, audio []byte, filename string) (*Result, error)
}
