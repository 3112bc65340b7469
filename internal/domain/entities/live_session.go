package entities

import (
	"time"
)

// LiveSessionStatus represents the lifecycle of a live recording session
type LiveSessionStatus string

const (
	LiveSessionProcessing LiveSessionStatus = "processing"
	LiveSessionCompleted  LiveSessionStatus = "completed"
)

// LiveSession accumulates chunk transcripts of one recording until it is stopped
type LiveSession struct {
	ID              string            `json:"id"`
	Status          LiveSessionStatus `json:"status"`
	Text            string            `json:"text"`
	Filename        string            `json:"filename,omitempty"`
	TotalChunks     int               `json:"total_chunks"`
	ProcessedChunks int               `json:"processed_chunks"`
	Progress        int               `json:"progress"`
	DurationSeconds float64           `json:"duration_seconds,omitempty"`
	UserID          *string           `json:"user_id,omitempty"`
	TranscriptID    string            `json:"transcript_id,omitempty"`
	PersistedStore  string            `json:"persisted_store,omitempty"`
	StartedAt       time.Time         `json:"started_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// NewLiveSession creates a new session in processing state
func NewLiveSession(id string, now time.Time) *LiveSession {
	return &LiveSession{
		ID:        id,
		Status:    LiveSessionProcessing,
		StartedAt: now,
		UpdatedAt: now,
	}
}

// AppendChunk records one transcribed chunk and recomputes progress
func (s *LiveSession) AppendChunk(text, filename string, duration float64, now time.Time) {
	if s.Text == "" {
		s.Text = text
	} else if text != "" {
		s.Text += " " + text
	}
	if filename != "" {
		s.Filename = filename
	}
	if duration > 0 {
		s.DurationSeconds += duration
	}
	s.TotalChunks++
	s.ProcessedChunks++
	s.Progress = s.ProcessedChunks * 100 / s.TotalChunks
	if s.Progress > 100 {
		s.Progress = 100
	}
	s.Status = LiveSessionProcessing
	s.UpdatedAt = now
}

// Complete marks the session as finished
func (s *LiveSession) Complete(now time.Time) {
	s.Status = LiveSessionCompleted
	s.Progress = 100
	s.UpdatedAt = now
}

// IsCompleted checks if the session was stopped
func (s *LiveSession) IsCompleted() bool {
	return s.Status == LiveSessionCompleted
}

// IsPersisted checks if the final transcript already landed in a store
func (s *LiveSession) IsPersisted() bool {
	return s.PersistedStore != ""
}
