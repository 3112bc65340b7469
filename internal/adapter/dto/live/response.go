package live

import (
	"time"

	transcriptDTO "github.com/ashwiniraykar1997/speech-to-text-app/internal/adapter/dto/transcript"
)

// SessionResponse represents the state of a live recording
type SessionResponse struct {
	SessionID       string    `json:"session_id"`
	Status          string    `json:"status"`
	Text            string    `json:"text"`
	Filename        string    `json:"filename,omitempty"`
	TotalChunks     int       `json:"total_chunks"`
	ProcessedChunks int       `json:"processed_chunks"`
	Progress        int       `json:"progress"`
	DurationSeconds float64   `json:"duration_seconds,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// StopLiveResponse represents a stopped recording and its persistence outcome
type StopLiveResponse struct {
	SessionResponse
	Persist transcriptDTO.PersistResponse `json:"persist"`
}
