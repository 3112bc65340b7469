package transcript

import "time"

// TranscriptResponse represents a stored transcript
type TranscriptResponse struct {
	ID              string    `json:"id"`
	Text            string    `json:"text"`
	UserID          *string   `json:"user_id,omitempty"`
	Filename        *string   `json:"filename,omitempty"`
	DurationSeconds *float64  `json:"duration_seconds,omitempty"`
	Language        string    `json:"language"`
	CreatedAt       time.Time `json:"created_at"`
}

// PersistResponse reports where a transcript was stored
type PersistResponse struct {
	Store         string `json:"store"`
	ID            string `json:"id,omitempty"`
	Degraded      bool   `json:"degraded"`
	UserIDDropped bool   `json:"user_id_dropped,omitempty"`
}

// ListTranscriptsResponse represents a transcript listing
type ListTranscriptsResponse struct {
	Store       string               `json:"store"`
	Count       int                  `json:"count"`
	Transcripts []TranscriptResponse `json:"transcripts"`
}

// UploadFileResponse represents the result of transcribing an uploaded file
type UploadFileResponse struct {
	Text            string          `json:"text"`
	Filename        string          `json:"filename"`
	DurationSeconds *float64        `json:"duration_seconds,omitempty"`
	AudioKey        string          `json:"audio_key,omitempty"`
	Persist         PersistResponse `json:"persist"`
}
