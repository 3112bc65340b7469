package transcript

// PersistTranscriptRequest represents a request to store a finished transcript
type PersistTranscriptRequest struct {
	Text            string   `json:"text" validate:"required"`
	Filename        string   `json:"filename,omitempty" validate:"omitempty,max=255"`
	DurationSeconds *float64 `json:"duration_seconds,omitempty" validate:"omitempty,gte=0"`
	Language        string   `json:"language,omitempty" validate:"omitempty,min=2,max=16"`
}

// ListTranscriptsRequest represents the query of a transcript listing
type ListTranscriptsRequest struct {
	UserID string `query:"user_id"`
}
