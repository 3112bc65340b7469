package entities

import (
	"time"
)

// DefaultLanguage is applied to transcripts created without a language code
const DefaultLanguage = "en"

// Transcript is the unit of persistence shared by the primary and fallback stores
type Transcript struct {
	ID              string    `json:"id,omitempty"`
	Text            string    `json:"text"`
	UserID          *string   `json:"user_id,omitempty"`
	Filename        *string   `json:"filename,omitempty"`
	DurationSeconds *float64  `json:"duration_seconds,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	Language        string    `json:"language,omitempty"`
}

// HasUser reports whether the transcript is associated with a user
func (t *Transcript) HasUser() bool {
	return t != nil && t.UserID != nil && *t.UserID != ""
}

// WithoutUser returns a copy of the transcript with the user association cleared
func (t *Transcript) WithoutUser() *Transcript {
	cp := *t
	cp.UserID = nil
	return &cp
}

// FilenameOrDefault is used for log context
func (t *Transcript) FilenameOrDefault() string {
	if t == nil || t.Filename == nil || *t.Filename == "" {
		return "<no-filename>"
	}
	return *t.Filename
}
