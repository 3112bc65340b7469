package transcript

import (
	"strings"
	"sync"
	"time"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
	usecaseErrors "github.com/ashwiniraykar1997/speech-to-text-app/internal/usecase/errors"
)

// NormalizeInput carries everything known about a transcript before it is persisted
type NormalizeInput struct {
	Text            string
	Filename        string
	DurationSeconds *float64
	Identity        *entities.Identity
	Language        string
	CreatedAt       time.Time
}

// Build produces the canonical record shared by both stores. now is used when CreatedAt is unset.
func Build(in NormalizeInput, now time.Time) (*entities.Transcript, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, usecaseErrors.ErrEmptyText
	}
	if in.DurationSeconds != nil && *in.DurationSeconds < 0 {
		return nil, usecaseErrors.ErrNegativeDuration
	}

	created := in.CreatedAt
	if created.IsZero() {
		created = now
	}
	language := strings.TrimSpace(in.Language)
	if language == "" {
		language = entities.DefaultLanguage
	}

	t := &entities.Transcript{
		Text:      in.Text,
		UserID:    in.Identity.UserID(),
		CreatedAt: created.UTC(),
		Language:  language,
	}
	if name := strings.TrimSpace(in.Filename); name != "" {
		t.Filename = &name
	}
	if in.DurationSeconds != nil {
		d := *in.DurationSeconds
		t.DurationSeconds = &d
	}
	return t, nil
}

// Clock issues non-decreasing UTC timestamps
type Clock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

// NewClock creates a clock over now (time.Now when nil)
func NewClock(now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now}
}

// Now returns the current time, clamped so it never goes backwards
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().UTC()
	if t.Before(c.last) {
		return c.last
	}
	c.last = t
	return t
}
