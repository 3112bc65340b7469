package supabase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/repositories"
)

// flexString accepts JSON strings and numbers (ids may be serial or uuid)
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// timestampLayouts covers timestamptz and timestamp columns as rendered by PostgREST
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// row is the remote transcripts row
type row struct {
	ID              flexString `json:"id"`
	Text            string     `json:"text"`
	UserID          flexString `json:"user_id"`
	Filename        *string    `json:"filename"`
	DurationSeconds *float64   `json:"duration_seconds"`
	CreatedAt       string     `json:"created_at"`
	Language        string     `json:"language"`
}

// stored reports whether the object is an actual row; objects without an id carry nothing
func (r row) stored() bool {
	return strings.TrimSpace(string(r.ID)) != ""
}

func (r row) toEntity() *entities.Transcript {
	t := &entities.Transcript{
		ID:              string(r.ID),
		Text:            r.Text,
		Filename:        r.Filename,
		DurationSeconds: r.DurationSeconds,
		CreatedAt:       parseTimestamp(r.CreatedAt),
		Language:        r.Language,
	}
	if r.UserID != "" {
		uid := string(r.UserID)
		t.UserID = &uid
	}
	if t.Language == "" {
		t.Language = entities.DefaultLanguage
	}
	return t
}

// insertPayload mirrors the remote row; user_id is omitted for anonymous callers
type insertPayload struct {
	Text            string   `json:"text"`
	Filename        *string  `json:"filename"`
	DurationSeconds *float64 `json:"duration_seconds"`
	CreatedAt       string   `json:"created_at"`
	UserID          *string  `json:"user_id,omitempty"`
}

func newInsertPayload(t *entities.Transcript) insertPayload {
	return insertPayload{
		Text:            t.Text,
		Filename:        t.Filename,
		DurationSeconds: t.DurationSeconds,
		CreatedAt:       t.CreatedAt.UTC().Format(time.RFC3339Nano),
		UserID:          t.UserID,
	}
}

// normalizeResponse converts any known Supabase response shape into a repositories.Response:
// a bare row array, a single row object, a {data, error} envelope, or a PostgREST error object.
func normalizeResponse(status int, body []byte) repositories.Response {
	body = bytes.TrimSpace(body)

	if status >= http.StatusBadRequest {
		sentinel := entities.ErrStoreRejected
		if status >= http.StatusInternalServerError || status == http.StatusTooManyRequests {
			sentinel = entities.ErrStoreUnreachable
		}
		return repositories.Response{Err: fmt.Errorf("%w: status %d: %s", sentinel, status, errorMessage(body))}
	}
	if len(body) == 0 {
		return repositories.Response{}
	}

	switch body[0] {
	case '[':
		rows, err := decodeRows(body)
		if err != nil {
			return repositories.Response{Err: err}
		}
		return repositories.Response{Data: rows}
	case '{':
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(body, &envelope); err != nil {
			return repositories.Response{Err: fmt.Errorf("%w: invalid response body: %v", entities.ErrStoreRejected, err)}
		}
		if raw, ok := envelope["error"]; ok && !isEmptyJSON(raw) {
			return repositories.Response{Err: fmt.Errorf("%w: %s", entities.ErrStoreRejected, errorMessage(raw))}
		}
		if raw, ok := envelope["data"]; ok {
			if isEmptyJSON(raw) {
				return repositories.Response{}
			}
			return normalizeResponse(status, raw)
		}
		if _, hasCode := envelope["code"]; hasCode {
			if _, hasMsg := envelope["message"]; hasMsg {
				return repositories.Response{Err: fmt.Errorf("%w: %s", entities.ErrStoreRejected, errorMessage(body))}
			}
		}
		var single row
		if err := json.Unmarshal(body, &single); err != nil {
			return repositories.Response{Err: fmt.Errorf("%w: invalid row: %v", entities.ErrStoreRejected, err)}
		}
		if !single.stored() {
			return repositories.Response{}
		}
		return repositories.Response{Data: []*entities.Transcript{single.toEntity()}}
	default:
		return repositories.Response{Err: fmt.Errorf("%w: unexpected response: %s", entities.ErrStoreRejected, truncate(string(body)))}
	}
}

func decodeRows(body []byte) ([]*entities.Transcript, error) {
	var rows []row
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("%w: invalid rows: %v", entities.ErrStoreRejected, err)
	}
	out := make([]*entities.Transcript, 0, len(rows))
	for _, r := range rows {
		if !r.stored() {
			continue
		}
		out = append(out, r.toEntity())
	}
	return out, nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null" || s == `""` || s == "{}" || s == "[]" || s == "false"
}

// errorMessage extracts a readable message from an error payload
func errorMessage(raw []byte) string {
	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, key := range []string{"message", "msg", "error_description", "error", "hint"} {
			if v, ok := obj[key].(string); ok && v != "" {
				if code, ok := obj["code"]; ok {
					return fmt.Sprintf("%v: %s", code, v)
				}
				return v
			}
		}
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return truncate(string(raw))
}

func truncate(s string) string {
	const limit = 200
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..." + strconv.Itoa(len(s)-limit) + " more bytes"
}
