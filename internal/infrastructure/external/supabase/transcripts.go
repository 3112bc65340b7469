package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/repositories"
)

// TranscriptStore is the primary transcript store backed by a Supabase table
type TranscriptStore struct {
	client *Client
}

// NewTranscriptStore creates the primary store
func NewTranscriptStore(client *Client) *TranscriptStore {
	return &TranscriptStore{client: client}
}

// Name returns the store name
func (s *TranscriptStore) Name() string {
	return repositories.StorePrimary
}

// Available reports whether Supabase is configured
func (s *TranscriptStore) Available() bool {
	return s.client.Configured()
}

// Insert adds a transcript row and returns the representation Supabase stored
func (s *TranscriptStore) Insert(ctx context.Context, transcript *entities.Transcript) repositories.Response {
	if !s.Available() {
		return repositories.Response{Err: fmt.Errorf("%w: supabase not configured", entities.ErrStoreUnreachable)}
	}
	body, err := json.Marshal(newInsertPayload(transcript))
	if err != nil {
		return repositories.Response{Err: fmt.Errorf("%w: failed to encode record: %v", entities.ErrStoreRejected, err)}
	}

	status, data, err := s.client.do(ctx, s.client.rest, http.MethodPost, s.client.restURL(url.PathEscape(s.client.table)), body,
		map[string]string{"Prefer": "return=representation"})
	if err != nil {
		s.client.logger.Error("supabase insert failed",
			zap.String("filename", transcript.FilenameOrDefault()),
			zap.Error(err),
		)
		return repositories.Response{Err: fmt.Errorf("%w: %v", entities.ErrStoreUnreachable, err)}
	}

	resp := normalizeResponse(status, data)
	if resp.Failed() {
		s.client.logger.Error("supabase insert error",
			zap.String("filename", transcript.FilenameOrDefault()),
			zap.Int("status", status),
			zap.Error(resp.Err),
		)
		return resp
	}
	s.client.logger.Info("inserted transcript to supabase",
		zap.String("filename", transcript.FilenameOrDefault()),
	)
	return resp
}

// SelectAll lists every transcript, newest first
func (s *TranscriptStore) SelectAll(ctx context.Context) repositories.Response {
	return s.selectWhere(ctx, nil)
}

// SelectByUser lists the user's transcripts, newest first
func (s *TranscriptStore) SelectByUser(ctx context.Context, userID string) repositories.Response {
	return s.selectWhere(ctx, url.Values{"user_id": {"eq." + userID}})
}

func (s *TranscriptStore) selectWhere(ctx context.Context, filter url.Values) repositories.Response {
	if !s.Available() {
		return repositories.Response{Err: fmt.Errorf("%w: supabase not configured", entities.ErrStoreUnreachable)}
	}
	query := url.Values{
		"select": {"*"},
		"order":  {"created_at.desc,id.asc"},
	}
	for k, v := range filter {
		query[k] = v
	}

	endpoint := s.client.restURL(url.PathEscape(s.client.table)) + "?" + query.Encode()
	status, data, err := s.client.do(ctx, s.client.rest, http.MethodGet, endpoint, nil, nil)
	if err != nil {
		s.client.logger.Error("supabase select failed", zap.Error(err))
		return repositories.Response{Err: fmt.Errorf("%w: %v", entities.ErrStoreUnreachable, err)}
	}

	resp := normalizeResponse(status, data)
	if resp.Failed() {
		s.client.logger.Error("supabase select error", zap.Int("status", status), zap.Error(resp.Err))
	}
	return resp
}
