package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appErrors "github.com/ashwiniraykar1997/speech-to-text-app/errors"
	liveDTO "github.com/ashwiniraykar1997/speech-to-text-app/internal/adapter/dto/live"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/adapter/repository"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/cache"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/database"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/external/supabase"
	httpmw "github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/http/middleware"
	usecaseErrors "github.com/ashwiniraykar1997/speech-to-text-app/internal/usecase/errors"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/usecase/identity"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/usecase/live"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/usecase/transcript"
	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/config"
	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/jwt"
	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/stt"
	pkgvalidator "github.com/ashwiniraykar1997/speech-to-text-app/pkg/validator"
)

type fakeTranscriber struct {
	mu         sync.Mutex
	configured bool
	texts      []string
	err        error
}

func (f *fakeTranscriber) Configured() bool { return f.configured }

func (f *fakeTranscriber) Transcribe(_ context.Context, _ []byte, _ string) (*stt.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	text := ""
	if len(f.texts) > 0 {
		text, f.texts = f.texts[0], f.texts[1:]
	}
	d := 1.5
	return &stt.Result{Text: text, DurationSeconds: &d, Language: "en"}, nil
}

type fakeAudio struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeAudio() *fakeAudio {
	return &fakeAudio{objects: map[string][]byte{}}
}

func (f *fakeAudio) Upload(_ context.Context, key string, data []byte, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	return nil
}

func (f *fakeAudio) Exists(_ context.Context, key string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeAudio) DownloadURL(_ context.Context, key string) (string, error) {
	return "https://audio.example.com/" + key + "?X-Amz-Signature=abc", nil
}

func (f *fakeAudio) keys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys
}

type envelope[T any] struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	Info    string `json:"info"`
}

type testServer struct {
	e           *echo.Echo
	transcripts *transcript.Service
	transcriber *fakeTranscriber
	audio       *fakeAudio
}

type serverOptions struct {
	transcriber *fakeTranscriber
	noAudio     bool
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()
	logger := zap.NewNop()

	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:         config.DriverSQLite,
		SQLitePath:     ":memory:",
		ConnectTimeout: time.Second,
	}}
	db, err := database.NewDB(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB(db) })
	_, err = database.Migrate(db, logger)
	require.NoError(t, err)

	client := supabase.NewClient(config.SupabaseConfig{}, time.Second, logger)
	fallback := repository.NewTranscriptRepository(db, repository.DetectUserIDKind(db, "auto", logger), logger)
	svc := transcript.NewService(supabase.NewTranscriptStore(client), fallback, config.MismatchStrip, time.Second, logger)

	transcriber := opts.transcriber
	if transcriber == nil {
		transcriber = &fakeTranscriber{configured: true}
	}

	var audio AudioStore
	fa := newFakeAudio()
	var artifacts live.ArtifactStore
	if !opts.noAudio {
		audio = fa
		artifacts = fa
	}

	store := cache.NewMemoryStore()
	t.Cleanup(func() { _ = store.Close() })
	clock := transcript.NewClock(nil)
	liveSvc := live.NewService(cache.NewSessionRepository(store, time.Hour), transcriber, svc, artifacts, clock, logger)

	resolver := identity.NewResolver(client, nil, true, time.Second, logger)

	e := echo.New()
	e.Validator = pkgvalidator.New()
	router := NewRouter(
		NewHealthHandler("test", svc, transcriber),
		NewTranscriptHandler(svc, transcriber, audio, clock, logger),
		NewLiveHandler(liveSvc, audio, 5*time.Millisecond, logger),
		httpmw.Identify(resolver),
	)
	router.Setup(e)

	return &testServer{e: e, transcripts: svc, transcriber: transcriber, audio: fa}
}

func (s *testServer) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func bearer(t *testing.T, subject string) string {
	t.Helper()
	token, err := jwt.NewManager("any-secret", time.Hour).GenerateAccessToken(subject, subject+"@example.com", "authenticated")
	require.NoError(t, err)
	return "Bearer " + token
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func multipartRequest(t *testing.T, target, field, filename string, data []byte, fields map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if field != "" {
		fw, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

type persistBody struct {
	Store         string `json:"store"`
	ID            string `json:"id"`
	Degraded      bool   `json:"degraded"`
	UserIDDropped bool   `json:"user_id_dropped"`
}

type transcriptBody struct {
	ID       string  `json:"id"`
	Text     string  `json:"text"`
	UserID   *string `json:"user_id"`
	Filename *string `json:"filename"`
}

type listBody struct {
	Store       string           `json:"store"`
	Count       int              `json:"count"`
	Transcripts []transcriptBody `json:"transcripts"`
}

type sessionBody struct {
	SessionID       string `json:"session_id"`
	Status          string `json:"status"`
	Text            string `json:"text"`
	Filename        string `json:"filename"`
	TotalChunks     int    `json:"total_chunks"`
	ProcessedChunks int    `json:"processed_chunks"`
	Progress        int    `json:"progress"`
}

type stopBody struct {
	sessionBody
	Persist persistBody `json:"persist"`
}

func TestCreateTranscript(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	req := jsonRequest(http.MethodPost, "/v1/transcripts", `{"text":"  hello world ","filename":"a.wav","duration_seconds":3.5}`)
	req.Header.Set(echo.HeaderAuthorization, bearer(t, "user-7"))
	rec := s.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decode[persistBody](t, rec)
	assert.Equal(t, "fallback", env.Data.Store)
	assert.False(t, env.Data.Degraded)
	assert.NotEmpty(t, env.Data.ID)

	listed := s.transcripts.ListForUser(context.Background(), "user-7")
	require.NoError(t, listed.Err)
	require.Len(t, listed.Transcripts, 1)
	assert.Equal(t, "  hello world ", listed.Transcripts[0].Text)
}

func TestCreateTranscriptValidation(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	tests := []struct {
		name string
		body string
	}{
		{name: "missing text", body: `{"filename":"a.wav"}`},
		{name: "blank text", body: `{"text":"   "}`},
		{name: "negative duration", body: `{"text":"hi","duration_seconds":-1}`},
		{name: "malformed json", body: `{"text":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, jsonRequest(http.MethodPost, "/v1/transcripts", tt.body))
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
		})
	}

	listed := s.transcripts.ListAll(context.Background())
	require.NoError(t, listed.Err)
	assert.Empty(t, listed.Transcripts)
}

func TestListTranscriptsPrecedence(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	for _, user := range []string{"alice", "bob"} {
		req := jsonRequest(http.MethodPost, "/v1/transcripts", `{"text":"note from `+user+`"}`)
		req.Header.Set(echo.HeaderAuthorization, bearer(t, user))
		require.Equal(t, http.StatusOK, s.do(t, req).Code)
		time.Sleep(2 * time.Millisecond)
	}

	t.Run("explicit user_id wins over identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/transcripts?user_id=alice", nil)
		req.Header.Set(echo.HeaderAuthorization, bearer(t, "bob"))
		rec := s.do(t, req)
		require.Equal(t, http.StatusOK, rec.Code)
		env := decode[listBody](t, rec)
		require.Equal(t, 1, env.Data.Count)
		assert.Equal(t, "note from alice", env.Data.Transcripts[0].Text)
	})

	t.Run("resolved identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/transcripts", nil)
		req.Header.Set(echo.HeaderAuthorization, bearer(t, "bob"))
		env := decode[listBody](t, s.do(t, req))
		require.Equal(t, 1, env.Data.Count)
		assert.Equal(t, "note from bob", env.Data.Transcripts[0].Text)
	})

	t.Run("anonymous lists everything newest first", func(t *testing.T) {
		env := decode[listBody](t, s.do(t, httptest.NewRequest(http.MethodGet, "/v1/transcripts", nil)))
		assert.Equal(t, "fallback", env.Data.Store)
		require.Equal(t, 2, env.Data.Count)
		assert.Equal(t, "note from bob", env.Data.Transcripts[0].Text)
	})
}

func TestUploadFile(t *testing.T) {
	s := newTestServer(t, serverOptions{transcriber: &fakeTranscriber{configured: true, texts: []string{"hi there"}}})

	req := multipartRequest(t, "/v1/upload-file", "file", "lecture.wav", []byte("RIFF"), nil)
	req.Header.Set(echo.HeaderAuthorization, bearer(t, "carol"))
	rec := s.do(t, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decode[struct {
		Text     string      `json:"text"`
		Filename string      `json:"filename"`
		AudioKey string      `json:"audio_key"`
		Persist  persistBody `json:"persist"`
	}](t, rec)
	assert.Equal(t, "hi there", env.Data.Text)
	assert.Equal(t, "lecture.wav", env.Data.Filename)
	assert.Equal(t, "fallback", env.Data.Persist.Store)
	assert.True(t, strings.HasPrefix(env.Data.AudioKey, "uploads/"))
	assert.True(t, strings.HasSuffix(env.Data.AudioKey, "/lecture.wav"))
	assert.Equal(t, []string{env.Data.AudioKey}, s.audio.keys())

	listed := s.transcripts.ListForUser(context.Background(), "carol")
	require.NoError(t, listed.Err)
	require.Len(t, listed.Transcripts, 1)
	require.NotNil(t, listed.Transcripts[0].DurationSeconds)
	assert.InDelta(t, 1.5, *listed.Transcripts[0].DurationSeconds, 0.001)
}

func TestUploadFileSilenceIsNotPersisted(t *testing.T) {
	s := newTestServer(t, serverOptions{transcriber: &fakeTranscriber{configured: true, texts: []string{""}}})

	rec := s.do(t, multipartRequest(t, "/v1/upload-file", "file", "quiet.wav", []byte("RIFF"), nil))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	env := decode[struct {
		Persist persistBody `json:"persist"`
	}](t, rec)
	assert.Equal(t, transcript.StoreNone, env.Data.Persist.Store)
	assert.False(t, env.Data.Persist.Degraded)
}

func TestUploadFileErrors(t *testing.T) {
	tests := []struct {
		name        string
		transcriber *fakeTranscriber
		field       string
		data        []byte
		wantStatus  int
	}{
		{name: "no file", transcriber: &fakeTranscriber{configured: true}, wantStatus: http.StatusBadRequest},
		{name: "wrong field", transcriber: &fakeTranscriber{configured: true}, field: "audio", data: []byte("x"), wantStatus: http.StatusBadRequest},
		{name: "empty file", transcriber: &fakeTranscriber{configured: true}, field: "file", data: []byte{}, wantStatus: http.StatusBadRequest},
		{name: "not configured", transcriber: &fakeTranscriber{}, field: "file", data: []byte("x"), wantStatus: http.StatusServiceUnavailable},
		{name: "provider fails", transcriber: &fakeTranscriber{configured: true, err: errors.New("boom")}, field: "file", data: []byte("x"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, serverOptions{transcriber: tt.transcriber})
			rec := s.do(t, multipartRequest(t, "/v1/upload-file", tt.field, "a.wav", tt.data, nil))
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestLiveRecordingFlow(t *testing.T) {
	s := newTestServer(t, serverOptions{transcriber: &fakeTranscriber{configured: true, texts: []string{"hello", "world"}}})
	auth := bearer(t, "dave")

	req := multipartRequest(t, "/v1/upload-live", "audio", "chunk.webm", []byte("a"), map[string]string{"new_recording": "true"})
	req.Header.Set(echo.HeaderAuthorization, auth)
	rec := s.do(t, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	first := decode[sessionBody](t, rec)
	require.NotEmpty(t, first.Data.SessionID)
	assert.Equal(t, "processing", first.Data.Status)
	assert.Equal(t, "hello", first.Data.Text)

	id := first.Data.SessionID
	rec = s.do(t, multipartRequest(t, "/v1/upload-live", "audio", "chunk.webm", []byte("b"), map[string]string{"session_id": id}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	second := decode[sessionBody](t, rec)
	assert.Equal(t, "hello world", second.Data.Text)
	assert.Equal(t, 2, second.Data.ProcessedChunks)
	assert.Equal(t, 100, second.Data.Progress)
	assert.True(t, strings.HasPrefix(second.Data.Filename, "live/"+id+"/002_"))

	rec = s.do(t, jsonRequest(http.MethodPost, "/v1/stop-live", `{"session_id":"`+id+`"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	stopped := decode[stopBody](t, rec)
	assert.Equal(t, "completed", stopped.Data.Status)
	assert.Equal(t, "hello world", stopped.Data.Text)
	assert.Equal(t, "fallback", stopped.Data.Persist.Store)

	// stopping again returns the stored outcome without a second row
	rec = s.do(t, jsonRequest(http.MethodPost, "/v1/stop-live", `{"session_id":"`+id+`"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	again := decode[stopBody](t, rec)
	assert.Equal(t, stopped.Data.Persist.ID, again.Data.Persist.ID)

	listed := s.transcripts.ListForUser(context.Background(), "dave")
	require.NoError(t, listed.Err)
	assert.Len(t, listed.Transcripts, 1)

	// chunks after stop are refused
	rec = s.do(t, multipartRequest(t, "/v1/upload-live", "audio", "chunk.webm", []byte("c"), map[string]string{"session_id": id}))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// a completed session streams one final event
	rec = s.do(t, httptest.NewRequest(http.MethodGet, "/v1/live-stream?session_id="+id, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, strings.Count(rec.Body.String(), "event: progress"))
	assert.Contains(t, rec.Body.String(), `"status":"completed"`)
}

func TestLiveStreamUntilStopped(t *testing.T) {
	s := newTestServer(t, serverOptions{transcriber: &fakeTranscriber{configured: true, texts: []string{"streaming"}}})

	rec := s.do(t, multipartRequest(t, "/v1/upload-live", "audio", "chunk.webm", []byte("a"), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode[sessionBody](t, rec).Data.SessionID

	go func() {
		time.Sleep(30 * time.Millisecond)
		s.do(t, jsonRequest(http.MethodPost, "/v1/stop-live", `{"session_id":"`+id+`"}`))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	stream := s.do(t, httptest.NewRequest(http.MethodGet, "/v1/live-stream?session_id="+id, nil).WithContext(ctx))

	body := stream.Body.String()
	require.NoError(t, ctx.Err(), "stream did not end after stop")
	assert.GreaterOrEqual(t, strings.Count(body, "event: progress"), 2)
	assert.Contains(t, body, `"status":"processing"`)
	assert.Contains(t, body, `"status":"completed"`)
}

func TestLiveErrors(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
	}{
		{name: "stop without session id", req: jsonRequest(http.MethodPost, "/v1/stop-live", `{}`), wantStatus: http.StatusBadRequest},
		{name: "stop unknown session", req: jsonRequest(http.MethodPost, "/v1/stop-live", `{"session_id":"nope"}`), wantStatus: http.StatusNotFound},
		{name: "stream unknown session", req: httptest.NewRequest(http.MethodGet, "/v1/live-stream?session_id=nope", nil), wantStatus: http.StatusNotFound},
		{name: "stream without session id", req: httptest.NewRequest(http.MethodGet, "/v1/live-stream", nil), wantStatus: http.StatusBadRequest},
		{name: "upload without audio", req: multipartRequest(t, "/v1/upload-live", "", "", nil, map[string]string{"session_id": "x"}), wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, tt.req)
			assert.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
		})
	}
}

func TestDownloadLive(t *testing.T) {
	s := newTestServer(t, serverOptions{})
	require.NoError(t, s.audio.Upload(context.Background(), "live/s-1/001_chunk.webm", []byte("a"), "audio/webm"))

	t.Run("redirects to presigned url", func(t *testing.T) {
		rec := s.do(t, httptest.NewRequest(http.MethodGet, "/v1/download-live?filename=live/s-1/001_chunk.webm", nil))
		require.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "https://audio.example.com/live/s-1/001_chunk.webm?X-Amz-Signature=abc", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("missing object", func(t *testing.T) {
		rec := s.do(t, httptest.NewRequest(http.MethodGet, "/v1/download-live?filename=live/s-1/404.webm", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("path traversal", func(t *testing.T) {
		rec := s.do(t, httptest.NewRequest(http.MethodGet, "/v1/download-live?filename=../secret", nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("storage disabled", func(t *testing.T) {
		disabled := newTestServer(t, serverOptions{noAudio: true})
		rec := disabled.do(t, httptest.NewRequest(http.MethodGet, "/v1/download-live?filename=live/s-1/001_chunk.webm", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, serverOptions{})

	for _, path := range []string{"/", "/health"} {
		rec := s.do(t, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Status      string          `json:"status"`
			Environment string          `json:"environment"`
			Stores      map[string]bool `json:"stores"`
			Transcriber bool            `json:"transcriber"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "test", body.Environment)
		assert.Equal(t, map[string]bool{"primary": false, "fallback": true}, body.Stores)
		assert.True(t, body.Transcriber)
	}

	rec := s.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "speech_app_")
}

func TestNotImplementedRoutes(t *testing.T) {
	e := echo.New()
	NewRouter(nil, nil, nil, nil).Setup(e)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/upload-live", nil))
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "empty text", err: usecaseErrors.ErrEmptyText, wantStatus: http.StatusBadRequest},
		{name: "transcriber missing", err: usecaseErrors.ErrTranscriberNotConfigured, wantStatus: http.StatusServiceUnavailable},
		{name: "store unreachable", err: fmt.Errorf("wrapped: %w", entities.ErrStoreUnreachable), wantStatus: http.StatusServiceUnavailable},
		{name: "schema mismatch", err: entities.ErrSchemaTypeMismatch, wantStatus: http.StatusInternalServerError},
		{name: "session not found", err: entities.ErrSessionNotFound, wantStatus: http.StatusNotFound},
		{name: "session completed", err: usecaseErrors.ErrSessionCompleted, wantStatus: http.StatusConflict},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			require.NoError(t, HandleError(nil, c, tt.err))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestHandleErrorUnknownIsInternal(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	require.NoError(t, HandleError(zap.NewNop(), c, errors.New("disk on fire")))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Info    string `json:"info"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, int(appErrors.ErrorCode_INTERNAL), body.Code)
	assert.Equal(t, "Internal server error", body.Message)
	assert.Equal(t, "disk on fire", body.Info)
}

func TestSameSnapshot(t *testing.T) {
	at := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	base := liveDTO.SessionResponse{
		SessionID:       "s1",
		Status:          "recording",
		Text:            "hello",
		TotalChunks:     2,
		ProcessedChunks: 1,
		Progress:        50,
		UpdatedAt:       at,
	}

	t.Run("same instant in another zone", func(t *testing.T) {
		other := base
		other.UpdatedAt = at.In(time.FixedZone("CEST", 2*3600))
		assert.True(t, sameSnapshot(base, other))
	})

	t.Run("monotonic reading is ignored", func(t *testing.T) {
		now := time.Now()
		a, b := base, base
		a.UpdatedAt = now
		b.UpdatedAt = now.Round(0)
		assert.True(t, sameSnapshot(a, b))
	})

	t.Run("status change", func(t *testing.T) {
		other := base
		other.Status = "completed"
		assert.False(t, sameSnapshot(base, other))
	})

	t.Run("new text", func(t *testing.T) {
		other := base
		other.Text = "hello world"
		other.ProcessedChunks = 2
		assert.False(t, sameSnapshot(base, other))
	})
}
