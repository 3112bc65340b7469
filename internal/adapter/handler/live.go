package handler

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ashwiniraykar1997/speech-to-text-app/errors"
	liveDTO "github.com/ashwiniraykar1997/speech-to-text-app/internal/adapter/dto/live"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/adapter/presenter"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
	httpmw "github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/http/middleware"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/metrics"
	usecaseErrors "github.com/ashwiniraykar1997/speech-to-text-app/internal/usecase/errors"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/usecase/live"
)

// DefaultStreamInterval is how often live-stream polls the session for changes
const DefaultStreamInterval = 300 * time.Millisecond

// LiveService manages live recording sessions
type LiveService interface {
	UploadChunk(ctx context.Context, in live.ChunkInput) (*entities.LiveSession, error)
	Stop(ctx context.Context, sessionID string, identity *entities.Identity) (*live.StopResult, error)
	Snapshot(ctx context.Context, sessionID string) (*entities.LiveSession, error)
}

// Live handles live recording endpoints
type Live struct {
	svc      LiveService
	audio    AudioStore
	interval time.Duration
	logger   *zap.Logger
}

// NewLiveHandler creates a new live recording handler. audio may be nil.
func NewLiveHandler(svc LiveService, audio AudioStore, interval time.Duration, logger *zap.Logger) *Live {
	if interval <= 0 {
		interval = DefaultStreamInterval
	}
	return &Live{svc: svc, audio: audio, interval: interval, logger: logger}
}

// UploadChunk transcribes one recorded chunk and appends it to its session
// @Summary      Upload live chunk
// @Description  Transcribes an audio chunk and appends it to the session. Omit session_id or set new_recording to start a new session.
// @Tags         Live
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        audio          formData  file     true   "Audio chunk"
// @Param        session_id     formData  string   false  "Session id"
// @Param        new_recording  formData  boolean  false  "Start a new recording"
// @Success      200            {object}  live.SessionResponse  "Session state"
// @Failure      400            {object}  common.ErrorResponse  "No audio file provided"
// @Failure      409            {object}  common.ErrorResponse  "Session already stopped"
// @Failure      503            {object}  common.ErrorResponse  "Transcription provider not configured"
// @Router       /upload-live [post]
func (h *Live) UploadChunk(c echo.Context) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrMissingAudio("audio"))
	}
	data, err := readFormFile(fh)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	sessionID := strings.TrimSpace(c.FormValue("session_id"))
	fresh, _ := strconv.ParseBool(c.FormValue("new_recording"))

	session, err := h.svc.UploadChunk(c.Request().Context(), live.ChunkInput{
		SessionID:    sessionID,
		NewRecording: fresh,
		Audio:        data,
		Filename:     fh.Filename,
		ContentType:  contentType(fh),
		Identity:     httpmw.GetIdentity(c),
	})
	if err != nil {
		return HandleError(h.logger, c, sessionError(err, sessionID))
	}
	return HandleSuccess(h.logger, c, presenter.ToSessionResponse(session))
}

// Stop completes a recording and persists its transcript
// @Summary      Stop live recording
// @Description  Completes the session and persists the accumulated transcript once. Stopping again returns the stored outcome.
// @Tags         Live
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      live.StopLiveRequest   true  "Session"
// @Success      200      {object}  live.StopLiveResponse  "Final transcript and persistence outcome"
// @Failure      400      {object}  common.ErrorResponse   "Missing session_id"
// @Failure      404      {object}  common.ErrorResponse   "Session not found"
// @Router       /stop-live [post]
func (h *Live) Stop(c echo.Context) error {
	var req liveDTO.StopLiveRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	result, err := h.svc.Stop(c.Request().Context(), req.SessionID, httpmw.GetIdentity(c))
	if err != nil {
		return HandleError(h.logger, c, sessionError(err, req.SessionID))
	}
	return HandleSuccess(h.logger, c, liveDTO.StopLiveResponse{
		SessionResponse: presenter.ToSessionResponse(result.Session),
		Persist:         presenter.ToPersistResponse(result.Persist),
	})
}

// Stream publishes session snapshots as server-sent events until the session is stopped
// @Summary      Stream live progress
// @Description  Server-sent events carrying the session state on every change. The stream ends once the session is completed.
// @Tags         Live
// @Produce      text/event-stream
// @Param        session_id  query     string                true  "Session id"
// @Success      200         {object}  live.SessionResponse  "Event payload"
// @Failure      404         {object}  common.ErrorResponse  "Session not found"
// @Router       /live-stream [get]
func (h *Live) Stream(c echo.Context) error {
	sessionID := strings.TrimSpace(c.QueryParam("session_id"))
	if sessionID == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("session_id is required"))
	}

	ctx := c.Request().Context()
	session, err := h.svc.Snapshot(ctx, sessionID)
	if err != nil {
		return HandleError(h.logger, c, sessionError(err, sessionID))
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var last *liveDTO.SessionResponse
	for {
		snapshot := presenter.ToSessionResponse(session)
		if last == nil || !sameSnapshot(*last, snapshot) {
			if err := writeEvent(w, "progress", snapshot); err != nil {
				return nil
			}
			last = &snapshot
		}
		if session.IsCompleted() {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		session, err = h.svc.Snapshot(ctx, sessionID)
		if err != nil {
			// the session expired or the registry failed; tell the client and end the stream
			_ = writeEvent(w, "error", map[string]string{"session_id": sessionID, "error": err.Error()})
			return nil
		}
	}
}

// Download redirects to a time-limited URL of a stored live recording
// @Summary      Download live audio
// @Description  Redirects to a presigned URL of a stored audio object.
// @Tags         Live
// @Param        filename  query     string                true  "Stored object key"
// @Success      302       {string}  string                "Redirect to the audio"
// @Failure      404       {object}  common.ErrorResponse  "Audio file not found"
// @Router       /download-live [get]
func (h *Live) Download(c echo.Context) error {
	key := strings.TrimSpace(c.QueryParam("filename"))
	if key == "" || strings.Contains(key, "..") {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("filename is required"))
	}
	if h.audio == nil {
		return HandleError(h.logger, c, usecaseErrors.ErrArtifactStoreDisabled)
	}

	ctx := c.Request().Context()
	ok, err := h.audio.Exists(ctx, key)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("stat", err))
	}
	if !ok {
		return HandleError(h.logger, c, errors.ErrNotFound("Audio file"))
	}

	u, err := h.audio.DownloadURL(ctx, key)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("presign", err))
	}
	return c.Redirect(http.StatusFound, u)
}

// sessionError attaches the session id to session errors
func sessionError(err error, sessionID string) error {
	switch {
	case stdErrors.Is(err, entities.ErrSessionNotFound):
		return errors.ErrSessionNotFound(sessionID)
	case stdErrors.Is(err, usecaseErrors.ErrSessionCompleted):
		return errors.ErrSessionCompleted(sessionID)
	default:
		return err
	}
}

// sameSnapshot reports whether two progress events would tell the client the same thing
func sameSnapshot(a, b liveDTO.SessionResponse) bool {
	return a.SessionID == b.SessionID &&
		a.Status == b.Status &&
		a.Text == b.Text &&
		a.Filename == b.Filename &&
		a.TotalChunks == b.TotalChunks &&
		a.ProcessedChunks == b.ProcessedChunks &&
		a.Progress == b.Progress &&
		a.DurationSeconds == b.DurationSeconds &&
		a.UpdatedAt.Equal(b.UpdatedAt)
}

func writeEvent(w *echo.Response, event string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data); err != nil {
		return err
	}
	w.Flush()
	metrics.SSEEventsPublishedTotal.Inc()
	return nil
}
