package handler

import (
	"context"
	stdErrors "errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ashwiniraykar1997/speech-to-text-app/errors"
	transcriptDTO "github.com/ashwiniraykar1997/speech-to-text-app/internal/adapter/dto/transcript"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/adapter/presenter"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
	httpmw "github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/http/middleware"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/storage"
	usecaseErrors "github.com/ashwiniraykar1997/speech-to-text-app/internal/usecase/errors"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/usecase/transcript"
	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/stt"
)

// TranscriptService persists and lists transcripts across the primary and fallback stores
type TranscriptService interface {
	Persist(ctx context.Context, rec *entities.Transcript) transcript.PersistResult
	ListForUser(ctx context.Context, userID string) transcript.ListResult
	ListAll(ctx context.Context) transcript.ListResult
	Availability() map[string]bool
}

// Transcript handles transcript persistence and file transcription endpoints
type Transcript struct {
	svc         TranscriptService
	transcriber stt.Transcriber
	audio       AudioStore
	clock       *transcript.Clock
	logger      *zap.Logger
}

// NewTranscriptHandler creates a new transcript handler. audio may be nil.
func NewTranscriptHandler(svc TranscriptService, transcriber stt.Transcriber, audio AudioStore, clock *transcript.Clock, logger *zap.Logger) *Transcript {
	if clock == nil {
		clock = transcript.NewClock(nil)
	}
	return &Transcript{
		svc:         svc,
		transcriber: transcriber,
		audio:       audio,
		clock:       clock,
		logger:      logger,
	}
}

// Create stores a finished transcript
// @Summary      Persist transcript
// @Description  Stores a transcript in the primary store, falling back to the local database. The caller's bearer token, when resolvable, sets user_id.
// @Tags         Transcripts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      transcript.PersistTranscriptRequest  true  "Transcript"
// @Success      200      {object}  transcript.PersistResponse          "Persistence outcome"
// @Failure      400      {object}  common.ErrorResponse                "Empty text or negative duration"
// @Router       /transcripts [post]
func (h *Transcript) Create(c echo.Context) error {
	var req transcriptDTO.PersistTranscriptRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	rec, err := transcript.Build(transcript.NormalizeInput{
		Text:            req.Text,
		Filename:        req.Filename,
		DurationSeconds: req.DurationSeconds,
		Identity:        httpmw.GetIdentity(c),
		Language:        req.Language,
	}, h.clock.Now())
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	result := h.svc.Persist(c.Request().Context(), rec)
	return HandleSuccess(h.logger, c, presenter.ToPersistResponse(result))
}

// List returns stored transcripts
// @Summary      List transcripts
// @Description  Lists transcripts newest first. An explicit user_id wins over the caller's identity; with neither every transcript is returned.
// @Tags         Transcripts
// @Produce      json
// @Security     BearerAuth
// @Param        user_id  query     string                                false  "Filter by user id"
// @Success      200      {object}  transcript.ListTranscriptsResponse  "Transcripts"
// @Failure      503      {object}  common.ErrorResponse                "No store could serve the read"
// @Router       /transcripts [get]
func (h *Transcript) List(c echo.Context) error {
	var req transcriptDTO.ListTranscriptsRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	userID := strings.TrimSpace(req.UserID)
	if userID == "" {
		if id := httpmw.GetIdentity(c); id != nil {
			userID = id.ID
		}
	}

	ctx := c.Request().Context()
	var result transcript.ListResult
	if userID != "" {
		result = h.svc.ListForUser(ctx, userID)
	} else {
		result = h.svc.ListAll(ctx)
	}
	if result.Err != nil {
		return HandleError(h.logger, c, result.Err)
	}
	return HandleSuccess(h.logger, c, presenter.ToListTranscriptsResponse(result))
}

// UploadFile transcribes an uploaded audio file and stores the transcript
// @Summary      Transcribe audio file
// @Description  Transcribes the uploaded file and persists the transcript. A persistence failure is reported in the body and never fails the request.
// @Tags         Transcripts
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file                           true  "Audio file"
// @Success      200   {object}  transcript.UploadFileResponse  "Transcript and persistence outcome"
// @Failure      400   {object}  common.ErrorResponse           "No audio file provided"
// @Failure      500   {object}  common.ErrorResponse           "Transcription failed"
// @Failure      503   {object}  common.ErrorResponse           "Transcription provider not configured"
// @Router       /upload-file [post]
func (h *Transcript) UploadFile(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrMissingAudio("file"))
	}
	data, err := readFormFile(fh)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if len(data) == 0 {
		return HandleError(h.logger, c, errors.ErrMissingAudio("file"))
	}
	if h.transcriber == nil || !h.transcriber.Configured() {
		return HandleError(h.logger, c, errors.ErrTranscriptionUnavailable())
	}

	ctx := c.Request().Context()
	result, err := h.transcriber.Transcribe(ctx, data, fh.Filename)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrTranscriptionFailed(err))
	}

	resp := transcriptDTO.UploadFileResponse{
		Text:            result.Text,
		Filename:        fh.Filename,
		DurationSeconds: result.DurationSeconds,
		AudioKey:        h.storeAudio(ctx, fh.Filename, data, contentType(fh)),
	}

	rec, err := transcript.Build(transcript.NormalizeInput{
		Text:            result.Text,
		Filename:        fh.Filename,
		DurationSeconds: result.DurationSeconds,
		Identity:        httpmw.GetIdentity(c),
		Language:        result.Language,
	}, h.clock.Now())
	switch {
	case err == nil:
		resp.Persist = presenter.ToPersistResponse(h.svc.Persist(ctx, rec))
	case stdErrors.Is(err, usecaseErrors.ErrEmptyText):
		// silence transcribes to nothing; there is no row to store
		resp.Persist = presenter.ToPersistResponse(transcript.PersistResult{Store: transcript.StoreNone})
	default:
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, resp)
}

// storeAudio keeps the uploaded file when artifact storage is enabled. Failures only log.
func (h *Transcript) storeAudio(ctx context.Context, filename string, data []byte, contentType string) string {
	if h.audio == nil {
		return ""
	}
	key := storage.ObjectKey(fmt.Sprintf("uploads/%s", uuid.NewString()), filename)
	if err := h.audio.Upload(ctx, key, data, contentType); err != nil {
		if h.logger != nil {
			h.logger.Warn("failed to store uploaded audio", zap.String("filename", filename), zap.Error(err))
		}
		return ""
	}
	return key
}
