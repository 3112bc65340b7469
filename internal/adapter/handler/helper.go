package handler

import (
	"context"
	stdErrors "errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ashwiniraykar1997/speech-to-text-app/errors"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/adapter/dto/common"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/storage"
	usecaseErrors "github.com/ashwiniraykar1997/speech-to-text-app/internal/usecase/errors"
	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/stt"
)

// AudioStore keeps uploaded audio and hands out download links
type AudioStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
	DownloadURL(ctx context.Context, key string) (string, error)
}

// getRequestID tries to read X-Request-ID from the request
func getRequestID(c echo.Context) string {
	if c == nil || c.Request() == nil {
		return ""
	}
	return c.Request().Header.Get("X-Request-ID")
}

// HandleSuccess writes a standardized success response using provided logger
func HandleSuccess(logger *zap.Logger, c echo.Context, data interface{}) error {
	resp := common.SuccessResponse{
		Code:    int(errors.ErrorCode_HTTP_OK),
		Message: "success",
		Data:    data,
	}

	if logger != nil {
		logger.Info("http.response.success",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
		)
	}

	return c.JSON(http.StatusOK, resp)
}

// HandleError centralizes error handling and logging using provided logger
func HandleError(logger *zap.Logger, c echo.Context, err error) error {
	appErr := toAppError(err)

	if logger != nil {
		logger.Error("http.response.error",
			zap.String("request_id", getRequestID(c)),
			zap.String("path", c.Path()),
			zap.Any("app_code", appErr.Code),
			zap.Error(err),
		)
	}

	info := ""
	if appErr.Raw != nil {
		info = appErr.Raw.Error()
	}

	body := common.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Info:    info,
	}

	return c.JSON(appErr.HTTPCode, body)
}

// toAppError maps domain and usecase errors to their API error
func toAppError(err error) errors.AppError {
	var appErr errors.AppError
	switch {
	case stdErrors.As(err, &appErr):
		return appErr
	case stdErrors.Is(err, usecaseErrors.ErrEmptyText),
		stdErrors.Is(err, usecaseErrors.ErrNegativeDuration),
		stdErrors.Is(err, usecaseErrors.ErrSessionIDRequired),
		stdErrors.Is(err, usecaseErrors.ErrInvalidInput):
		return errors.ErrInvalidArgument(err.Error())
	case stdErrors.Is(err, usecaseErrors.ErrEmptyAudio):
		return errors.ErrMissingAudio("audio")
	case stdErrors.Is(err, usecaseErrors.ErrTranscriberNotConfigured):
		return errors.ErrTranscriptionUnavailable()
	case stdErrors.Is(err, stt.ErrTranscriptionFailed):
		return errors.ErrTranscriptionFailed(err)
	case stdErrors.Is(err, entities.ErrSessionNotFound):
		return errors.ErrSessionNotFound("")
	case stdErrors.Is(err, usecaseErrors.ErrSessionCompleted):
		return errors.ErrSessionCompleted("")
	case stdErrors.Is(err, entities.ErrStoreUnreachable):
		return errors.ErrStoreUnreachable("", err)
	case stdErrors.Is(err, entities.ErrSchemaTypeMismatch):
		return errors.ErrSchemaTypeMismatch("", err)
	case stdErrors.Is(err, entities.ErrStoreRejected):
		return errors.ErrStoreRejected("", err)
	case stdErrors.Is(err, storage.ErrObjectNotFound):
		return errors.ErrNotFound("Audio file")
	case stdErrors.Is(err, usecaseErrors.ErrArtifactStoreDisabled):
		return errors.ErrStorageFailed("download", err)
	default:
		return errors.ErrInternal(err)
	}
}

// readFormFile reads an uploaded multipart file into memory
func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// contentType returns the declared content type of an upload
func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get(echo.HeaderContentType); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
