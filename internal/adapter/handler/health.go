package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/adapter/dto/common"
	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/stt"
)

// Health reports liveness and backend configuration
type Health struct {
	environment string
	svc         TranscriptService
	transcriber stt.Transcriber
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(environment string, svc TranscriptService, transcriber stt.Transcriber) *Health {
	return &Health{environment: environment, svc: svc, transcriber: transcriber}
}

// Check returns health status
// @Summary      Health check
// @Description  Liveness plus which transcript stores and the transcription provider are configured
// @Tags         Health
// @Produce      json
// @Success      200  {object}  common.HealthResponse
// @Router       /health [get]
func (h *Health) Check(c echo.Context) error {
	stores := map[string]bool{}
	if h.svc != nil {
		stores = h.svc.Availability()
	}
	return c.JSON(http.StatusOK, common.HealthResponse{
		Status:      "ok",
		Environment: h.environment,
		Stores:      stores,
		Transcriber: h.transcriber != nil && h.transcriber.Configured(),
		Time:        time.Now().UTC(),
	})
}
