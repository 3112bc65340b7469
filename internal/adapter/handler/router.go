package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// Router holds all handlers
type Router struct {
	health      *Health
	transcripts *Transcript
	live        *Live
	identify    echo.MiddlewareFunc
}

// NewRouter creates a new router with all handlers. identify resolves the caller on /v1 routes.
func NewRouter(health *Health, transcripts *Transcript, live *Live, identify echo.MiddlewareFunc) *Router {
	return &Router{
		health:      health,
		transcripts: transcripts,
		live:        live,
		identify:    identify,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoints
	e.GET("/", rt.healthCheck)
	e.GET("/health", rt.healthCheck)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// API v1 group
	v1 := e.Group("/v1")
	if rt.identify != nil {
		v1.Use(rt.identify)
	}

	rt.setupTranscriptRoutes(v1)
	rt.setupLiveRoutes(v1)
}

// setupTranscriptRoutes configures transcript and file transcription routes
func (rt *Router) setupTranscriptRoutes(g *echo.Group) {
	if rt.transcripts == nil {
		g.POST("/transcripts", rt.notImplemented)
		g.GET("/transcripts", rt.notImplemented)
		g.POST("/upload-file", rt.notImplemented)
		return
	}
	g.POST("/transcripts", rt.transcripts.Create)
	g.GET("/transcripts", rt.transcripts.List)
	g.POST("/upload-file", rt.transcripts.UploadFile)
}

// setupLiveRoutes configures live recording routes
func (rt *Router) setupLiveRoutes(g *echo.Group) {
	if rt.live == nil {
		g.POST("/upload-live", rt.notImplemented)
		g.POST("/stop-live", rt.notImplemented)
		g.GET("/live-stream", rt.notImplemented)
		g.GET("/download-live", rt.notImplemented)
		return
	}
	g.POST("/upload-live", rt.live.UploadChunk)
	g.POST("/stop-live", rt.live.Stop)
	g.GET("/live-stream", rt.live.Stream)
	g.GET("/download-live", rt.live.Download)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	if rt.health == nil {
		return c.JSON(http.StatusOK, map[string]interface{}{"status": "ok"})
	}
	return rt.health.Check(c)
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}
