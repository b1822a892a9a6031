package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/johnquangdev/meeting-summarizer/pkg/config"
)

// Router holds all handlers
type Router struct {
	cfg            *config.Config
	meetingHandler *Meeting
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, meetingHandler *Meeting) *Router {
	return &Router{
		cfg:            cfg,
		meetingHandler: meetingHandler,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", rt.healthCheck)

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupMeetingRoutes(v1)
}

// setupMeetingRoutes configures artifact processing and record query routes
func (rt *Router) setupMeetingRoutes(g *echo.Group) {
	meetings := g.Group("/meetings")
	meetings.POST("", rt.meetingHandler.Process)
	meetings.GET("", rt.meetingHandler.List)
	meetings.GET("/:id", rt.meetingHandler.Get)

	g.GET("/dataset", rt.meetingHandler.DatasetInfo)
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "ok",
		"time":        time.Now().Format(time.RFC3339),
		"environment": rt.cfg.Server.Environment,
	})
}
