// Package api exposes the HTTP surface the terminal front-end consumes:
// turn submission, history, memory, health and metrics.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spb-forensics/sentinel/pkg/database"
	"github.com/spb-forensics/sentinel/pkg/memory"
	"github.com/spb-forensics/sentinel/pkg/services"
	"github.com/spb-forensics/sentinel/pkg/version"
)

// Server holds the API dependencies.
type Server struct {
	turns   *services.TurnService
	history *services.HistoryService
	log     *memory.ConversationLog
	db      *database.Client
}

// NewServer creates the API server.
func NewServer(turns *services.TurnService, history *services.HistoryService, log *memory.ConversationLog, db *database.Client) *Server {
	return &Server{turns: turns, history: history, log: log, db: db}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/health", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")
	{
		v1.POST("/turns", s.CreateTurn)
		v1.GET("/turns", s.ListTurns)
		v1.GET("/memory", s.GetMemory)
	}

	return r
}

// requestLogger logs one line per request via slog.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("HTTP request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// Health reports service and database health.
func (s *Server) Health(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, 5*time.Second)
	defer cancel()

	dbHealth, err := database.Health(ctx, s.db.DB())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"version":  version.Full(),
			"database": dbHealth,
			"error":    err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"version":  version.Full(),
		"database": dbHealth,
	})
}
