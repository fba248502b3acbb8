package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/spb-forensics/sentinel/pkg/services"
)

// CreateTurnRequest is the turn submission payload.
type CreateTurnRequest struct {
	Input string `json:"input" binding:"required"`
}

// CreateTurn handles POST /api/v1/turns: runs one full turn to a terminal
// state and returns the presentation-contract result.
func (s *Server) CreateTurn(c *gin.Context) {
	var req CreateTurnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.turns.RunTurn(c.Request.Context(), req.Input)
	if err != nil {
		if services.IsValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListTurns handles GET /api/v1/turns: the recent audit records.
func (s *Server) ListTurns(c *gin.Context) {
	limit := 20
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	ctx, cancel := contextWithTimeout(c, 5*time.Second)
	defer cancel()

	records, err := s.history.RecentTurns(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"turns": records})
}

// GetMemory handles GET /api/v1/memory: the conversation log, oldest first.
func (s *Server) GetMemory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"entries": s.log.Entries()})
}

func contextWithTimeout(c *gin.Context, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), d)
}
