// Package services glues the orchestration engine to its collaborators:
// conversation memory, the turn audit log and metrics.
package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spb-forensics/sentinel/pkg/agent/orchestrator"
	"github.com/spb-forensics/sentinel/pkg/memory"
	"github.com/spb-forensics/sentinel/pkg/metrics"
	"github.com/spb-forensics/sentinel/pkg/models"
)

// TurnService processes user turns. Turns are strictly sequential: the
// mutex guarantees each synthesis retry sees only its own turn's state and
// that memory context is consistent for the whole turn.
type TurnService struct {
	mu      sync.Mutex
	engine  *orchestrator.Engine
	log     *memory.ConversationLog
	history *HistoryService
}

// NewTurnService creates a TurnService. history may be nil when audit
// persistence is disabled (tests).
func NewTurnService(engine *orchestrator.Engine, log *memory.ConversationLog, history *HistoryService) *TurnService {
	return &TurnService{engine: engine, log: log, history: history}
}

// RunTurn drives one utterance through the pipeline to a terminal state
// and returns the presentation-contract result. Pipeline failures surface
// in the result's SystemError field; the returned error covers only
// invalid requests.
func (s *TurnService) RunTurn(ctx context.Context, userInput string) (models.TurnResult, error) {
	if strings.TrimSpace(userInput) == "" {
		return models.TurnResult{}, NewValidationError("input", "required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	state := &models.TurnState{
		TurnID:        uuid.New().String(),
		UserInput:     userInput,
		MemoryContext: s.log.Context(),
	}

	var result models.TurnResult
	if err := s.engine.Run(ctx, state); err != nil {
		slog.Error("Turn failed", "turn_id", state.TurnID, "error", err)
		result = models.TurnResult{
			TurnID:      state.TurnID,
			Flow:        state.Flow,
			Attempts:    state.Attempts,
			SystemError: err.Error(),
		}
	} else {
		result = state.Result()
	}

	s.log.RecordTurn(userInput, result)
	metrics.ObserveTurn(flowLabel(state.Flow), outcomeLabel(result), state.Attempts, time.Since(start))

	if s.history != nil {
		if err := s.history.RecordTurn(ctx, state, result); err != nil {
			// Audit persistence is best-effort; the turn outcome stands.
			slog.Warn("Failed to persist turn record", "turn_id", state.TurnID, "error", err)
		}
	}

	slog.Info("Turn completed",
		"turn_id", state.TurnID, "flow", state.Flow,
		"attempts", state.Attempts, "outcome", outcomeLabel(result),
		"duration_ms", time.Since(start).Milliseconds())

	return result, nil
}

func flowLabel(f models.FlowKind) string {
	if f == models.FlowUnset {
		return "none"
	}
	return string(f)
}

func outcomeLabel(r models.TurnResult) string {
	switch {
	case r.SystemError != "":
		return "system_error"
	case r.FinalReport != "":
		return "report"
	case r.QueryResult != "":
		return "data"
	case r.QueryError != "":
		return "query_error"
	default:
		return "empty"
	}
}
