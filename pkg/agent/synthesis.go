package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spb-forensics/sentinel/pkg/agent/prompt"
	"github.com/spb-forensics/sentinel/pkg/llm"
	"github.com/spb-forensics/sentinel/pkg/models"
)

// SynthesisStep turns the user question plus short-term memory into a
// sanitized read-only query via one completion call. On retry the previous
// execution error is fed back verbatim.
type SynthesisStep struct {
	llm llm.Client
}

// NewSynthesisStep creates the step.
func NewSynthesisStep(client llm.Client) *SynthesisStep {
	return &SynthesisStep{llm: client}
}

// Run performs one synthesis attempt. The attempt counter is incremented
// regardless of outcome, including the zero-row fallback.
func (st *SynthesisStep) Run(ctx context.Context, state *models.TurnState) (models.Update, error) {
	var previousError string
	if state.QueryError != nil {
		previousError = *state.QueryError
	}

	p := prompt.BuildSynthesis(state.UserInput, state.MemoryContext, previousError)

	completion, err := st.llm.Complete(ctx, p)
	if err != nil {
		return models.Update{}, fmt.Errorf("query synthesis call failed: %w", err)
	}

	query := SanitizeCompletion(completion)
	if query == FallbackQuery {
		slog.Warn("No SELECT in completion, using zero-row fallback",
			"turn_id", state.TurnID, "attempt", state.Attempts+1)
	}

	return models.Update{
		GeneratedQuery:   &query,
		IncrementAttempt: true,
	}, nil
}
