package agent

import (
	"context"
	"log/slog"

	"github.com/spb-forensics/sentinel/pkg/models"
	"github.com/spb-forensics/sentinel/pkg/store"
)

// NoRecordsMessage is the distinguishable empty-result marker. An empty
// result set is a normal outcome, not an error.
const NoRecordsMessage = "No records found."

// ExecutionStep runs the synthesized query against the transaction store
// and shapes the result for display. Store failures are captured into turn
// state, never propagated; the orchestrator's retry guard routes on them.
type ExecutionStep struct {
	store      *store.TransactionStore
	cellBudget int
}

// NewExecutionStep creates the step. cellBudget caps displayed cell width.
func NewExecutionStep(s *store.TransactionStore, cellBudget int) *ExecutionStep {
	return &ExecutionStep{store: s, cellBudget: cellBudget}
}

// Run executes the generated query behind the universal CTE. Both outcome
// branches record the executed statement for auditability.
func (st *ExecutionStep) Run(ctx context.Context, state *models.TurnState) (models.Update, error) {
	if state.GeneratedQuery == nil {
		// Unreachable through the fixed graph; guard anyway.
		errMsg := "no generated query to execute"
		return models.Update{QueryError: &errMsg}, nil
	}

	table, executed, err := st.store.RunUserQuery(ctx, *state.GeneratedQuery)
	if err != nil {
		slog.Warn("Query execution failed",
			"turn_id", state.TurnID, "attempt", state.Attempts, "error", err)
		errMsg := err.Error()
		return models.Update{
			QueryError:    &errMsg,
			ExecutedQuery: &executed,
		}, nil
	}

	if table.Empty() {
		return models.Update{
			QueryResult:     models.StrPtr(NoRecordsMessage),
			ExecutedQuery:   &executed,
			ClearQueryError: true,
		}, nil
	}

	shaped := store.Shape(table, st.cellBudget)
	return models.Update{
		QueryResult:     models.StrPtr(shaped.Markdown()),
		ExecutedQuery:   &executed,
		ClearQueryError: true,
	}, nil
}
