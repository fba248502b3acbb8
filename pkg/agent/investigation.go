package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spb-forensics/sentinel/pkg/models"
	"github.com/spb-forensics/sentinel/pkg/store"
)

// InvestigationStep loads the full multi-source event history for the
// routed NUOP. Its three outcomes stay distinct: rows found, identifier not
// found (terminal, non-error) and connectivity failure (terminal, error
// text surfaced).
type InvestigationStep struct {
	store *store.TransactionStore
}

// NewInvestigationStep creates the step.
func NewInvestigationStep(s *store.TransactionStore) *InvestigationStep {
	return &InvestigationStep{store: s}
}

// Run executes the fixed union query for the target identifier.
func (st *InvestigationStep) Run(ctx context.Context, state *models.TurnState) (models.Update, error) {
	if state.TargetNuop == nil {
		return models.Update{}, fmt.Errorf("investigation flow without target NUOP")
	}
	nuop := *state.TargetNuop
	slog.Info("Investigating NUOP", "turn_id", state.TurnID, "nuop", nuop)

	rows, err := st.store.Investigate(ctx, nuop)
	if err != nil {
		report := fmt.Sprintf("Database connection error during investigation: %v", err)
		return models.Update{FinalReport: &report}, nil
	}

	if len(rows) == 0 {
		report := fmt.Sprintf(
			"NUOP '%s' was not found in any table (SPI/SPB). Check that the identifier is correct.",
			nuop)
		return models.Update{FinalReport: &report}, nil
	}

	return models.Update{
		InvestigationRows: rows,
		ClearFinalReport:  true,
	}, nil
}
