package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spb-forensics/sentinel/pkg/agent/prompt"
	"github.com/spb-forensics/sentinel/pkg/evidence"
	"github.com/spb-forensics/sentinel/pkg/llm"
	"github.com/spb-forensics/sentinel/pkg/models"
)

// Verdict is the final classification tag for an investigated operation.
type Verdict string

const (
	VerdictSuccess           Verdict = "SUCCESS"
	VerdictTimeout           Verdict = "TIMEOUT / TECHNICAL FAILURE"
	VerdictRegistrationError Verdict = "OPERATIONAL / REGISTRATION ERROR"
	VerdictCentralProcessor  Verdict = "CENTRAL-PROCESSOR ERROR"
	VerdictBusinessRejection Verdict = "BUSINESS REJECTION"
	VerdictInconclusive      Verdict = "INCONCLUSIVE"
)

// registrationTerms mark evidence pointing at registration/account
// problems rather than technical failures. The data is Portuguese.
var registrationTerms = []string{
	"identifica", // Identificação
	"agente",
	"participante",
	"conta inexistente",
	"saldo",
}

// Classify applies the fixed decision hierarchy over the annotated rows.
// The precedence order is load-bearing and must never be reordered: a
// settlement-success code on any row wins over every error recorded before
// it. Returns the verdict and, for central-processor errors, the quoted
// evidence text.
func Classify(rows []models.InvestigationRow) (Verdict, string) {
	// 1. Success check.
	for _, r := range rows {
		if r.StatusMsg != nil &&
			(*r.StatusMsg == models.StatusMsgAccepted || *r.StatusMsg == models.StatusMsgSettled) {
			return VerdictSuccess, ""
		}
	}

	// 2. Timeout check.
	for _, r := range rows {
		if strings.Contains(strings.ToLower(r.Evidence), models.TimeoutEvidencePhrase) {
			return VerdictTimeout, ""
		}
	}

	// 3. Registration-error check.
	for _, r := range rows {
		lower := strings.ToLower(r.Evidence)
		for _, term := range registrationTerms {
			if strings.Contains(lower, term) {
				return VerdictRegistrationError, r.Evidence
			}
		}
	}

	// 4. Central-processor error: generic 205 with non-timeout evidence.
	for _, r := range rows {
		if r.StatusOp != nil && *r.StatusOp == models.StatusOpProcessingError && r.Evidence != "" {
			return VerdictCentralProcessor, r.Evidence
		}
	}

	// 5. Business rejection.
	for _, r := range rows {
		if r.StatusMsg != nil &&
			(*r.StatusMsg == models.StatusMsgPilotRejected || *r.StatusMsg == models.StatusMsgAuthorizerRejected) {
			return VerdictBusinessRejection, ""
		}
	}

	return VerdictInconclusive, ""
}

// ClassifierStep annotates the investigation rows with extracted evidence,
// applies the decision hierarchy and asks the model for the narrative
// report. A completion failure propagates; there is no fallback narrative.
type ClassifierStep struct {
	llm          llm.Client
	slaThreshold time.Duration
}

// NewClassifierStep creates the step.
func NewClassifierStep(client llm.Client, slaThreshold time.Duration) *ClassifierStep {
	return &ClassifierStep{llm: client, slaThreshold: slaThreshold}
}

// Run produces the final narrative report for the investigated rows.
func (st *ClassifierStep) Run(ctx context.Context, state *models.TurnState) (models.Update, error) {
	rows := make([]models.InvestigationRow, len(state.InvestigationRows))
	copy(rows, state.InvestigationRows)
	for i := range rows {
		if rows[i].RawMessage != nil {
			rows[i].Evidence = evidence.ExtractReason(*rows[i].RawMessage)
		}
	}

	verdict, detail := Classify(rows)
	sla := evidence.FormatSLA(rows, st.slaThreshold)
	table := prompt.FormatInvestigationTable(rows)

	report, err := st.llm.Complete(ctx, prompt.BuildVerdict(table, sla, string(verdict), detail))
	if err != nil {
		return models.Update{}, fmt.Errorf("verdict narration failed: %w", err)
	}

	return models.Update{
		InvestigationRows: rows,
		FinalReport:       &report,
	}, nil
}
