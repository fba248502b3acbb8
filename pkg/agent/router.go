// Package agent implements the pipeline steps of the forensic turn
// workflow: routing, query synthesis and sanitization, execution,
// investigation and verdict classification. The orchestrator package wires
// them into the fixed graph.
package agent

import (
	"context"
	"regexp"
	"strings"

	"github.com/spb-forensics/sentinel/pkg/models"
)

// nuopPattern matches the transaction-identifier shape: a bare alphanumeric
// token of 20 to 35 characters.
var nuopPattern = regexp.MustCompile(`\b[a-zA-Z0-9]{20,35}\b`)

// aggregateKeywords signal listing/counting intent. When present, the turn
// goes to the SQL branch even if a NUOP was pasted along; plural intent
// overrides single-record investigation. The user base is bilingual.
var aggregateKeywords = []string{
	"how many", "count", "list", "appears", "times",
	"quantas", "quantidade", "total",
	"quais", "listar", "existe", "aparece",
	"vezes", "repetiu",
}

// Router classifies a user utterance into one of the two pipeline
// branches. Deterministic and total; it has no failure mode.
type Router struct{}

// Run implements the routing contract: no identifier-shaped token means
// SQL; an identifier plus aggregate intent means SQL with the identifier
// ignored; otherwise investigation with the matched token attached.
func (Router) Run(_ context.Context, state *models.TurnState) (models.Update, error) {
	input := strings.TrimSpace(state.UserInput)

	nuop := nuopPattern.FindString(input)
	if nuop == "" {
		return models.Update{Flow: models.FlowSQL}, nil
	}

	lower := strings.ToLower(input)
	for _, kw := range aggregateKeywords {
		if strings.Contains(lower, kw) {
			return models.Update{Flow: models.FlowSQL}, nil
		}
	}

	return models.Update{
		Flow:       models.FlowInvestigation,
		TargetNuop: &nuop,
	}, nil
}
