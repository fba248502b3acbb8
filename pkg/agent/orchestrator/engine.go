// Package orchestrator owns the fixed workflow graph of a forensic turn.
// It is an explicit finite-state machine: one handler per phase, a guarded
// transition table, and the SQL retry loop modeled as a self-edge back to
// synthesis bounded by the attempt ceiling.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spb-forensics/sentinel/pkg/models"
)

// Phase is a node of the workflow graph.
type Phase string

const (
	PhaseRouting       Phase = "routing"
	PhaseSynthesizing  Phase = "synthesizing"
	PhaseExecuting     Phase = "executing"
	PhaseInvestigating Phase = "investigating"
	PhaseClassifying   Phase = "classifying"
	PhaseDone          Phase = "done"
)

// Step is one pipeline node. A step returns a partial state update on the
// normal path; a returned error aborts the turn and surfaces as a system
// error (the verdict classifier uses this deliberately).
type Step interface {
	Run(ctx context.Context, state *models.TurnState) (models.Update, error)
}

// transition is one guarded edge of the graph. Edges are evaluated in
// declaration order; the first edge whose guard passes is taken.
type transition struct {
	from  Phase
	guard func(*models.TurnState) bool
	to    Phase
}

func always(*models.TurnState) bool { return true }

// transitions is the complete edge set of the workflow.
var transitions = []transition{
	{PhaseRouting, func(s *models.TurnState) bool { return s.Flow == models.FlowInvestigation }, PhaseInvestigating},
	{PhaseRouting, always, PhaseSynthesizing},

	{PhaseSynthesizing, always, PhaseExecuting},

	// Retry edge: re-enter synthesis with the captured error as corrective
	// feedback while attempts remain. At the ceiling the error is final.
	{PhaseExecuting, func(s *models.TurnState) bool {
		return s.QueryError != nil && s.Attempts < models.MaxSynthesisAttempts
	}, PhaseSynthesizing},
	{PhaseExecuting, always, PhaseDone},

	// Investigation either terminates directly (not found, connection
	// error — both set FinalReport) or hands the rows to classification.
	{PhaseInvestigating, func(s *models.TurnState) bool {
		return s.FinalReport == nil && len(s.InvestigationRows) > 0
	}, PhaseClassifying},
	{PhaseInvestigating, always, PhaseDone},

	{PhaseClassifying, always, PhaseDone},
}

// Engine drives one turn through the graph.
type Engine struct {
	handlers map[Phase]Step
}

// New wires the five pipeline steps into the fixed topology.
func New(router, synthesis, execution, investigation, classifier Step) *Engine {
	return &Engine{
		handlers: map[Phase]Step{
			PhaseRouting:       router,
			PhaseSynthesizing:  synthesis,
			PhaseExecuting:     execution,
			PhaseInvestigating: investigation,
			PhaseClassifying:   classifier,
		},
	}
}

// Run executes the turn to one of its terminal states. Phases are strictly
// sequential; each retry of synthesis sees exactly the error produced by
// the immediately preceding execution attempt.
func (e *Engine) Run(ctx context.Context, state *models.TurnState) error {
	phase := PhaseRouting
	for phase != PhaseDone {
		step, ok := e.handlers[phase]
		if !ok {
			return fmt.Errorf("no handler for phase %s", phase)
		}

		update, err := step.Run(ctx, state)
		if err != nil {
			return fmt.Errorf("phase %s failed: %w", phase, err)
		}
		if err := state.Apply(update); err != nil {
			return fmt.Errorf("state invariant violated after %s: %w", phase, err)
		}

		next := e.next(phase, state)
		slog.Debug("Phase transition",
			"turn_id", state.TurnID, "from", phase, "to", next,
			"flow", state.Flow, "attempts", state.Attempts)
		phase = next
	}
	return nil
}

// next resolves the first matching guarded edge out of the current phase.
func (e *Engine) next(phase Phase, state *models.TurnState) Phase {
	for _, t := range transitions {
		if t.from == phase && t.guard(state) {
			return t.to
		}
	}
	return PhaseDone
}
