// Package models defines the data types threaded through the turn pipeline:
// the per-turn state record, the partial updates produced by each step, the
// investigation result rows and the presentable turn outcome.
package models

import (
	"fmt"
)

// FlowKind identifies which pipeline branch a turn was routed to.
type FlowKind string

const (
	// FlowUnset means the router has not classified the turn yet.
	FlowUnset FlowKind = ""
	// FlowSQL is the ad-hoc synthesis/execution branch.
	FlowSQL FlowKind = "sql"
	// FlowInvestigation is the deterministic forensic branch keyed by a NUOP.
	FlowInvestigation FlowKind = "investigation"
)

// MaxSynthesisAttempts bounds the SQL retry loop. The third failed
// execution terminates the turn with the error surfaced verbatim.
const MaxSynthesisAttempts = 3

// TurnState is the mutable context for a single user turn. It is created by
// the orchestrator at turn start, mutated only through Apply, and discarded
// at turn end. Optional outcome fields are pointers: nil means unset.
type TurnState struct {
	TurnID        string
	UserInput     string
	MemoryContext string

	Flow     FlowKind
	Attempts int

	// SQL branch outcome fields.
	GeneratedQuery *string
	QueryError     *string
	QueryResult    *string
	ExecutedQuery  *string

	// Investigation branch fields.
	TargetNuop        *string
	InvestigationRows []InvestigationRow

	// FinalReport present <=> the turn reached a terminal narrative state.
	FinalReport *string
}

// Update is a partial state mutation returned by a pipeline step. Nil
// pointer fields leave the corresponding state field untouched; the Clear
// flags express explicit resets (the equivalent of assigning None in a
// merged dict).
type Update struct {
	Flow             FlowKind
	TargetNuop       *string
	IncrementAttempt bool

	GeneratedQuery  *string
	QueryError      *string
	ClearQueryError bool
	QueryResult     *string
	ExecutedQuery   *string

	InvestigationRows []InvestigationRow

	FinalReport      *string
	ClearFinalReport bool
}

// Apply merges a partial update into the state and re-checks the state
// invariants. Steps must never mutate TurnState directly.
func (s *TurnState) Apply(u Update) error {
	if u.Flow != FlowUnset {
		if s.Flow != FlowUnset && s.Flow != u.Flow {
			return fmt.Errorf("flow already set to %q, refusing %q", s.Flow, u.Flow)
		}
		s.Flow = u.Flow
	}
	if u.TargetNuop != nil {
		s.TargetNuop = u.TargetNuop
	}
	if u.IncrementAttempt {
		s.Attempts++
	}
	if u.GeneratedQuery != nil {
		s.GeneratedQuery = u.GeneratedQuery
	}
	if u.QueryError != nil {
		s.QueryError = u.QueryError
	}
	if u.ClearQueryError {
		s.QueryError = nil
	}
	if u.QueryResult != nil {
		s.QueryResult = u.QueryResult
	}
	if u.ExecutedQuery != nil {
		s.ExecutedQuery = u.ExecutedQuery
	}
	if u.InvestigationRows != nil {
		s.InvestigationRows = u.InvestigationRows
	}
	if u.FinalReport != nil {
		s.FinalReport = u.FinalReport
	}
	if u.ClearFinalReport {
		s.FinalReport = nil
	}
	return s.validate()
}

// validate checks the invariants that must hold after every merge.
func (s *TurnState) validate() error {
	if s.Attempts > MaxSynthesisAttempts {
		return fmt.Errorf("attempt count %d exceeds ceiling %d", s.Attempts, MaxSynthesisAttempts)
	}
	if s.Flow == FlowSQL && s.TargetNuop != nil {
		return fmt.Errorf("sql flow must not carry a target NUOP")
	}
	if s.Flow == FlowInvestigation && s.Attempts > 0 {
		return fmt.Errorf("investigation flow must not consume synthesis attempts")
	}
	return nil
}

// Terminal reports whether the turn has reached one of its terminal states:
// a final narrative report, a shaped query result, or retry exhaustion.
func (s *TurnState) Terminal() bool {
	if s.FinalReport != nil || s.QueryResult != nil {
		return true
	}
	return s.QueryError != nil && s.Attempts >= MaxSynthesisAttempts
}

// StrPtr is a convenience for building optional string fields.
func StrPtr(v string) *string { return &v }
