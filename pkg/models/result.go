package models

import "time"

// TurnResult is the presentation contract handed to the front-end. Exactly
// one of the outcome fields (SystemError, FinalReport, QueryResult,
// QueryError) is populated per turn; ExecutedQuery accompanies SQL-branch
// outcomes as debug text. Rendering and voice decisions belong to the
// caller.
type TurnResult struct {
	TurnID   string   `json:"turn_id"`
	Flow     FlowKind `json:"flow"`
	Attempts int      `json:"attempts"`

	ExecutedQuery string `json:"executed_query,omitempty"`
	SystemError   string `json:"system_error,omitempty"`
	FinalReport   string `json:"final_report,omitempty"`
	QueryResult   string `json:"query_result,omitempty"`
	QueryError    string `json:"query_error,omitempty"`
}

// Result projects the terminal state into the presentation contract,
// applying the fixed display priority: final report, then tabular result,
// then query error.
func (s *TurnState) Result() TurnResult {
	r := TurnResult{
		TurnID:   s.TurnID,
		Flow:     s.Flow,
		Attempts: s.Attempts,
	}
	if s.ExecutedQuery != nil {
		r.ExecutedQuery = *s.ExecutedQuery
	}
	switch {
	case s.FinalReport != nil:
		r.FinalReport = *s.FinalReport
	case s.QueryResult != nil:
		r.QueryResult = *s.QueryResult
	case s.QueryError != nil:
		r.QueryError = *s.QueryError
	}
	return r
}

// TurnRecord is the persisted audit row for a completed turn.
type TurnRecord struct {
	ID            string    `json:"id"`
	UserInput     string    `json:"user_input"`
	Flow          FlowKind  `json:"flow"`
	Attempts      int       `json:"attempts"`
	ExecutedQuery *string   `json:"executed_query,omitempty"`
	FinalReport   *string   `json:"final_report,omitempty"`
	QueryError    *string   `json:"query_error,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
