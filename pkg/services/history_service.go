package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/spb-forensics/sentinel/pkg/models"
)

// HistoryService persists one audit row per completed turn and serves the
// recent-turn listing for the front-end.
type HistoryService struct {
	db *sql.DB
}

// NewHistoryService creates a HistoryService.
func NewHistoryService(db *sql.DB) *HistoryService {
	return &HistoryService{db: db}
}

// RecordTurn inserts the audit row for a completed turn.
func (s *HistoryService) RecordTurn(ctx context.Context, state *models.TurnState, result models.TurnResult) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var finalReport, queryError *string
	if result.FinalReport != "" {
		finalReport = &result.FinalReport
	}
	if result.QueryError != "" {
		queryError = &result.QueryError
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO agent_turns
			(id, user_input, flow, attempts, executed_query, final_report, query_error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())`,
		state.TurnID, state.UserInput, flowLabel(state.Flow), state.Attempts,
		state.ExecutedQuery, finalReport, queryError,
	)
	if err != nil {
		return fmt.Errorf("failed to insert turn record: %w", err)
	}
	return nil
}

// DeleteTurnsOlderThan removes audit rows past their retention window and
// returns the number deleted. Idempotent; safe to run from multiple
// replicas.
func (s *HistoryService) DeleteTurnsOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM agent_turns
		WHERE created_at < now() - make_interval(days => $1)`, retentionDays)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired turn records: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted turn records: %w", err)
	}
	return n, nil
}

// RecentTurns returns up to limit turn records, newest first.
func (s *HistoryService) RecentTurns(ctx context.Context, limit int) ([]models.TurnRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_input, flow, attempts, executed_query, final_report, query_error, created_at
		FROM agent_turns
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query turn records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.TurnRecord
	for rows.Next() {
		var (
			rec      models.TurnRecord
			flow     string
			executed sql.NullString
			report   sql.NullString
			queryErr sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.UserInput, &flow, &rec.Attempts,
			&executed, &report, &queryErr, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan turn record: %w", err)
		}
		rec.Flow = models.FlowKind(flow)
		if executed.Valid {
			rec.ExecutedQuery = &executed.String
		}
		if report.Valid {
			rec.FinalReport = &report.String
		}
		if queryErr.Valid {
			rec.QueryError = &queryErr.String
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("turn record iteration failed: %w", err)
	}
	return out, nil
}
