// Package memory holds the conversation log that outlives individual
// turns. It is an explicit bounded append-only log owned by the session,
// passed into each turn, never ambient state.
package memory

import (
	"strings"
	"sync"

	"github.com/spb-forensics/sentinel/pkg/models"
)

// ConversationLog is the process-lifetime short-term memory. Appends happen
// once per completed turn; reads may come concurrently from the front-end
// rendering history, so access is RWMutex-guarded.
type ConversationLog struct {
	mu      sync.RWMutex
	entries []string

	window       int
	reportBudget int
	dataBudget   int
}

// NewConversationLog creates a log with the given read window and entry
// truncation budgets (runes).
func NewConversationLog(window, reportBudget, dataBudget int) *ConversationLog {
	return &ConversationLog{
		window:       window,
		reportBudget: reportBudget,
		dataBudget:   dataBudget,
	}
}

// RecordTurn appends the user utterance and a compact summary of the turn
// outcome. Narrative reports are preferred over query summaries; both are
// truncated so prompt size stays bounded regardless of session length.
func (l *ConversationLog) RecordTurn(userInput string, result models.TurnResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, "User: "+userInput)

	switch {
	case result.FinalReport != "":
		l.entries = append(l.entries,
			"AI Analysis: "+truncate(flatten(result.FinalReport), l.reportBudget))
	case result.ExecutedQuery != "":
		l.entries = append(l.entries, "AI SQL Executed: "+flatten(result.ExecutedQuery))
		if result.QueryResult != "" {
			l.entries = append(l.entries,
				"AI Data Result: "+truncate(flatten(result.QueryResult), l.dataBudget))
		}
	}
}

// Context renders the most recent window of entries for prompt injection.
func (l *ConversationLog) Context() string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	start := 0
	if len(l.entries) > l.window {
		start = len(l.entries) - l.window
	}
	return strings.Join(l.entries[start:], "\n")
}

// Entries returns a copy of the full log, oldest first.
func (l *ConversationLog) Entries() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

func flatten(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

func truncate(s string, budget int) string {
	r := []rune(s)
	if len(r) <= budget {
		return s
	}
	return string(r[:budget]) + "..."
}
