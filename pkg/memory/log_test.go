package memory

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spb-forensics/sentinel/pkg/models"
)

func newTestLog() *ConversationLog {
	return NewConversationLog(10, 500, 200)
}

func TestRecordTurnPrefersReport(t *testing.T) {
	l := newTestLog()
	l.RecordTurn("analyze X", models.TurnResult{
		FinalReport:   "Operation settled.",
		ExecutedQuery: "SELECT 1;",
	})

	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "User: analyze X", entries[0])
	assert.Equal(t, "AI Analysis: Operation settled.", entries[1])
}

func TestRecordTurnStoresQueryAndDataSummary(t *testing.T) {
	l := newTestLog()
	l.RecordTurn("list rejections", models.TurnResult{
		ExecutedQuery: "SELECT * FROM view_universal WHERE statusmsg = 319;",
		QueryResult:   "| origem | nuop |\n| SPI | abc |",
	})

	entries := l.Entries()
	require.Len(t, entries, 3)
	assert.Contains(t, entries[1], "AI SQL Executed: SELECT * FROM view_universal")
	assert.Contains(t, entries[2], "AI Data Result: | origem | nuop | | SPI | abc |")
}

func TestReportTruncatedToBudget(t *testing.T) {
	l := newTestLog()
	long := strings.Repeat("x", 800)
	l.RecordTurn("q", models.TurnResult{FinalReport: long})

	entries := l.Entries()
	require.Len(t, entries, 2)
	summary := strings.TrimPrefix(entries[1], "AI Analysis: ")
	assert.Equal(t, strings.Repeat("x", 500)+"...", summary)
}

func TestDataSummaryTruncatedToBudget(t *testing.T) {
	l := newTestLog()
	l.RecordTurn("q", models.TurnResult{
		ExecutedQuery: "SELECT 1;",
		QueryResult:   strings.Repeat("y", 300),
	})

	entries := l.Entries()
	require.Len(t, entries, 3)
	summary := strings.TrimPrefix(entries[2], "AI Data Result: ")
	assert.Equal(t, strings.Repeat("y", 200)+"...", summary)
}

func TestContextWindow(t *testing.T) {
	l := newTestLog()
	for i := 0; i < 15; i++ {
		l.RecordTurn("question", models.TurnResult{}) // one entry per turn
	}

	lines := strings.Split(l.Context(), "\n")
	assert.Len(t, lines, 10)
}

func TestConcurrentReadDuringAppend(t *testing.T) {
	l := newTestLog()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l.RecordTurn("q", models.TurnResult{FinalReport: "r"})
		}()
		go func() {
			defer wg.Done()
			_ = l.Context()
			_ = l.Entries()
		}()
	}
	wg.Wait()
	assert.Len(t, l.Entries(), 100)
}
