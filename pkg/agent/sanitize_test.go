package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeCompletion(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "fenced with prose and trailing statements",
			raw: "Sure, here is the query:\n```sql\nSELECT * FROM view_universal WHERE statusmsg = 319; more text here\n```\nHope it helps!",
			want: "SELECT * FROM view_universal WHERE statusmsg = 319;",
		},
		{
			name: "plain statement untouched",
			raw:  "SELECT count(*) FROM view_universal;",
			want: "SELECT count(*) FROM view_universal;",
		},
		{
			name: "lowercase select preserved",
			raw:  "select origem, nuop from view_universal limit 5",
			want: "select origem, nuop from view_universal limit 5",
		},
		{
			name: "prose before select discarded",
			raw:  "The answer is: SELECT 1;",
			want: "SELECT 1;",
		},
		{
			name: "multiple statements cut at first terminator",
			raw:  "SELECT 1; DROP TABLE pix.operacao;",
			want: "SELECT 1;",
		},
		{
			name: "no select falls back to zero-row query",
			raw:  "I cannot write that query, sorry.",
			want: FallbackQuery,
		},
		{
			name: "empty completion falls back",
			raw:  "",
			want: FallbackQuery,
		},
		{
			name: "bare fences only",
			raw:  "```sql\n```",
			want: FallbackQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeCompletion(tt.raw))
		})
	}
}
