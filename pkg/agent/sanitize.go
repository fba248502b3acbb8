package agent

import (
	"regexp"
	"strings"
)

// FallbackQuery is returned when no SELECT can be extracted from a
// completion. It always returns zero rows; a synthesis miss produces an
// empty result, not an error.
const FallbackQuery = "SELECT 1 WHERE 1=0;"

var fencePattern = regexp.MustCompile("```sql|```")

// SanitizeCompletion reduces raw completion text to a single read-only
// statement: code-fence markers are stripped, everything before the first
// SELECT is discarded, and the statement is truncated at the first
// terminator with exactly one re-appended.
func SanitizeCompletion(raw string) string {
	cleaned := strings.TrimSpace(fencePattern.ReplaceAllString(raw, ""))

	start := strings.Index(strings.ToUpper(cleaned), "SELECT")
	if start == -1 {
		return FallbackQuery
	}
	cleaned = cleaned[start:]

	if end := strings.Index(cleaned, ";"); end != -1 {
		cleaned = cleaned[:end] + ";"
	}
	return cleaned
}
