package prompt

import (
	"strconv"
	"strings"

	"github.com/spb-forensics/sentinel/pkg/models"
)

// FormatInvestigationTable renders the annotated investigation rows as the
// compact markdown table the verdict prompt consumes. The raw message
// payload is deliberately absent; its extracted evidence stands in for it.
func FormatInvestigationTable(rows []models.InvestigationRow) string {
	var sb strings.Builder
	sb.WriteString("| origem | codmsg | statusop | statusmsg | evidencia_erro | ts_inclusao |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, r := range rows {
		sb.WriteString("| ")
		sb.WriteString(r.Origin)
		sb.WriteString(" | ")
		sb.WriteString(r.CodMsg)
		sb.WriteString(" | ")
		sb.WriteString(formatCode(r.StatusOp))
		sb.WriteString(" | ")
		sb.WriteString(formatCode(r.StatusMsg))
		sb.WriteString(" | ")
		sb.WriteString(sanitizeCell(r.Evidence))
		sb.WriteString(" | ")
		sb.WriteString(r.IncludedAt.Format("2006-01-02 15:04:05"))
		sb.WriteString(" |\n")
	}
	return sb.String()
}

func formatCode(v *int16) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(int(*v))
}

func sanitizeCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}
