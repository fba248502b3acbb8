package prompt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spb-forensics/sentinel/pkg/models"
)

func TestFormatInvestigationTable(t *testing.T) {
	status := int16(205)
	msg := int16(302)
	rows := []models.InvestigationRow{
		{
			Origin:     "SPI",
			CodMsg:     "pacs.008",
			StatusOp:   &status,
			StatusMsg:  &msg,
			Evidence:   "Pagamento expirado | por timeout\nsegunda linha",
			IncludedAt: time.Date(2025, 12, 1, 9, 30, 0, 0, time.UTC),
		},
		{
			Origin:     "SPB",
			CodMsg:     "STR0008",
			IncludedAt: time.Date(2025, 12, 1, 9, 31, 0, 0, time.UTC),
		},
	}

	got := FormatInvestigationTable(rows)

	assert.Contains(t, got, "| origem | codmsg | statusop | statusmsg | evidencia_erro | ts_inclusao |")
	assert.Contains(t, got, "| SPI | pacs.008 | 205 | 302 | Pagamento expirado \\| por timeout segunda linha | 2025-12-01 09:30:00 |")
	// Nil codes render empty, not zero.
	assert.Contains(t, got, "| SPB | STR0008 |  |  |  | 2025-12-01 09:31:00 |")
}

func TestFormatInvestigationTableEmpty(t *testing.T) {
	got := FormatInvestigationTable(nil)
	assert.Equal(t, "| origem | codmsg | statusop | statusmsg | evidencia_erro | ts_inclusao |\n|---|---|---|---|---|---|\n", got)
}
