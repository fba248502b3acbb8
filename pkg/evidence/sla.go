package evidence

import (
	"fmt"
	"strings"
	"time"

	"github.com/spb-forensics/sentinel/pkg/models"
)

// FormatSLA computes the legacy-delivery consumption latency for the most
// recent row carrying both delivery and consumption timestamps and renders
// the fixed narrative fragment consumed by the verdict prompt. Rows missing
// either timestamp are ignored; with no usable pair the "no data" fragment
// is returned.
func FormatSLA(rows []models.InvestigationRow, threshold time.Duration) string {
	var latest *models.InvestigationRow
	for i := range rows {
		if rows[i].DeliveredAt != nil && rows[i].ConsumedAt != nil {
			latest = &rows[i]
		}
	}
	if latest == nil {
		return "SLA & PERFORMANCE: no delivery data.\n"
	}

	delta := latest.ConsumedAt.Sub(*latest.DeliveredAt)

	var sb strings.Builder
	sb.WriteString("SLA & PERFORMANCE:\n")
	fmt.Fprintf(&sb, "  consumption time: %.3fs\n", delta.Seconds())
	if delta > threshold {
		fmt.Fprintf(&sb, "  ALERT: slow consumption (>%ds)\n", int(threshold.Seconds()))
	} else {
		sb.WriteString("  performance: immediate\n")
	}
	return sb.String()
}
