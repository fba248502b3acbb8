package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spb-forensics/sentinel/pkg/models"
)

// investigationQuery is the fixed 3-way union for a NUOP: current PIX
// operations, the legacy delivery table joined back to operations, and the
// SPB/STR table. The identifier is bound, never interpolated, and matching
// is by substring so partial NUOPs pasted from logs still resolve. Ordered
// by inclusion timestamp ascending.
const investigationQuery = `
WITH
spi_op AS (
    SELECT 'pix.operacao' AS origem, msgid, nuop, codmsg, statusop, statusmsg,
           sitlanc, ts_inclusao, msgop,
           NULL::timestamp AS ts_entrega, NULL::timestamp AS ts_consumo
    FROM pix.operacao WHERE nuop LIKE '%' || $1 || '%'
),
spi_leg AS (
    SELECT 'pix.legado', L.msgid, O.nuop, O.codmsg, NULL::smallint, NULL::smallint,
           NULL, L.ts_inclusao, O.msgop, L.ts_entrega, L.ts_consumo
    FROM pix.legado L JOIN pix.operacao O ON L.msgid = O.msgid
    WHERE O.nuop LIKE '%' || $1 || '%'
),
spb_op AS (
    SELECT 'spb.operacao', msgid, nuop, codmsg, statusop, statusmsg,
           NULL, ts_inclusao, msgop, NULL::timestamp, NULL::timestamp
    FROM spb.operacao WHERE nuop LIKE '%' || $1 || '%'
)
SELECT * FROM spi_op
UNION ALL SELECT * FROM spi_leg
UNION ALL SELECT * FROM spb_op
ORDER BY ts_inclusao ASC`

// Investigate loads the full multi-source event history for a NUOP. An
// empty slice is a legitimate outcome (identifier unknown), distinct from a
// connectivity error.
func (s *TransactionStore) Investigate(ctx context.Context, nuop string) ([]models.InvestigationRow, error) {
	rows, err := s.db.QueryContext(ctx, investigationQuery, nuop)
	if err != nil {
		return nil, fmt.Errorf("investigation query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []models.InvestigationRow
	for rows.Next() {
		var (
			r         models.InvestigationRow
			statusOp  sql.NullInt16
			statusMsg sql.NullInt16
			sitLanc   sql.NullString
			rawMsg    sql.NullString
			delivered sql.NullTime
			consumed  sql.NullTime
		)
		if err := rows.Scan(
			&r.Origin, &r.MsgID, &r.Nuop, &r.CodMsg,
			&statusOp, &statusMsg, &sitLanc,
			&r.IncludedAt, &rawMsg, &delivered, &consumed,
		); err != nil {
			return nil, fmt.Errorf("failed to scan investigation row: %w", err)
		}
		if statusOp.Valid {
			r.StatusOp = &statusOp.Int16
		}
		if statusMsg.Valid {
			r.StatusMsg = &statusMsg.Int16
		}
		if sitLanc.Valid {
			r.SitLanc = &sitLanc.String
		}
		if rawMsg.Valid {
			r.RawMessage = &rawMsg.String
		}
		if delivered.Valid {
			r.DeliveredAt = &delivered.Time
		}
		if consumed.Valid {
			r.ConsumedAt = &consumed.Time
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("investigation row iteration failed: %w", err)
	}
	return out, nil
}
