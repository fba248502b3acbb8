// Package store provides read-only access to the SPB/PIX operational
// tables: ad-hoc execution of synthesized SELECTs behind the universal
// view, and the fixed multi-source investigation query for a NUOP.
package store

import (
	"database/sql"
)

// TransactionStore issues read-only queries against the operational schema.
// It owns no tables and never mutates.
type TransactionStore struct {
	db *sql.DB
}

// NewTransactionStore wraps an open database handle.
func NewTransactionStore(db *sql.DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// UniversalCTE normalizes the two operational tables to a common column
// set. Every synthesized query runs against this view; origem values follow
// the settlement-system names (SPI for instant payments, SPB for STR/TED).
const UniversalCTE = `WITH view_universal AS (
    SELECT
        'SPI' AS origem, msgid, codmsg, nuop, statusop,
        CAST(statusmsg AS INTEGER) AS statusmsg,
        COALESCE(sitlanc, 'N/A') AS sitlanc,
        ts_inclusao, msgop
    FROM pix.operacao
    UNION ALL
    SELECT
        'SPB' AS origem, msgid, codmsg, nuop, statusop,
        CAST(statusmsg AS INTEGER) AS statusmsg,
        'N/A' AS sitlanc,
        ts_inclusao, msgop
    FROM spb.operacao
)
`
