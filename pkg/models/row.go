package models

import "time"

// InvestigationRow is one event from the 3-way union over pix.operacao,
// pix.legado and spb.operacao, normalized to a common column set. Legacy
// rows legitimately carry NULLs in most columns; nullable columns are
// pointers so that distinction survives scanning.
type InvestigationRow struct {
	Origin    string
	MsgID     string
	Nuop      string
	CodMsg    string
	StatusOp  *int16
	StatusMsg *int16
	SitLanc   *string

	IncludedAt time.Time
	RawMessage *string

	// Legacy delivery pair used by the SLA calculator.
	DeliveredAt *time.Time
	ConsumedAt  *time.Time

	// Evidence is the human-readable failure reason extracted from
	// RawMessage. Annotated by the classifier step, empty when none found.
	Evidence string
}
