// Package prompt builds all prompt text for the pipeline's two LLM calls:
// query synthesis and verdict narration. Stateless; all inputs come from
// parameters.
package prompt

import (
	"strings"
)

const synthesisHeader = `You are an SPB/PIX database specialist. Translate the user's question into a single PostgreSQL SELECT statement.

` + statusGlossary + `

SCHEMA 'view_universal':
- origem (text): 'SPI' or 'SPB'. If the user says "Pix" use 'SPI'; "STR" or "TED" means 'SPB'.
- msgid, codmsg, nuop (text), statusop, statusmsg, sitlanc, ts_inclusao, msgop

` + businessRules + `

MEMORY RULES:
CASE 1 - NEW GLOBAL SEARCH: if the question uses plural or aggregate phrasing ("how many", "which", "latest N", "list the errors"), IGNORE any NUOP from the history and query the whole view.
CASE 2 - REFERENCE: only when the user points back ("that one", "the code", "esse", "aquele id") without giving a number, reuse the most recent NUOP cited in the history in the WHERE clause.

DATES: the data set covers 2024/2025. "today" or "now" means December 2025 (ts_inclusao >= '2025-12-01'). When no date is given, return the latest records ordered by ts_inclusao DESC.

EXAMPLES:
- "How many messages did the pilot reject?" -> SELECT count(*) FROM view_universal WHERE statusmsg = 319;
- "What happened with it?" (history cites E5610...) -> SELECT * FROM view_universal WHERE nuop = 'E5610...';
`

// BuildSynthesis assembles the query-synthesis prompt. previousError, when
// non-empty, is appended verbatim as corrective feedback for the retry.
func BuildSynthesis(question, history, previousError string) string {
	if strings.TrimSpace(history) == "" {
		history = "No history."
	}

	var sb strings.Builder
	sb.WriteString(synthesisHeader)
	sb.WriteString("\nRECENT HISTORY:\n")
	sb.WriteString(history)
	sb.WriteString("\n\nQUESTION: ")
	sb.WriteString(question)
	sb.WriteString("\n\nANSWER (SQL ONLY):\n")

	if previousError != "" {
		sb.WriteString("\nPREVIOUS ATTEMPT FAILED: ")
		sb.WriteString(previousError)
		sb.WriteString("\nFix the statement.\n")
	}
	return sb.String()
}

const verdictHierarchy = `DECISION HIERARCHY (already applied, in this exact order):
1. SUCCESS: statusmsg 302 (OK) or 108 (settled) on any row wins over every earlier error.
2. TIMEOUT / TECHNICAL FAILURE: evidence contains "Pagamento expirado por timeout".
3. OPERATIONAL / REGISTRATION ERROR: evidence mentions identification, participant, missing account or balance.
4. CENTRAL-PROCESSOR ERROR: statusop 205 with non-timeout evidence (quote the evidence).
5. BUSINESS REJECTION: statusmsg 319 or 320.
Legacy-origin rows with empty columns count only through their evidence text.`

// BuildVerdict assembles the narration prompt for a pre-classified
// investigation. The verdict is computed locally before the call; the model
// writes the narrative around it and must not contradict it.
func BuildVerdict(rowTable, sla, verdictTag, verdictDetail string) string {
	var sb strings.Builder
	sb.WriteString("You are a forensic analyst for the Brazilian payment system (SPB/PIX).\n\n")
	sb.WriteString("OPERATION EVENT HISTORY:\n")
	sb.WriteString(rowTable)
	sb.WriteString("\nPERFORMANCE:\n")
	sb.WriteString(sla)
	sb.WriteString("\n")
	sb.WriteString(verdictHierarchy)
	sb.WriteString("\n\nDETERMINED VERDICT: ")
	sb.WriteString(verdictTag)
	if verdictDetail != "" {
		sb.WriteString(": ")
		sb.WriteString(verdictDetail)
	}
	sb.WriteString(`

Write the final report in markdown, exactly three sections:
**Case Summary:** one or two sentences on what happened to the operation.
**Technical Analysis:** the relevant events, codes and evidence, in order.
**Final Verdict:** the determined verdict tag, unchanged.
`)
	return sb.String()
}
