package prompt

// statusGlossary maps the operational status codes to their business
// meaning. Injected into the synthesis prompt so the model filters on codes
// instead of guessing column semantics.
const statusGlossary = `STATUS GLOSSARY:
- statusmsg 302: message accepted (OK)
- statusmsg 108: operation settled
- statusmsg 319: rejected by the pilot institution
- statusmsg 320: rejected by the authorizer
- statusop 205: generic central-processor error (the real reason is inside msgop)
- timeout signature: statusop = 205 with msgop containing 'Pagamento expirado por timeout'`

// businessRules encode the status-code combinations the operations team
// uses to name failure conditions.
const businessRules = `BUSINESS RULES:
1. TIMEOUT: statusop = 205 AND msgop LIKE '%Pagamento expirado por timeout%'
2. BALANCE/LIMIT: statusmsg = 320 AND (msgop ILIKE '%Saldo%' OR msgop ILIKE '%Insuficiente%' OR msgop ILIKE '%Limite%')
3. PILOT REJECTED: statusmsg = 319
4. AUTHORIZER REJECTED: statusmsg = 320`
