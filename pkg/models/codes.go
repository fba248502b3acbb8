package models

// SPB/PIX message status codes as observed in the operational tables.
// The verdict hierarchy and the synthesis glossary both key off these.
const (
	// StatusMsgAccepted (302) — message accepted/OK by the central system.
	StatusMsgAccepted int16 = 302
	// StatusMsgSettled (108) — operation settled.
	StatusMsgSettled int16 = 108
	// StatusMsgPilotRejected (319) — rejected by the pilot institution.
	StatusMsgPilotRejected int16 = 319
	// StatusMsgAuthorizerRejected (320) — rejected by the authorizer.
	StatusMsgAuthorizerRejected int16 = 320

	// StatusOpProcessingError (205) — generic central-processor error; the
	// attached message payload carries the actual reason.
	StatusOpProcessingError int16 = 205
)

// TimeoutEvidencePhrase is the exact phrase the central system emits when a
// payment expires. Matched case-insensitively against extracted evidence.
const TimeoutEvidencePhrase = "pagamento expirado por timeout"
