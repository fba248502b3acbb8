// Package evidence extracts human-readable failure evidence from SPB
// message payloads and derives the legacy-delivery SLA fragment used by the
// verdict narrative.
package evidence

import (
	"encoding/xml"
	"io"
	"strings"
)

// reasonTags are the ISO 20022 elements where the central system places
// rejection/failure reasons, in priority order. Matching ignores namespace
// prefixes.
var reasonTags = []string{
	"RsnDesc",   // reason description, the most common carrier
	"AddtlInf",  // additional information
	"StsRsnInf", // status reason information
	"RjctnRsn",  // rejection reason
	"Prtry",     // proprietary code
	"Ustrd",     // unstructured note
}

// ExtractReason returns the first non-empty reason text found in the given
// payload, searching the known carrier tags in priority order. Malformed or
// non-XML input yields the empty string; this function never fails the
// caller.
func ExtractReason(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	found := make(map[string]string, len(reasonTags))

	dec := xml.NewDecoder(strings.NewReader(raw))
	dec.Strict = false

	var stack []string
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Corrupted markup: keep whatever was collected before the
			// parse broke and stop.
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			stack = append(stack, t.Name.Local)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) == 0 {
				continue
			}
			tag := stack[len(stack)-1]
			text := strings.TrimSpace(string(t))
			if text == "" {
				continue
			}
			if _, ok := found[tag]; !ok {
				found[tag] = text
			}
		}
	}

	for _, tag := range reasonTags {
		if text, ok := found[tag]; ok {
			return text
		}
	}
	return ""
}
