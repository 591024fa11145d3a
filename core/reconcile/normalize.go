package reconcile

import (
	"strings"

	"sheet-sync/core/utils"
)

// idWidth is the canonical width of an operator-issued identifier.
// Shorter digit runs are zero-padded to this width.
const idWidth = 9

// CertExceptionPhrase is the one comment wording that still counts as a
// confirmed certificate. Matching is case- and whitespace-insensitive.
const CertExceptionPhrase = "есть все, но со стороны мтс нет сертификата"

// NormalizeID canonicalizes an operator identifier.
//
// Every non-digit rune is stripped. Up to nine remaining digits are
// left-padded with zeros to nine characters; longer runs are returned
// unpadded. Values with no digits at all normalize to the empty string.
func NormalizeID(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	switch {
	case digits == "":
		return ""
	case len(digits) > idWidth:
		return digits
	default:
		return strings.Repeat("0", idWidth-len(digits)) + digits
	}
}

// NormalizeBool maps a cell value onto 0 or 1.
//
// Recognized truthy forms: true, истина, да, yes, y, 1. Falsy forms:
// false, ложь, нет, no, n, 0. Native bools and the numbers 1 and 0 map
// directly. Anything else, including the empty cell, reports ok=false
// and must be skipped by the caller; ambiguous input is never coerced.
func NormalizeBool(val any) (int, bool) {
	switch v := val.(type) {
	case nil:
		return 0, false
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case int:
		return boolFromNumber(float64(v))
	case int64:
		return boolFromNumber(float64(v))
	case float64:
		return boolFromNumber(v)
	case float32:
		return boolFromNumber(float64(v))
	}

	s := strings.ToLower(strings.TrimSpace(utils.ToString(val)))
	switch s {
	case "true", "истина", "да", "yes", "y", "1":
		return 1, true
	case "false", "ложь", "нет", "no", "n", "0":
		return 0, true
	default:
		return 0, false
	}
}

func boolFromNumber(f float64) (int, bool) {
	if f == 1 {
		return 1, true
	}
	if f == 0 {
		return 0, true
	}
	return 0, false
}

// CertFlagFromComment derives the certificate flag from a free-text
// review comment. An empty comment means nothing blocks the certificate,
// so it counts as confirmed (1). The single known exception phrase also
// counts as confirmed. Any other comment text means unconfirmed (0).
func CertFlagFromComment(comment string) int {
	t := strings.ToLower(strings.TrimSpace(comment))
	if t == "" || t == CertExceptionPhrase {
		return 1
	}
	return 0
}
