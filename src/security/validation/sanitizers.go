package validation

import (
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

var strictHTMLPolicy *bluemonday.Policy

func init() {
	strictHTMLPolicy = bluemonday.StrictPolicy() // removes all HTML tags
}

// SanitizeText strips all HTML from an input string. Statement free-text
// fields (counterparty names, details) flow back out of the API and into
// web frontends, so they are cleaned before being stored.
func SanitizeText(s string) string {
	return strictHTMLPolicy.Sanitize(s)
}

// SanitizeForFormulaInjection prepends a single quote when the string
// starts with a formula trigger character, preventing CSV/spreadsheet
// formula injection in exported reports.
func SanitizeForFormulaInjection(s string) string {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) == 0 {
		return s
	}
	switch rune(trimmed[0]) {
	case '=', '+', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// StripUnprintable removes non-printable characters, keeping common
// whitespace.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// CleanLedgerField applies the full sanitizer chain used for statement
// free-text fields.
func CleanLedgerField(s string) string {
	return strings.TrimSpace(SanitizeText(StripUnprintable(s)))
}
