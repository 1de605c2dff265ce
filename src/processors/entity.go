package processors

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// payBillEntityRe splits a pay-bill counterparty into the business name and
// the optional account reference, e.g. "KPLC PREPAID Acc. 123456".
var payBillEntityRe = regexp.MustCompile(`^(.*?)(?:\s+Acc\.\s+(.*))?$`)

// titleCase normalizes a free-text name the way statement entities are
// displayed: every word capitalized, the rest lowered.
//
// A cases.Caser is not safe for concurrent use, and processors run in
// parallel, so a fresh one is built per call.
func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}

// ResolveEntityName turns a raw counterparty string into a display name.
//
// Statements report person-to-person counterparties as a partially obscured
// phone number followed by the holder's name ("2547*****23 John Doe"); only
// the name part is of interest. Anything without an asterisk is treated as a
// plain name and title-cased unchanged.
//
// The function is pure and total. A masked string with no whitespace after
// the number segment resolves to ""; callers must tolerate that.
func ResolveEntityName(raw string) string {
	if strings.Contains(raw, "*") {
		_, name, found := strings.Cut(raw, " ")
		if !found {
			return ""
		}
		return titleCase(name)
	}
	return titleCase(raw)
}

// SplitPayBillEntity separates a pay-bill counterparty into its business
// name and account reference. A missing " Acc. " segment yields an empty
// account, never an error.
func SplitPayBillEntity(raw string) (business, account string) {
	m := payBillEntityRe.FindStringSubmatch(raw)
	if m == nil {
		return raw, ""
	}
	return m[1], m[2]
}
