package models

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MonthKey is the format used to identify a statement month, e.g. "January_2024".
const MonthKey = "January_2006"

// LedgerFilter narrows a ledger before it reaches the category processors.
// Either a date range or a month set may be active, never both; a zero
// filter passes every row through.
type LedgerFilter struct {
	From   time.Time
	To     time.Time
	Months []string
}

// IsZero reports whether the filter narrows anything at all.
func (f LedgerFilter) IsZero() bool {
	return f.From.IsZero() && f.To.IsZero() && len(f.Months) == 0
}

// Validate rejects filters that mix the date-range and month forms or that
// have an inverted range.
func (f LedgerFilter) Validate() error {
	hasRange := !f.From.IsZero() || !f.To.IsZero()
	if hasRange && len(f.Months) > 0 {
		return fmt.Errorf("date range and month filters are mutually exclusive")
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return fmt.Errorf("filter range end %s precedes start %s",
			f.To.Format(time.DateOnly), f.From.Format(time.DateOnly))
	}
	return nil
}

// Apply returns the rows that survive the filter, in input order. The input
// slice is never mutated.
func (f LedgerFilter) Apply(ledger []Transaction) []Transaction {
	if f.IsZero() {
		return ledger
	}

	months := make(map[string]bool, len(f.Months))
	for _, m := range f.Months {
		months[strings.TrimSpace(m)] = true
	}

	out := make([]Transaction, 0, len(ledger))
	for _, tx := range ledger {
		if !f.From.IsZero() && tx.Timestamp.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && tx.Timestamp.After(f.To) {
			continue
		}
		if len(months) > 0 && !months[tx.Timestamp.Format(MonthKey)] {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// CacheKey renders the filter into a stable string suitable for report
// cache keys.
func (f LedgerFilter) CacheKey() string {
	if f.IsZero() {
		return "all"
	}
	if len(f.Months) > 0 {
		months := append([]string(nil), f.Months...)
		sort.Strings(months)
		return "months_" + strings.Join(months, "+")
	}
	return fmt.Sprintf("range_%d_%d", f.From.Unix(), f.To.Unix())
}
