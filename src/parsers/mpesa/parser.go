package mpesa

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/username/mtop/backend/src/logger"
	"github.com/username/mtop/backend/src/models"
	"github.com/username/mtop/backend/src/parsers"
	"github.com/username/mtop/backend/src/processors"
)

func init() {
	parsers.Register("mpesa", func() parsers.Parser { return NewParser() })
}

// rawRow holds the direct string values of one CSV row of an M-Pesa
// statement export.
type rawRow struct {
	ReceiptNo, CompletionTime, Details, Status, PaidIn, Withdrawn, Balance string
}

// Parser implements parsers.Parser for the normalized M-Pesa statement CSV
// export (columns: receipt no, completion time, details, transaction
// status, paid in, withdrawn, balance).
type Parser struct{}

func NewParser() *Parser { return &Parser{} }

// timestamp layouts seen across statement exports.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"02-01-2006 15:04:05",
	"02/01/2006 15:04:05",
	"2006-01-02",
}

// Parse reads a statement CSV and converts its rows into normalized ledger
// transactions, oldest first. Rows that are not completed, or whose
// timestamp cannot be read, are skipped with a log line rather than failing
// the whole statement.
func (p *Parser) Parse(file io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("mpesa parser: failed to read CSV header: %w", err)
	}
	cols, err := mapColumns(header)
	if err != nil {
		return nil, fmt.Errorf("mpesa parser: %w", err)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("mpesa parser: failed to read CSV records: %w", err)
	}

	var ledger []models.Transaction
	for _, record := range records {
		raw := rawRow{
			ReceiptNo:      field(record, cols["receiptno"]),
			CompletionTime: field(record, cols["completiontime"]),
			Details:        field(record, cols["details"]),
			Status:         field(record, cols["transactionstatus"]),
			PaidIn:         field(record, cols["paidin"]),
			Withdrawn:      field(record, cols["withdrawn"]),
			Balance:        field(record, cols["balance"]),
		}

		if raw.Status != "" && !strings.EqualFold(raw.Status, "completed") {
			continue
		}

		ts, ok := parseTimestamp(raw.CompletionTime)
		if !ok {
			logger.L.Warn("mpesa parser: skipping row with unreadable completion time",
				"receiptNo", raw.ReceiptNo, "completionTime", raw.CompletionTime)
			continue
		}

		category, subtype, counterparty := classifyDetails(raw.Details)

		ledger = append(ledger, models.Transaction{
			ReceiptNo:          strings.TrimSpace(raw.ReceiptNo),
			Timestamp:          ts,
			CategoryCode:       category,
			SubtypeDescription: subtype,
			Counterparty:       counterparty,
			AmountOut:          parseAmount(raw.Withdrawn),
			AmountIn:           parseAmount(raw.PaidIn),
			Balance:            parseAmount(raw.Balance),
		})
	}

	// Exports are newest-first; the ledger is kept oldest-first.
	sort.SliceStable(ledger, func(i, j int) bool {
		return ledger[i].Timestamp.Before(ledger[j].Timestamp)
	})
	return ledger, nil
}

// mapColumns builds a name->index map from the header row, tolerant of
// spacing, case and punctuation variations ("Receipt No." vs "receipt_no").
func mapColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[normalizeColumn(name)] = i
	}
	for _, required := range []string{"completiontime", "details"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("statement header is missing the %q column", required)
		}
	}
	return cols, nil
}

func normalizeColumn(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return record[idx]
}

func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseAmount reads a statement money value. Thousands separators are
// stripped and the sign is discarded: exports report outflows as negative
// numbers, but the ledger keeps amount_out/amount_in as non-negative
// magnitudes in their own columns.
func parseAmount(s string) float64 {
	cleaned := strings.TrimSpace(strings.Trim(strings.TrimSpace(s), "\""))
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return math.Abs(v)
}

// detailConnectives are the phrases joining a classification to its
// counterparty, longest first so "from Business" wins over "from".
var detailConnectives = []string{
	processors.TransferChargeMarker, // "of Funds Charge"
	"from Business",
	"from",
	"to",
	"at",
	"by",
}

// detailMarkers is the ordered prefix list the details splitter matches
// against. "Pay Merchant" precedes "Merchant Payment" and the two
// withdrawal classes stay distinct, mirroring the category dispatch rules
// in the processors package.
var detailMarkers = []string{
	processors.MarkerPayMerchant,
	processors.MarkerMerchantPayment,
	processors.MarkerPayBill,
	processors.MarkerCustomerTransfer,
	processors.MarkerFundsReceived,
	processors.MarkerCustWithdrawal,
	processors.MarkerCashWithdrawal,
	"Airtime Purchase",
}

// classifyDetails splits a statement's free-text details into the
// classification string, the subtype qualifier and the counterparty, as
// ordered fallback rules: marker prefix first, then the " - " separated
// counterparty, then a connective phrase. Anything unrecognized degrades to
// a category-only row rather than failing.
func classifyDetails(details string) (category, subtype, counterparty string) {
	details = strings.TrimSpace(strings.ReplaceAll(details, " ", " "))

	for _, marker := range detailMarkers {
		if strings.HasPrefix(details, marker) {
			rest := strings.TrimSpace(details[len(marker):])
			subtype, counterparty = splitRemainder(rest)
			return marker, subtype, counterparty
		}
	}
	return details, "", ""
}

func splitRemainder(rest string) (subtype, counterparty string) {
	if rest == "" {
		return "", ""
	}

	// "to 888880 - KPLC PREPAID Acc. 123456": the counterparty follows the
	// separator, the connective keeps the till/business number stripped.
	if i := strings.Index(rest, " - "); i >= 0 {
		return trimTrailingNumber(rest[:i]), strings.TrimSpace(rest[i+3:])
	}

	for _, conn := range detailConnectives {
		if rest == conn {
			return conn, ""
		}
		if strings.HasPrefix(rest, conn+" ") {
			return conn, strings.TrimSpace(rest[len(conn)+1:])
		}
	}

	// e.g. a bare "Charge" qualifier.
	return rest, ""
}

// trimTrailingNumber drops trailing all-digit tokens ("to 888880" -> "to").
func trimTrailingNumber(s string) string {
	fields := strings.Fields(s)
	for len(fields) > 0 && isDigits(fields[len(fields)-1]) {
		fields = fields[:len(fields)-1]
	}
	return strings.Join(fields, " ")
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
