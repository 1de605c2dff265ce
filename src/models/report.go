package models

import "time"

// Category identifies one of the six fixed transaction classes.
type Category string

const (
	CategoryMerchantPayments Category = "merchant_payments"
	CategoryPayBillPayments  Category = "paybill_payments"
	CategoryPeerTransfers    Category = "peer_transfers"
	CategoryReceivedFunds    Category = "received_funds"
	CategoryCashWithdrawals  Category = "cash_withdrawals"
	CategoryAirtimePurchases Category = "airtime_purchases"
)

// Counterparty kinds for received funds.
const (
	KindIndividual = "Individual"
	KindBusiness   = "Business"
)

// EntityAggregate is the per-counterparty rollup within one category.
type EntityAggregate struct {
	EntityName       string  `json:"entity_name"`
	TransactionCount int     `json:"transaction_count"`
	TotalAmount      float64 `json:"total_amount"`

	// Kind tags received-funds rows as "Individual" or "Business"; empty for
	// the other categories. The same display name can appear once per kind.
	Kind string `json:"kind,omitempty"`

	// Accounts carries the comma-joined pay-bill account references seen for
	// this business, in order of first appearance; empty elsewhere.
	Accounts string `json:"accounts,omitempty"`
}

// CategoryResult is the full output of one category processor.
//
// Entities is the complete ranked table (descending by TotalAmount, ties in
// first-seen order); the category totals are computed over it, so the sums of
// its counts and amounts always equal TransactionCount and TotalAmount.
// TopEntities is the truncation the presentation layer charts.
type CategoryResult struct {
	Category         Category          `json:"category"`
	Entities         []EntityAggregate `json:"entities"`
	TopEntities      []EntityAggregate `json:"top_entities"`
	TotalAmount      float64           `json:"total_amount"`
	TotalCharges     float64           `json:"total_charges"`
	TransactionCount int               `json:"transaction_count"`
}

// HasData reports whether a renderer should draw this section at all.
func (r CategoryResult) HasData() bool { return r.TransactionCount > 0 }

// StatementReport bundles the six category results computed over one
// (possibly row-filtered) ledger snapshot.
type StatementReport struct {
	StatementID      string         `json:"statement_id"`
	GeneratedAt      time.Time      `json:"generated_at"`
	TopN             int            `json:"top_n"`
	MerchantPayments CategoryResult `json:"merchant_payments"`
	PayBillPayments  CategoryResult `json:"paybill_payments"`
	PeerTransfers    CategoryResult `json:"peer_transfers"`
	ReceivedFunds    CategoryResult `json:"received_funds"`
	CashWithdrawals  CategoryResult `json:"cash_withdrawals"`
	AirtimePurchases CategoryResult `json:"airtime_purchases"`
}

// Result returns the category result for the given category, and false for a
// category this report does not know.
func (r *StatementReport) Result(c Category) (CategoryResult, bool) {
	switch c {
	case CategoryMerchantPayments:
		return r.MerchantPayments, true
	case CategoryPayBillPayments:
		return r.PayBillPayments, true
	case CategoryPeerTransfers:
		return r.PeerTransfers, true
	case CategoryReceivedFunds:
		return r.ReceivedFunds, true
	case CategoryCashWithdrawals:
		return r.CashWithdrawals, true
	case CategoryAirtimePurchases:
		return r.AirtimePurchases, true
	}
	return CategoryResult{}, false
}
