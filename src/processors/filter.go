package processors

import (
	"strings"

	"github.com/username/mtop/backend/src/models"
)

// Category membership and charge markers. Matching is case-sensitive
// substring containment on CategoryCode, never equality: statements carry
// variants like "Merchant Payment Online". Note the two withdrawal markers:
// principal withdrawals are classified "Customer Withdrawal" while their
// fee rows are classified "Cash Withdrawal". The source statements keep
// these as separate row sets, and so do we.
const (
	MarkerMerchantPayment  = "Merchant Payment"
	MarkerPayMerchant      = "Pay Merchant"
	MarkerPayBill          = "Pay Bill"
	MarkerCustomerTransfer = "Customer Transfer"
	MarkerFundsReceived    = "Funds received"
	MarkerCustWithdrawal   = "Customer Withdrawal"
	MarkerCashWithdrawal   = "Cash Withdrawal"
	MarkerAirtime          = "Airtime"

	// Charge markers within a category's SubtypeDescription.
	ChargeMarker         = "Charge"
	TransferChargeMarker = "of Funds Charge"
)

// CategoryMarkers is the explicit ordered list of (marker, category) pairs.
// Order matters: "Pay Merchant" precedes "Merchant Payment" so that merchant
// fee rows are never absorbed into the merchant principal class, and the two
// withdrawal markers stay distinct. The list exists to make the loose
// substring dispatch, and its overlap risk, visible and testable.
var CategoryMarkers = []struct {
	Marker   string
	Category models.Category
}{
	{MarkerPayMerchant, models.CategoryMerchantPayments},
	{MarkerMerchantPayment, models.CategoryMerchantPayments},
	{MarkerPayBill, models.CategoryPayBillPayments},
	{MarkerCustomerTransfer, models.CategoryPeerTransfers},
	{MarkerFundsReceived, models.CategoryReceivedFunds},
	{MarkerCustWithdrawal, models.CategoryCashWithdrawals},
	{MarkerCashWithdrawal, models.CategoryCashWithdrawals},
	{MarkerAirtime, models.CategoryAirtimePurchases},
}

// ClassifyCategory reports which of the six categories a classification
// string falls in, evaluating the ordered marker list per record.
func ClassifyCategory(categoryCode string) (models.Category, bool) {
	for _, cm := range CategoryMarkers {
		if strings.Contains(categoryCode, cm.Marker) {
			return cm.Category, true
		}
	}
	return "", false
}

// FilterCategory returns the ledger rows whose CategoryCode contains the
// marker, preserving input order. The input is never mutated.
func FilterCategory(ledger []models.Transaction, marker string) []models.Transaction {
	var out []models.Transaction
	for _, tx := range ledger {
		if strings.Contains(tx.CategoryCode, marker) {
			out = append(out, tx)
		}
	}
	return out
}

// splitCharges partitions category rows into principals and charges based on
// a predicate over SubtypeDescription.
func splitCharges(rows []models.Transaction, isCharge func(string) bool) (principal, charges []models.Transaction) {
	for _, tx := range rows {
		if isCharge(tx.SubtypeDescription) {
			charges = append(charges, tx)
		} else {
			principal = append(principal, tx)
		}
	}
	return principal, charges
}

// sumOut totals the debited amounts of a row set.
func sumOut(rows []models.Transaction) float64 {
	var total float64
	for _, tx := range rows {
		total += tx.AmountOut
	}
	return total
}
