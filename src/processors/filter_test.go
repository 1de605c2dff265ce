package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/username/mtop/backend/src/models"
)

func TestFilterCategorySubstringMembership(t *testing.T) {
	ledger := []models.Transaction{
		{ReceiptNo: "A", CategoryCode: "Merchant Payment Online"},
		{ReceiptNo: "B", CategoryCode: "Customer Transfer"},
		{ReceiptNo: "C", CategoryCode: "Merchant Payment"},
		{ReceiptNo: "D", CategoryCode: "merchant payment"}, // case-sensitive: excluded
	}

	got := FilterCategory(ledger, MarkerMerchantPayment)

	assert.Len(t, got, 2)
	assert.Equal(t, "A", got[0].ReceiptNo)
	assert.Equal(t, "C", got[1].ReceiptNo)
	// The input is left alone.
	assert.Len(t, ledger, 4)
}

func TestFilterCategoryEmpty(t *testing.T) {
	assert.Empty(t, FilterCategory(nil, MarkerAirtime))
	assert.Empty(t, FilterCategory([]models.Transaction{{CategoryCode: "Pay Bill"}}, MarkerAirtime))
}

func TestClassifyCategory(t *testing.T) {
	tests := []struct {
		code   string
		want   models.Category
		wantOK bool
	}{
		{"Merchant Payment", models.CategoryMerchantPayments, true},
		{"Merchant Payment Online", models.CategoryMerchantPayments, true},
		{"Pay Merchant", models.CategoryMerchantPayments, true},
		{"Pay Bill", models.CategoryPayBillPayments, true},
		{"Customer Transfer", models.CategoryPeerTransfers, true},
		{"Funds received", models.CategoryReceivedFunds, true},
		{"Customer Withdrawal", models.CategoryCashWithdrawals, true},
		{"Cash Withdrawal", models.CategoryCashWithdrawals, true},
		{"Airtime Purchase", models.CategoryAirtimePurchases, true},
		{"OD Loan Repayment", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, ok := ClassifyCategory(tt.code)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

// The fee marker must be evaluated before the principal marker it overlaps
// with, so fee rows never land in the principal class.
func TestCategoryMarkersOrder(t *testing.T) {
	idx := make(map[string]int, len(CategoryMarkers))
	for i, cm := range CategoryMarkers {
		idx[cm.Marker] = i
	}
	assert.Less(t, idx[MarkerPayMerchant], idx[MarkerMerchantPayment])
	assert.Less(t, idx[MarkerCustWithdrawal], idx[MarkerCashWithdrawal])
}

func TestSplitCharges(t *testing.T) {
	rows := []models.Transaction{
		{ReceiptNo: "A", SubtypeDescription: "to"},
		{ReceiptNo: "B", SubtypeDescription: "Charge"},
		{ReceiptNo: "C", SubtypeDescription: "to"},
	}
	principal, charges := splitCharges(rows, func(desc string) bool { return desc == "Charge" })

	assert.Len(t, principal, 2)
	assert.Len(t, charges, 1)
	assert.Equal(t, "B", charges[0].ReceiptNo)
}
