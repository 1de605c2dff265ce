package mpesa

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/mtop/backend/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func TestClassifyDetails(t *testing.T) {
	tests := []struct {
		details          string
		wantCategory     string
		wantSubtype      string
		wantCounterparty string
	}{
		{
			"Merchant Payment Online to 123456 - NAIVAS SUPERMARKET",
			"Merchant Payment", "Online to", "NAIVAS SUPERMARKET",
		},
		{
			"Merchant Payment to 555001 - QUICKMART",
			"Merchant Payment", "to", "QUICKMART",
		},
		{
			"Pay Merchant Charge",
			"Pay Merchant", "Charge", "",
		},
		{
			"Pay Bill to 888880 - KPLC PREPAID Acc. 123456",
			"Pay Bill", "to", "KPLC PREPAID Acc. 123456",
		},
		{
			"Customer Transfer to 2547*****23 John Doe",
			"Customer Transfer", "to", "2547*****23 John Doe",
		},
		{
			"Customer Transfer of Funds Charge",
			"Customer Transfer", "of Funds Charge", "",
		},
		{
			"Funds received from 2547*****01 Jane Roe",
			"Funds received", "from", "2547*****01 Jane Roe",
		},
		{
			"Funds received from Business SAFARICOM LTD",
			"Funds received", "from Business", "SAFARICOM LTD",
		},
		{
			"Customer Withdrawal At Agent Till 987654 - AGENT ALPHA NAIROBI",
			"Customer Withdrawal", "At Agent Till", "AGENT ALPHA NAIROBI",
		},
		{
			"Cash Withdrawal Charge",
			"Cash Withdrawal", "Charge", "",
		},
		{
			"Airtime Purchase",
			"Airtime Purchase", "", "",
		},
		{
			"Airtime Purchase by Customer",
			"Airtime Purchase", "by", "Customer",
		},
		// Unrecognized details degrade to a category-only row.
		{
			"OD Loan Repayment",
			"OD Loan Repayment", "", "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.details, func(t *testing.T) {
			category, subtype, counterparty := classifyDetails(tt.details)
			assert.Equal(t, tt.wantCategory, category)
			assert.Equal(t, tt.wantSubtype, subtype)
			assert.Equal(t, tt.wantCounterparty, counterparty)
		})
	}
}

func TestParse(t *testing.T) {
	csvData := strings.Join([]string{
		`Receipt No.,Completion Time,Details,Transaction Status,Paid In,Withdrawn,Balance`,
		`RC3,2024-03-20 18:30:00,Customer Transfer to 2547*****23 John Doe,Completed,,"-1,000.00","4,500.00"`,
		`RC2,2024-02-15 12:00:00,Funds received from 2547*****01 Jane Roe,Completed,"2,000.00",,"5,500.00"`,
		`RCX,2024-02-10 08:00:00,Merchant Payment to 555001 - QUICKMART,Failed,,-200.00,`,
		`RC1,2024-01-10 09:00:00,Merchant Payment Online to 123456 - NAIVAS SUPERMARKET,Completed,,-500.00,"3,500.00"`,
	}, "\n")

	ledger, err := NewParser().Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, ledger, 3, "failed rows are skipped")

	// Oldest first, regardless of export order.
	assert.Equal(t, "RC1", ledger[0].ReceiptNo)
	assert.Equal(t, "RC2", ledger[1].ReceiptNo)
	assert.Equal(t, "RC3", ledger[2].ReceiptNo)

	first := ledger[0]
	assert.Equal(t, "Merchant Payment", first.CategoryCode)
	assert.Equal(t, "Online to", first.SubtypeDescription)
	assert.Equal(t, "NAIVAS SUPERMARKET", first.Counterparty)
	assert.Equal(t, 500.0, first.AmountOut, "sign is discarded")
	assert.Zero(t, first.AmountIn)
	assert.Equal(t, 3500.0, first.Balance, "thousands separator is stripped")

	received := ledger[1]
	assert.Equal(t, "Funds received", received.CategoryCode)
	assert.Equal(t, 2000.0, received.AmountIn)
	assert.Zero(t, received.AmountOut)
}

func TestParseHeaderVariants(t *testing.T) {
	csvData := strings.Join([]string{
		`receipt_no,completion time,DETAILS,transaction status,paid in,withdrawn,balance`,
		`RC1,2024-01-10 09:00:00,Airtime Purchase,Completed,,-100.00,900.00`,
	}, "\n")

	ledger, err := NewParser().Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, "Airtime Purchase", ledger[0].CategoryCode)
	assert.Equal(t, 100.0, ledger[0].AmountOut)
}

func TestParseMissingRequiredColumn(t *testing.T) {
	csvData := "Receipt No.,Completion Time,Paid In\nRC1,2024-01-10 09:00:00,100.00\n"

	_, err := NewParser().Parse(strings.NewReader(csvData))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "details")
}

func TestParseSkipsUnreadableTimestamps(t *testing.T) {
	csvData := strings.Join([]string{
		`Receipt No.,Completion Time,Details,Transaction Status,Paid In,Withdrawn,Balance`,
		`RC1,not-a-date,Airtime Purchase,Completed,,-100.00,900.00`,
		`RC2,10-01-2024 09:00:00,Airtime Purchase,Completed,,-50.00,850.00`,
	}, "\n")

	ledger, err := NewParser().Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, ledger, 1)
	assert.Equal(t, "RC2", ledger[0].ReceiptNo)
}

func TestParseAmount(t *testing.T) {
	assert.Equal(t, 1000.0, parseAmount(`"1,000.00"`))
	assert.Equal(t, 500.0, parseAmount("-500.00"))
	assert.Equal(t, 0.0, parseAmount(""))
	assert.Equal(t, 0.0, parseAmount("n/a"))
}
