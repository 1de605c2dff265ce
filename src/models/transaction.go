package models

import "time"

// Transaction is the normalized representation of one ledger row from an
// M-Pesa statement. Parsers are responsible for populating every field,
// including the split of the raw details text into the classification
// string, the subtype qualifier and the counterparty.
type Transaction struct {
	// ReceiptNo is the statement's own transaction reference (e.g. "QKL3XP61T0").
	ReceiptNo string `json:"receipt_no"`

	// Timestamp is the completion time reported by the statement.
	Timestamp time.Time `json:"timestamp"`

	// CategoryCode is the raw classification string, e.g. "Merchant Payment",
	// "Pay Bill", "Customer Transfer", "Funds received", "Customer Withdrawal",
	// "Cash Withdrawal", "Airtime Purchase". Category membership downstream is
	// decided by substring containment, never equality.
	CategoryCode string `json:"category_code"`

	// SubtypeDescription qualifies the row within its category: connective
	// text such as "to", "from", "from Business", "At Agent Till", or a
	// charge marker such as "Charge" / "of Funds Charge".
	SubtypeDescription string `json:"subtype_description"`

	// Counterparty is the free-text other party. May embed an obscured phone
	// prefix ("2547*****23 John Doe") or a pay-bill compound form
	// ("KPLC PREPAID Acc. 123456"). Empty where no counterparty applies.
	Counterparty string `json:"counterparty"`

	// AmountOut is the money debited by this row; zero for inflows.
	AmountOut float64 `json:"amount_out"`

	// AmountIn is the money credited by this row; zero for outflows.
	AmountIn float64 `json:"amount_in"`

	// Balance is the running account balance after this row, when the
	// statement reports one.
	Balance float64 `json:"balance"`
}
