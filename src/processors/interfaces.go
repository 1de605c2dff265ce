package processors

import "github.com/username/mtop/backend/src/models"

// CategoryProcessor computes one category's result from an immutable ledger
// snapshot. Implementations are pure: no input mutation, no shared state,
// no I/O. They may run fully in parallel over the same ledger. An empty
// principal row set yields a zero-valued result, never an error.
type CategoryProcessor interface {
	Category() models.Category
	Process(ledger []models.Transaction, topN int) models.CategoryResult
}

// All returns one instance of each of the six category processors, in the
// order the report presents them.
func All() []CategoryProcessor {
	return []CategoryProcessor{
		NewMerchantPaymentProcessor(),
		NewPayBillProcessor(),
		NewPeerTransferProcessor(),
		NewReceivedFundsProcessor(),
		NewCashWithdrawalProcessor(),
		NewAirtimeProcessor(),
	}
}
