package processors

import (
	"github.com/username/mtop/backend/src/models"
	"github.com/username/mtop/backend/src/utils"
)

// CashWithdrawalProcessor aggregates agent/ATM withdrawals by location.
//
// Principal membership uses the "Customer Withdrawal" marker. The charge
// total is computed independently over the broader "Cash Withdrawal" marker
// applied to the whole ledger, not restricted to the principal row set.
// Source statements classify withdrawal fee rows under the broader marker,
// so unifying the two would silently change the totals.
type CashWithdrawalProcessor struct{}

func NewCashWithdrawalProcessor() *CashWithdrawalProcessor { return &CashWithdrawalProcessor{} }

func (p *CashWithdrawalProcessor) Category() models.Category {
	return models.CategoryCashWithdrawals
}

func (p *CashWithdrawalProcessor) Process(ledger []models.Transaction, topN int) models.CategoryResult {
	principal := FilterCategory(ledger, MarkerCustWithdrawal)

	entities := AggregateByEntity(principal,
		func(tx models.Transaction) EntityKey { return EntityKey{Name: tx.Counterparty} },
		func(tx models.Transaction) float64 { return tx.AmountOut },
	)
	totalAmount, txCount := summarize(entities)

	return models.CategoryResult{
		Category:         models.CategoryCashWithdrawals,
		Entities:         entities,
		TopEntities:      TopN(entities, topN),
		TotalAmount:      totalAmount,
		TotalCharges:     utils.RoundFloat(sumOut(FilterCategory(ledger, MarkerCashWithdrawal)), 2),
		TransactionCount: txCount,
	}
}
