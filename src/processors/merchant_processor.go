package processors

import (
	"github.com/username/mtop/backend/src/models"
	"github.com/username/mtop/backend/src/utils"
)

// MerchantPaymentProcessor aggregates Buy Goods payments by merchant.
//
// The charge total comes from a different marker ("Pay Merchant") than the
// membership marker ("Merchant Payment"): fee rows are classified on their
// own and are therefore not part of the principal row set to begin with, so
// nothing is excluded from the principal aggregate.
type MerchantPaymentProcessor struct{}

func NewMerchantPaymentProcessor() *MerchantPaymentProcessor { return &MerchantPaymentProcessor{} }

func (p *MerchantPaymentProcessor) Category() models.Category {
	return models.CategoryMerchantPayments
}

func (p *MerchantPaymentProcessor) Process(ledger []models.Transaction, topN int) models.CategoryResult {
	principal := FilterCategory(ledger, MarkerMerchantPayment)

	entities := AggregateByEntity(principal,
		func(tx models.Transaction) EntityKey { return EntityKey{Name: tx.Counterparty} },
		func(tx models.Transaction) float64 { return tx.AmountOut },
	)
	totalAmount, txCount := summarize(entities)

	return models.CategoryResult{
		Category:         models.CategoryMerchantPayments,
		Entities:         entities,
		TopEntities:      TopN(entities, topN),
		TotalAmount:      totalAmount,
		TotalCharges:     utils.RoundFloat(sumOut(FilterCategory(ledger, MarkerPayMerchant)), 2),
		TransactionCount: txCount,
	}
}
