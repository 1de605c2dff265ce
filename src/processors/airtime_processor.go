package processors

import "github.com/username/mtop/backend/src/models"

// AirtimeProcessor aggregates airtime purchases by provider. Airtime is not
// charged separately in this scheme, so there is no fee sub-population and
// the charge total is always zero.
type AirtimeProcessor struct{}

func NewAirtimeProcessor() *AirtimeProcessor { return &AirtimeProcessor{} }

func (p *AirtimeProcessor) Category() models.Category {
	return models.CategoryAirtimePurchases
}

func (p *AirtimeProcessor) Process(ledger []models.Transaction, topN int) models.CategoryResult {
	principal := FilterCategory(ledger, MarkerAirtime)

	entities := AggregateByEntity(principal,
		func(tx models.Transaction) EntityKey { return EntityKey{Name: tx.Counterparty} },
		func(tx models.Transaction) float64 { return tx.AmountOut },
	)
	totalAmount, txCount := summarize(entities)

	return models.CategoryResult{
		Category:         models.CategoryAirtimePurchases,
		Entities:         entities,
		TopEntities:      TopN(entities, topN),
		TotalAmount:      totalAmount,
		TransactionCount: txCount,
	}
}
