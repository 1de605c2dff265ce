package processors

import (
	"strings"

	"github.com/username/mtop/backend/src/models"
)

// ReceivedFundsProcessor aggregates inbound money by sender.
//
// The category has two sub-populations distinguished by the subtype text:
// individual senders (no "Business" in the description, counterparty is a
// masked phone plus name, resolved to the display name) and business
// senders (kept as-is). After the split every row is re-tagged by whether
// its original description ends with the word "from" (the individual form),
// so aggregation can group by (name, kind). The same display name appears
// twice when it was seen in both forms.
type ReceivedFundsProcessor struct{}

func NewReceivedFundsProcessor() *ReceivedFundsProcessor { return &ReceivedFundsProcessor{} }

func (p *ReceivedFundsProcessor) Category() models.Category {
	return models.CategoryReceivedFunds
}

func (p *ReceivedFundsProcessor) Process(ledger []models.Transaction, topN int) models.CategoryResult {
	rows := FilterCategory(ledger, MarkerFundsReceived)

	entities := AggregateByEntity(rows,
		func(tx models.Transaction) EntityKey { return receivedSenderKey(tx) },
		func(tx models.Transaction) float64 { return tx.AmountIn },
	)
	totalAmount, txCount := summarize(entities)

	return models.CategoryResult{
		Category:         models.CategoryReceivedFunds,
		Entities:         entities,
		TopEntities:      TopN(entities, topN),
		TotalAmount:      totalAmount,
		TransactionCount: txCount,
	}
}

// receivedSenderKey applies the two independent rules of this category: the
// name of a business-style row ("Business" in the description) is kept
// untouched while every other row is resolved, and the kind tag is decided
// by whether the original description ends with "from".
func receivedSenderKey(tx models.Transaction) EntityKey {
	name := tx.Counterparty
	if !strings.Contains(tx.SubtypeDescription, "Business") {
		name = ResolveEntityName(tx.Counterparty)
	}
	kind := models.KindBusiness
	if strings.HasSuffix(tx.SubtypeDescription, "from") {
		kind = models.KindIndividual
	}
	return EntityKey{Name: name, Kind: kind}
}
