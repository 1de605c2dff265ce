package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/username/mtop/backend/src/models"
)

func byCounterparty(tx models.Transaction) EntityKey {
	return EntityKey{Name: tx.Counterparty}
}

func amountOut(tx models.Transaction) float64 { return tx.AmountOut }

func TestAggregateByEntity(t *testing.T) {
	rows := []models.Transaction{
		{Counterparty: "Naivas", AmountOut: 500},
		{Counterparty: "Quickmart", AmountOut: 200},
		{Counterparty: "Naivas", AmountOut: 300},
	}

	got := AggregateByEntity(rows, byCounterparty, amountOut)

	assert.Equal(t, []models.EntityAggregate{
		{EntityName: "Naivas", TransactionCount: 2, TotalAmount: 800},
		{EntityName: "Quickmart", TransactionCount: 1, TotalAmount: 200},
	}, got)
}

func TestAggregateByEntityTiesKeepFirstSeenOrder(t *testing.T) {
	rows := []models.Transaction{
		{Counterparty: "B", AmountOut: 100},
		{Counterparty: "A", AmountOut: 100},
		{Counterparty: "C", AmountOut: 100},
	}

	got := AggregateByEntity(rows, byCounterparty, amountOut)

	assert.Equal(t, "B", got[0].EntityName)
	assert.Equal(t, "A", got[1].EntityName)
	assert.Equal(t, "C", got[2].EntityName)
}

// With distinct per-entity totals the ranking must not depend on the order
// rows arrive in.
func TestAggregateByEntityPermutationInvariant(t *testing.T) {
	rows := []models.Transaction{
		{Counterparty: "A", AmountOut: 50},
		{Counterparty: "B", AmountOut: 700},
		{Counterparty: "A", AmountOut: 50},
		{Counterparty: "C", AmountOut: 300},
	}
	reversed := make([]models.Transaction, len(rows))
	for i, tx := range rows {
		reversed[len(rows)-1-i] = tx
	}

	assert.Equal(t,
		AggregateByEntity(rows, byCounterparty, amountOut),
		AggregateByEntity(reversed, byCounterparty, amountOut))
}

func TestAggregateByEntityKindSplitsGroups(t *testing.T) {
	rows := []models.Transaction{
		{Counterparty: "Acme", AmountIn: 100},
		{Counterparty: "Acme", AmountIn: 200},
	}
	key := func(tx models.Transaction) EntityKey {
		kind := models.KindIndividual
		if tx.AmountIn > 150 {
			kind = models.KindBusiness
		}
		return EntityKey{Name: tx.Counterparty, Kind: kind}
	}

	got := AggregateByEntity(rows, key, func(tx models.Transaction) float64 { return tx.AmountIn })

	assert.Len(t, got, 2)
	assert.Equal(t, models.KindBusiness, got[0].Kind)
	assert.Equal(t, models.KindIndividual, got[1].Kind)
}

func TestTopN(t *testing.T) {
	entities := []models.EntityAggregate{
		{EntityName: "A", TotalAmount: 900},
		{EntityName: "B", TotalAmount: 500},
		{EntityName: "C", TotalAmount: 100},
	}

	assert.Len(t, TopN(entities, 2), 2)
	assert.Equal(t, "A", TopN(entities, 2)[0].EntityName)
	assert.Len(t, TopN(entities, 10), 3, "n larger than the table is clamped")
	assert.Nil(t, TopN(entities, 0))
	assert.Nil(t, TopN(nil, 5))

	// The truncation is a copy, not a view.
	top := TopN(entities, 1)
	top[0].EntityName = "mutated"
	assert.Equal(t, "A", entities[0].EntityName)
}

func TestSummarize(t *testing.T) {
	total, count := summarize([]models.EntityAggregate{
		{TransactionCount: 2, TotalAmount: 800},
		{TransactionCount: 1, TotalAmount: 200},
	})
	assert.Equal(t, 1000.0, total)
	assert.Equal(t, 3, count)

	total, count = summarize(nil)
	assert.Zero(t, total)
	assert.Zero(t, count)
}
