package processors

import (
	"sort"
	"strings"

	"github.com/username/mtop/backend/src/models"
	"github.com/username/mtop/backend/src/utils"
)

// PayBillProcessor aggregates pay-bill payments by business.
//
// Counterparties arrive as "<business> Acc. <account>"; aggregation groups
// by the business name alone and collects every account reference seen, in
// order of first appearance. Fee rows (SubtypeDescription containing
// "Charge") are excluded from the principal aggregate; the charge total is
// the largest single charge-entity total, since there is normally exactly
// one fee-collecting entity.
type PayBillProcessor struct{}

func NewPayBillProcessor() *PayBillProcessor { return &PayBillProcessor{} }

func (p *PayBillProcessor) Category() models.Category {
	return models.CategoryPayBillPayments
}

func (p *PayBillProcessor) Process(ledger []models.Transaction, topN int) models.CategoryResult {
	rows := FilterCategory(ledger, MarkerPayBill)
	principal, charges := splitCharges(rows, func(desc string) bool {
		return strings.Contains(desc, ChargeMarker)
	})

	type payBillGroup struct {
		agg      models.EntityAggregate
		accounts []string
		seen     map[string]bool
	}
	groups := make(map[string]*payBillGroup)
	var order []string

	for _, tx := range principal {
		business, account := SplitPayBillEntity(tx.Counterparty)
		g, ok := groups[business]
		if !ok {
			g = &payBillGroup{
				agg:  models.EntityAggregate{EntityName: business},
				seen: make(map[string]bool),
			}
			groups[business] = g
			order = append(order, business)
		}
		g.agg.TransactionCount++
		g.agg.TotalAmount += tx.AmountOut
		if account != "" && !g.seen[account] {
			g.seen[account] = true
			g.accounts = append(g.accounts, account)
		}
	}

	entities := make([]models.EntityAggregate, 0, len(order))
	for _, business := range order {
		g := groups[business]
		g.agg.Accounts = strings.Join(g.accounts, ", ")
		entities = append(entities, g.agg)
	}
	sort.SliceStable(entities, func(i, j int) bool {
		return entities[i].TotalAmount > entities[j].TotalAmount
	})

	totalAmount, txCount := summarize(entities)

	return models.CategoryResult{
		Category:         models.CategoryPayBillPayments,
		Entities:         entities,
		TopEntities:      TopN(entities, topN),
		TotalAmount:      totalAmount,
		TotalCharges:     largestChargeTotal(charges),
		TransactionCount: txCount,
	}
}

// largestChargeTotal aggregates charge rows by counterparty and returns the
// biggest per-entity total, zero when there are no charge rows.
func largestChargeTotal(charges []models.Transaction) float64 {
	byEntity := AggregateByEntity(charges,
		func(tx models.Transaction) EntityKey { return EntityKey{Name: tx.Counterparty} },
		func(tx models.Transaction) float64 { return tx.AmountOut },
	)
	if len(byEntity) == 0 {
		return 0
	}
	return utils.RoundFloat(byEntity[0].TotalAmount, 2)
}
