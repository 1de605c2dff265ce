package processors

import (
	"sort"

	"github.com/username/mtop/backend/src/models"
	"github.com/username/mtop/backend/src/utils"
)

// EntityKey identifies one aggregation group. Kind is only meaningful for
// received funds, where the same display name can be seen both as an
// individual-style and a business-style sender.
type EntityKey struct {
	Name string
	Kind string
}

// AggregateByEntity groups rows by the supplied key, computing a count and
// an amount sum per group as an explicit map-reduce: one pass to accumulate,
// then a materialized slice sorted descending by total. Ties keep the
// first-seen order of the input, so top-N selection is deterministic.
func AggregateByEntity(
	rows []models.Transaction,
	key func(models.Transaction) EntityKey,
	amount func(models.Transaction) float64,
) []models.EntityAggregate {
	groups := make(map[EntityKey]*models.EntityAggregate)
	var order []EntityKey

	for _, tx := range rows {
		k := key(tx)
		agg, ok := groups[k]
		if !ok {
			agg = &models.EntityAggregate{EntityName: k.Name, Kind: k.Kind}
			groups[k] = agg
			order = append(order, k)
		}
		agg.TransactionCount++
		agg.TotalAmount += amount(tx)
	}

	out := make([]models.EntityAggregate, 0, len(order))
	for _, k := range order {
		out = append(out, *groups[k])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalAmount > out[j].TotalAmount
	})
	return out
}

// TopN returns the first n entries of an already-ranked aggregate table.
// Selection happens strictly before any display re-sort a renderer applies.
func TopN(entities []models.EntityAggregate, n int) []models.EntityAggregate {
	if n <= 0 || len(entities) == 0 {
		return nil
	}
	if n > len(entities) {
		n = len(entities)
	}
	top := make([]models.EntityAggregate, n)
	copy(top, entities[:n])
	return top
}

// summarize computes the category totals over the full aggregate table.
// Amounts come from 2-decimal statement values, so the accumulated total is
// rounded back to cents.
func summarize(entities []models.EntityAggregate) (totalAmount float64, txCount int) {
	for _, e := range entities {
		totalAmount += e.TotalAmount
		txCount += e.TransactionCount
	}
	return utils.RoundFloat(totalAmount, 2), txCount
}
