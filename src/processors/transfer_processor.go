package processors

import (
	"strings"

	"github.com/username/mtop/backend/src/models"
	"github.com/username/mtop/backend/src/utils"
)

// PeerTransferProcessor aggregates Send Money transfers by recipient.
//
// Fee rows carry the exact subtype "of Funds Charge" and are excluded from
// the principal aggregate; the charge total is the plain sum over that
// marker. Recipient names go through the entity name resolver; a masked
// string the resolver cannot split (no whitespace after the number segment)
// keeps its original formatting rather than collapsing to "".
type PeerTransferProcessor struct{}

func NewPeerTransferProcessor() *PeerTransferProcessor { return &PeerTransferProcessor{} }

func (p *PeerTransferProcessor) Category() models.Category {
	return models.CategoryPeerTransfers
}

func (p *PeerTransferProcessor) Process(ledger []models.Transaction, topN int) models.CategoryResult {
	rows := FilterCategory(ledger, MarkerCustomerTransfer)
	principal, charges := splitCharges(rows, func(desc string) bool {
		return desc == TransferChargeMarker
	})

	entities := AggregateByEntity(principal,
		func(tx models.Transaction) EntityKey {
			return EntityKey{Name: transferRecipientName(tx.Counterparty)}
		},
		func(tx models.Transaction) float64 { return tx.AmountOut },
	)
	totalAmount, txCount := summarize(entities)

	return models.CategoryResult{
		Category:         models.CategoryPeerTransfers,
		Entities:         entities,
		TopEntities:      TopN(entities, topN),
		TotalAmount:      totalAmount,
		TotalCharges:     utils.RoundFloat(sumOut(charges), 2),
		TransactionCount: txCount,
	}
}

// transferRecipientName resolves a recipient display name, falling back to
// the raw string for malformed masked input.
func transferRecipientName(raw string) string {
	if strings.Contains(raw, "*") {
		if name := ResolveEntityName(raw); name != "" {
			return name
		}
		return raw
	}
	return titleCase(raw)
}
