package transaction

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
)

// detectError runs the listing pre-check for one transaction against the full
// date-ordered history: a SELL with no prior BUY of the asset, or a SELL that
// exceeds cumulative holdings up to its date, gets an annotation. This is a
// cheap consistency hint; the authoritative check is the FIFO allocation
// during recalculation.
func detectError(tx *entity.Transaction, history []*entity.Transaction) string {
	if tx.Type != entity.TypeSell {
		return ""
	}

	var totalBought, totalSold decimal.Decimal
	sawBuy := false
	for _, other := range history {
		if other.TransactionDate.After(tx.TransactionDate) {
			continue
		}
		if other.Type == entity.TypeBuy && other.ToAsset == tx.FromAsset {
			sawBuy = true
			totalBought = totalBought.Add(other.ToAmount)
		}
		if other.Type == entity.TypeSell && other.FromAsset == tx.FromAsset && other.ID != tx.ID {
			totalSold = totalSold.Add(other.FromAmount)
		}
	}

	if !sawBuy {
		return fmt.Sprintf("SELL transaction for %s before any BUY", tx.FromAsset)
	}
	if totalBought.LessThan(totalSold.Add(tx.FromAmount)) {
		return fmt.Sprintf("SELL amount exceeds total available holdings for %s", tx.FromAsset)
	}
	return ""
}
