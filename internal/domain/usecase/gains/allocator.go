package gains

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
)

// longTermThresholdDays is the holding period at which a chunk becomes
// long-term: 364 days is short, 365 is long.
const longTermThresholdDays = 365

// allocateFIFO consumes a disposal amount against the given lots, oldest
// acquisition first. Lots must already be ordered by acquisition date
// ascending (insertion order breaking ties); exhausted lots are skipped.
//
// Visited lots have their RemainingAmount decremented in place. The returned
// residual is zero on full allocation; a positive residual means the disposal
// exceeded the open lots. The decrements made before running out are NOT
// rolled back — the caller records the error and the next full rebuild
// regenerates the ledger.
func allocateFIFO(
	amount decimal.Decimal,
	unitProceeds decimal.Decimal,
	disposedOn time.Time,
	lots []*entity.Lot,
) ([]entity.DisposalChunk, decimal.Decimal) {
	outstanding := amount
	var chunks []entity.DisposalChunk

	for _, lot := range lots {
		if !outstanding.IsPositive() {
			break
		}
		if lot.Exhausted() {
			continue
		}

		allocated := decimal.Min(outstanding, lot.RemainingAmount)
		lot.RemainingAmount = lot.RemainingAmount.Sub(allocated)
		outstanding = outstanding.Sub(allocated)

		holdingDays := lot.HoldingDays(disposedOn)
		chunks = append(chunks, entity.DisposalChunk{
			AssetName:       lot.AssetName,
			AllocatedAmount: allocated,
			UnitCost:        lot.BuyPrice,
			UnitProceeds:    unitProceeds,
			AcquiredOn:      lot.TransactionDate,
			DisposedOn:      disposedOn,
			HoldingDays:     holdingDays,
			ShortTerm:       holdingDays < longTermThresholdDays,
		})
	}

	return chunks, outstanding
}

// classifyGains sums chunk gains into short-term and long-term totals
func classifyGains(chunks []entity.DisposalChunk) (shortTerm, longTerm decimal.Decimal) {
	for _, chunk := range chunks {
		if chunk.ShortTerm {
			shortTerm = shortTerm.Add(chunk.Gain())
		} else {
			longTerm = longTerm.Add(chunk.Gain())
		}
	}
	return shortTerm, longTerm
}
