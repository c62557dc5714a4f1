package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DisposalChunk records one slice of a disposal matched against one lot.
// A disposal that spans several lots emits several chunks.
type DisposalChunk struct {
	AssetName       string          // Asset that was disposed of
	AllocatedAmount decimal.Decimal // Quantity taken from the lot
	UnitCost        decimal.Decimal // Lot buy price (USD)
	UnitProceeds    decimal.Decimal // Disposal unit price (USD)
	AcquiredOn      time.Time       // Lot acquisition date
	DisposedOn      time.Time       // Disposal date
	HoldingDays     int             // Whole days between the two
	ShortTerm       bool            // HoldingDays < 365
}

// Cost returns the cost basis of this chunk
func (c DisposalChunk) Cost() decimal.Decimal {
	return c.AllocatedAmount.Mul(c.UnitCost)
}

// Proceeds returns the proceeds of this chunk
func (c DisposalChunk) Proceeds() decimal.Decimal {
	return c.AllocatedAmount.Mul(c.UnitProceeds)
}

// Gain returns proceeds minus cost basis for this chunk
func (c DisposalChunk) Gain() decimal.Decimal {
	return c.Proceeds().Sub(c.Cost())
}

// GainResult holds the gain fields computed for one transaction by a
// recalculation pass. It is keyed by transaction ID and kept separate from
// the Transaction entity so the source record stays immutable; the
// repository persists it onto the transaction row.
//
// The primary and gas figures come from two independent disposals. A nil
// figure group means that disposal failed allocation and its gains are unset.
type GainResult struct {
	TransactionID uint64
	Primary       *GainFigures // SELL/SWAP disposal gains, nil when unset
	Gas           *GainFigures // Gas-fee disposal gains, nil when unset
	Error         string       // Allocation error annotation, empty when clean
}

// GainFigures holds short/long-term gains in base and reporting currency
type GainFigures struct {
	ShortTermUSD decimal.Decimal
	LongTermUSD  decimal.Decimal
	ShortTermEUR decimal.Decimal
	LongTermEUR  decimal.Decimal
}

// NewGainFigures converts USD gains into the full figure set using the
// disposal-date conversion rate
func NewGainFigures(shortUSD, longUSD, rate decimal.Decimal) *GainFigures {
	return &GainFigures{
		ShortTermUSD: shortUSD,
		LongTermUSD:  longUSD,
		ShortTermEUR: shortUSD.Mul(rate),
		LongTermEUR:  longUSD.Mul(rate),
	}
}

// GainsSummary is the per-tax-year aggregate, upserted keyed by year.
// It is a cache derived from transactions, never the source of truth.
type GainsSummary struct {
	ID                  uint64
	TaxYear             int
	TotalShortTermGains decimal.Decimal
	TotalLongTermGains  decimal.Decimal
	TotalStakingRewards decimal.Decimal
	TotalAirdrops       decimal.Decimal
	TotalGasFees        decimal.Decimal
	NetGainUSD          decimal.Decimal
}
