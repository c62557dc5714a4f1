package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot is a slice of an acquisition lot, created one-per-BUY transaction.
// RemainingAmount is the only mutable field; it is decremented by FIFO
// allocation and never goes below zero. An exhausted lot (zero remaining)
// is skipped by future allocations but not deleted until the next rebuild.
type Lot struct {
	ID              uint64          // Unique identifier for the lot
	TransactionID   uint64          // Owning BUY transaction (cascade-delete)
	AssetName       string          // Asset symbol, e.g. BTC
	RemainingAmount decimal.Decimal // Unsold amount from this buy
	BuyPrice        decimal.Decimal // Unit price at the time of the BUY
	TransactionDate time.Time       // Acquisition date, copied from the transaction
}

// NewLotFromBuy builds the lot a BUY transaction creates
func NewLotFromBuy(tx *Transaction) *Lot {
	return &Lot{
		TransactionID:   tx.ID,
		AssetName:       tx.ToAsset,
		RemainingAmount: tx.ToAmount,
		BuyPrice:        tx.ToAssetCostBasis,
		TransactionDate: tx.TransactionDate,
	}
}

// Exhausted returns true once the lot has nothing left to allocate
func (l *Lot) Exhausted() bool {
	return !l.RemainingAmount.IsPositive()
}

// HoldingDays returns the whole days between acquisition and the given
// disposal time. 364 days is short-term, 365 is long-term.
func (l *Lot) HoldingDays(disposedOn time.Time) int {
	return int(disposedOn.Sub(l.TransactionDate).Hours() / 24)
}
