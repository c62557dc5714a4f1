package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	errs "github.com/cryptofolio/gains-processor/internal/domain/error"
)

// TransactionType represents the kind of economic event a transaction records
type TransactionType string

// Transaction types
const (
	TypeBuy      TransactionType = "BUY"
	TypeSell     TransactionType = "SELL"
	TypeSwap     TransactionType = "SWAP"
	TypeTransfer TransactionType = "TXFR"
	TypeClaim    TransactionType = "CLAIM"
	TypeAirdrop  TransactionType = "AIRDROP"
	TypeStake    TransactionType = "STAKE"
	TypeApprove  TransactionType = "APPROVE"
)

// DefaultChain is used for exchange transactions that are not tied to a chain
const DefaultChain = "EXCH"

// Transaction represents one immutable economic event: an acquisition,
// a disposal, a transfer, or a fee-only chain interaction
type Transaction struct {
	ID                uint64          // Unique identifier for the transaction
	Chain             string          // Chain the transaction happened on ("EXCH" for exchanges)
	Type              TransactionType // BUY, SELL, SWAP, TXFR, CLAIM, AIRDROP, STAKE, APPROVE
	TransactionDate   time.Time       // When the event happened
	TaxYear           int             // Calendar year bucket, derived from TransactionDate
	FromAsset         string          // Asset disposed of (e.g. ETH)
	FromAmount        decimal.Decimal // Amount of the FROM asset
	FromAssetPriceUSD decimal.Decimal // FMV or sell price of the FROM asset in USD
	FromAssetPriceEUR decimal.Decimal // FMV or sell price of the FROM asset in EUR (optional)
	ToAsset           string          // Asset acquired (e.g. BTC)
	ToAmount          decimal.Decimal // Amount of the TO asset
	ToAssetCostBasis  decimal.Decimal // Unit cost basis of the TO asset in USD
	GasFees           decimal.Decimal // Gas fees, denominated in GasAsset
	GasAsset          string          // Asset the gas was paid in
	GasAssetPriceUSD  decimal.Decimal // Unit price of the gas asset in USD
	Note              string          // Optional free-text description
}

// NewTransaction creates a new transaction with basic validation.
// The tax year is always derived from the transaction date.
func NewTransaction(
	txType string,
	chain string,
	transactionDate time.Time,
) (*Transaction, error) {
	if !isValidTransactionType(txType) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidTransactionType, txType)
	}
	if transactionDate.IsZero() {
		return nil, fmt.Errorf("%w: transaction date is required", errs.ErrInvalidRequest)
	}
	if chain == "" {
		chain = DefaultChain
	}

	return &Transaction{
		Chain:           chain,
		Type:            TransactionType(txType),
		TransactionDate: transactionDate,
		TaxYear:         transactionDate.Year(),
	}, nil
}

// Validate checks the per-type field invariants: a BUY must carry the fields
// that create a lot, and any disposing type must carry the FROM side.
func (t *Transaction) Validate() error {
	if t.FromAmount.IsNegative() || t.ToAmount.IsNegative() || t.GasFees.IsNegative() {
		return errs.ErrInvalidAmount
	}

	switch t.Type {
	case TypeBuy:
		if t.ToAsset == "" {
			return fmt.Errorf("%w: BUY requires a TO asset", errs.ErrInvalidAsset)
		}
		if !t.ToAmount.IsPositive() {
			return fmt.Errorf("%w: BUY requires a positive TO amount", errs.ErrInvalidAmount)
		}
	case TypeSell, TypeSwap:
		if t.FromAsset == "" {
			return fmt.Errorf("%w: %s requires a FROM asset", errs.ErrInvalidAsset, t.Type)
		}
		if !t.FromAmount.IsPositive() {
			return fmt.Errorf("%w: %s requires a positive FROM amount", errs.ErrInvalidAmount, t.Type)
		}
	}

	if t.GasFees.IsPositive() && t.GasAsset == "" {
		return fmt.Errorf("%w: gas fees require a gas asset", errs.ErrInvalidAsset)
	}

	return nil
}

// DisposesAsset returns true if this transaction disposes of its FROM asset
func (t *Transaction) DisposesAsset() bool {
	return t.Type == TypeSell || t.Type == TypeSwap
}

// DisposesGas returns true if this transaction pays gas in a tracked asset,
// which is an independent disposal of that asset
func (t *Transaction) DisposesGas() bool {
	return t.GasAsset != "" && t.GasFees.IsPositive()
}

// CreatesLot returns true if this transaction creates an acquisition lot
func (t *Transaction) CreatesLot() bool {
	return t.Type == TypeBuy
}

// Helper functions

// isValidTransactionType validates if the transaction type is allowed
func isValidTransactionType(txType string) bool {
	switch TransactionType(txType) {
	case TypeBuy, TypeSell, TypeSwap, TypeTransfer, TypeClaim, TypeAirdrop, TypeStake, TypeApprove:
		return true
	}
	return false
}
