package persistence

import (
	"context"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
)

// TransactionFilter narrows transaction listings. Zero values mean "no filter".
type TransactionFilter struct {
	Asset string // Matches either the FROM or the TO asset
	Chain string
}

// TransactionRecord pairs a transaction with the gain fields stored on its row.
// Gains is nil when no recalculation has touched the transaction yet.
type TransactionRecord struct {
	Transaction *entity.Transaction
	Gains       *entity.GainResult
}

// TransactionRepository defines essential methods to interact with transaction data.
// All listings are ordered by transaction date ascending; the engine relies on
// that ordering for deterministic FIFO replay.
type TransactionRepository interface {
	// Create saves a new transaction
	//
	// Possible errors:
	// - ErrConstraintViolation: if transaction data violates a database constraint
	// - ErrDatabaseConnection: if database connection fails
	Create(ctx context.Context, transaction *entity.Transaction) error

	// Update replaces the mutable fields of an existing transaction
	//
	// Possible errors:
	// - ErrTransactionNotFound: if no transaction with the given ID exists
	// - ErrDatabaseConnection: if database connection fails
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Delete removes a transaction; its lots cascade-delete with it
	//
	// Possible errors:
	// - ErrTransactionNotFound: if no transaction with the given ID exists
	// - ErrDatabaseConnection: if database connection fails
	Delete(ctx context.Context, id uint64) error

	// GetByID retrieves a transaction by its ID
	//
	// Possible errors:
	// - ErrTransactionNotFound: if no transaction with the given ID exists
	// - ErrDatabaseConnection: if database connection fails
	GetByID(ctx context.Context, id uint64) (*entity.Transaction, error)

	// List retrieves transactions matching the filter, paired with their
	// stored gain fields, ordered by date ascending
	List(ctx context.Context, filter TransactionFilter) ([]TransactionRecord, error)

	// ListByDateAsc retrieves the full transaction set in replay order
	ListByDateAsc(ctx context.Context) ([]*entity.Transaction, error)

	// ListBuysByDateAsc retrieves all BUY transactions in acquisition order,
	// used by the ledger rebuild
	ListBuysByDateAsc(ctx context.Context) ([]*entity.Transaction, error)

	// ListByTaxYear retrieves all transactions bucketed under the given tax
	// year, paired with their stored gain fields
	ListByTaxYear(ctx context.Context, taxYear int) ([]TransactionRecord, error)

	// SaveGainResult persists the computed gain fields and error annotation
	// for one transaction
	//
	// Possible errors:
	// - ErrTransactionNotFound: if no transaction with the given ID exists
	// - ErrDatabaseConnection: if database connection fails
	SaveGainResult(ctx context.Context, result *entity.GainResult) error

	// GetGainResult retrieves the stored gain fields for one transaction
	GetGainResult(ctx context.Context, transactionID uint64) (*entity.GainResult, error)
}
