package usecase

import (
	"context"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
	"github.com/cryptofolio/gains-processor/internal/domain/port/persistence"
)

// TransactionView is a transaction annotated with its stored gain fields and
// the pre-check error for listings
type TransactionView struct {
	Transaction *entity.Transaction
	Gains       *entity.GainResult
	CheckError  string // DetectErrors annotation, empty when the transaction looks consistent
}

// HoldingView groups the open lots of one asset
type HoldingView struct {
	AssetName   string
	TotalAmount string
	Lots        []*entity.Lot
}

// TransactionUseCase defines transaction bookkeeping operations
type TransactionUseCase interface {
	// Create validates and stores a new transaction
	Create(ctx context.Context, transaction *entity.Transaction) error

	// CreateMany stores a batch of imported transactions
	CreateMany(ctx context.Context, transactions []*entity.Transaction) (int, error)

	// Update validates and replaces an existing transaction
	Update(ctx context.Context, transaction *entity.Transaction) error

	// Delete removes a transaction and its lots
	Delete(ctx context.Context, id uint64) error

	// Get retrieves one transaction
	Get(ctx context.Context, id uint64) (*entity.Transaction, error)

	// List retrieves filtered transactions annotated with gains and pre-check errors
	List(ctx context.Context, filter persistence.TransactionFilter) ([]*TransactionView, error)

	// BackfillPrices fills a transaction's missing USD prices from the price oracle
	BackfillPrices(ctx context.Context, id uint64) (*entity.Transaction, error)

	// OpenLots lists lots with a positive remaining amount ordered by (asset, date)
	OpenLots(ctx context.Context) ([]*entity.Lot, error)

	// Holdings groups open lots per asset with remaining totals
	Holdings(ctx context.Context) ([]*HoldingView, error)
}
