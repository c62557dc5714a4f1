package transaction

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
	errs "github.com/cryptofolio/gains-processor/internal/domain/error"
	coreport "github.com/cryptofolio/gains-processor/internal/domain/port/core"
	"github.com/cryptofolio/gains-processor/internal/domain/port/persistence"
	"github.com/cryptofolio/gains-processor/internal/domain/port/usecase"
)

// TransactionUseCase implements transaction bookkeeping: CRUD, annotated
// listings, oracle-backed price backfill and open-lot views
type TransactionUseCase struct {
	txRepo  persistence.TransactionRepository
	lotRepo persistence.LotRepository
	prices  coreport.PriceOracle
	logger  coreport.Logger
}

// NewTransactionUseCase creates a new transaction use case instance
func NewTransactionUseCase(
	txRepo persistence.TransactionRepository,
	lotRepo persistence.LotRepository,
	prices coreport.PriceOracle,
	logger coreport.Logger,
) usecase.TransactionUseCase {
	return &TransactionUseCase{
		txRepo:  txRepo,
		lotRepo: lotRepo,
		prices:  prices,
		logger:  logger,
	}
}

// Create validates and stores a new transaction
func (u *TransactionUseCase) Create(ctx context.Context, tx *entity.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	if err := u.txRepo.Create(ctx, tx); err != nil {
		u.logger.Error("Failed to create transaction", map[string]any{
			"type":  tx.Type,
			"error": err.Error(),
		})
		return err
	}

	u.logger.Info("Transaction created", map[string]any{
		"transaction_id": tx.ID,
		"type":           tx.Type,
		"tax_year":       tx.TaxYear,
	})
	return nil
}

// CreateMany stores a batch of imported transactions, returning how many were
// saved. The first failure stops the batch.
func (u *TransactionUseCase) CreateMany(ctx context.Context, transactions []*entity.Transaction) (int, error) {
	for i, tx := range transactions {
		if err := u.Create(ctx, tx); err != nil {
			return i, err
		}
	}
	return len(transactions), nil
}

// Update validates and replaces an existing transaction
func (u *TransactionUseCase) Update(ctx context.Context, tx *entity.Transaction) error {
	if tx.ID == 0 {
		return errs.ErrInvalidTransactionID
	}
	if err := tx.Validate(); err != nil {
		return err
	}

	// The tax year always tracks the (possibly changed) date
	tx.TaxYear = tx.TransactionDate.Year()

	if err := u.txRepo.Update(ctx, tx); err != nil {
		return err
	}

	u.logger.Info("Transaction updated", map[string]any{
		"transaction_id": tx.ID,
	})
	return nil
}

// Delete removes a transaction; its lots cascade-delete with it
func (u *TransactionUseCase) Delete(ctx context.Context, id uint64) error {
	if id == 0 {
		return errs.ErrInvalidTransactionID
	}
	if err := u.txRepo.Delete(ctx, id); err != nil {
		return err
	}

	u.logger.Info("Transaction deleted", map[string]any{
		"transaction_id": id,
	})
	return nil
}

// Get retrieves one transaction by ID
func (u *TransactionUseCase) Get(ctx context.Context, id uint64) (*entity.Transaction, error) {
	if id == 0 {
		return nil, errs.ErrInvalidTransactionID
	}
	return u.txRepo.GetByID(ctx, id)
}

// List retrieves filtered transactions with their stored gain fields, each
// annotated with the consistency pre-check
func (u *TransactionUseCase) List(ctx context.Context, filter persistence.TransactionFilter) ([]*usecase.TransactionView, error) {
	records, err := u.txRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	// The pre-check compares cumulative buys and sells across the whole
	// history, not just the filtered slice
	history, err := u.txRepo.ListByDateAsc(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]*usecase.TransactionView, 0, len(records))
	for _, record := range records {
		views = append(views, &usecase.TransactionView{
			Transaction: record.Transaction,
			Gains:       record.Gains,
			CheckError:  detectError(record.Transaction, history),
		})
	}
	return views, nil
}

// BackfillPrices fills a transaction's USD prices from the price oracle at
// the transaction's timestamp. An unknown asset mapping is a soft failure
// that backfills a zero price.
func (u *TransactionUseCase) BackfillPrices(ctx context.Context, id uint64) (*entity.Transaction, error) {
	tx, err := u.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if tx.FromAsset != "" {
		price, err := u.lookupPrice(ctx, tx.FromAsset, tx)
		if err != nil {
			return nil, err
		}
		tx.FromAssetPriceUSD = price
	}
	if tx.ToAsset != "" {
		price, err := u.lookupPrice(ctx, tx.ToAsset, tx)
		if err != nil {
			return nil, err
		}
		tx.ToAssetCostBasis = price
	}

	if err := u.txRepo.Update(ctx, tx); err != nil {
		return nil, err
	}

	u.logger.Info("Prices backfilled", map[string]any{
		"transaction_id": tx.ID,
		"from_asset":     tx.FromAsset,
		"to_asset":       tx.ToAsset,
	})
	return tx, nil
}

// lookupPrice asks the oracle for the asset's USD price at the transaction
// time. ErrUnknownAsset degrades to a zero price with a warning; any other
// oracle failure propagates.
func (u *TransactionUseCase) lookupPrice(ctx context.Context, asset string, tx *entity.Transaction) (decimal.Decimal, error) {
	price, err := u.prices.Price(ctx, asset, tx.TransactionDate)
	if err != nil {
		if errors.Is(err, errs.ErrUnknownAsset) {
			u.logger.Warn("No price-source mapping for asset", map[string]any{
				"asset":          asset,
				"transaction_id": tx.ID,
			})
			return decimal.Zero, nil
		}
		return decimal.Decimal{}, errs.WrapError(errs.ErrOracleFailure, "price lookup for "+asset)
	}
	return price, nil
}

// OpenLots lists lots with a positive remaining amount, ordered by (asset, date)
func (u *TransactionUseCase) OpenLots(ctx context.Context) ([]*entity.Lot, error) {
	return u.lotRepo.ListOpen(ctx)
}

// Holdings groups open lots per asset with remaining totals
func (u *TransactionUseCase) Holdings(ctx context.Context) ([]*usecase.HoldingView, error) {
	lots, err := u.lotRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	var views []*usecase.HoldingView
	index := make(map[string]*usecase.HoldingView)
	for _, lot := range lots {
		view, ok := index[lot.AssetName]
		if !ok {
			view = &usecase.HoldingView{AssetName: lot.AssetName}
			index[lot.AssetName] = view
			views = append(views, view)
		}
		view.Lots = append(view.Lots, lot)
	}
	for _, view := range views {
		total := decimal.Zero
		for _, lot := range view.Lots {
			total = total.Add(lot.RemainingAmount)
		}
		view.TotalAmount = total.String()
	}
	return views, nil
}
