package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
	errs "github.com/cryptofolio/gains-processor/internal/domain/error"
	coreport "github.com/cryptofolio/gains-processor/internal/domain/port/core"
	"github.com/cryptofolio/gains-processor/internal/domain/port/persistence"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/model"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionRepository implements the TransactionRepository interface using GORM
type TransactionRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewTransactionRepository creates a new TransactionRepository instance
func NewTransactionRepository(db *gorm.DB, logger coreport.Logger) persistence.TransactionRepository {
	return &TransactionRepository{
		db:     db,
		logger: logger,
	}
}

// entityToModel converts a transaction entity to a database model
func entityToModel(tx *entity.Transaction) model.Transaction {
	return model.Transaction{
		ID:                tx.ID,
		Chain:             tx.Chain,
		Type:              string(tx.Type),
		TransactionDate:   tx.TransactionDate,
		TaxYear:           tx.TaxYear,
		FromAsset:         tx.FromAsset,
		FromAmount:        tx.FromAmount,
		FromAssetPriceUSD: tx.FromAssetPriceUSD,
		FromAssetPriceEUR: tx.FromAssetPriceEUR,
		ToAsset:           tx.ToAsset,
		ToAmount:          tx.ToAmount,
		ToAssetCostBasis:  tx.ToAssetCostBasis,
		GasFees:           tx.GasFees,
		GasAsset:          tx.GasAsset,
		GasAssetPriceUSD:  tx.GasAssetPriceUSD,
		Note:              tx.Note,
	}
}

// modelToEntity converts a transaction model to an entity
func modelToEntity(m *model.Transaction) *entity.Transaction {
	return &entity.Transaction{
		ID:                m.ID,
		Chain:             m.Chain,
		Type:              entity.TransactionType(m.Type),
		TransactionDate:   m.TransactionDate,
		TaxYear:           m.TaxYear,
		FromAsset:         m.FromAsset,
		FromAmount:        m.FromAmount,
		FromAssetPriceUSD: m.FromAssetPriceUSD,
		FromAssetPriceEUR: m.FromAssetPriceEUR,
		ToAsset:           m.ToAsset,
		ToAmount:          m.ToAmount,
		ToAssetCostBasis:  m.ToAssetCostBasis,
		GasFees:           m.GasFees,
		GasAsset:          m.GasAsset,
		GasAssetPriceUSD:  m.GasAssetPriceUSD,
		Note:              m.Note,
	}
}

// modelToGainResult extracts the stored gain columns of a row. Returns nil
// when the row has never been touched by a recalculation pass.
func modelToGainResult(m *model.Transaction) *entity.GainResult {
	touched := m.ShortTermGainUSD != nil || m.GasShortTermGainUSD != nil || m.GainError != ""
	if !touched {
		return nil
	}

	result := &entity.GainResult{
		TransactionID: m.ID,
		Error:         m.GainError,
	}

	if m.ShortTermGainUSD != nil {
		result.Primary = &entity.GainFigures{
			ShortTermUSD: *m.ShortTermGainUSD,
			LongTermUSD:  derefOrZero(m.LongTermGainUSD),
			ShortTermEUR: derefOrZero(m.ShortTermGainEUR),
			LongTermEUR:  derefOrZero(m.LongTermGainEUR),
		}
	}
	if m.GasShortTermGainUSD != nil {
		result.Gas = &entity.GainFigures{
			ShortTermUSD: *m.GasShortTermGainUSD,
			LongTermUSD:  derefOrZero(m.GasLongTermGainUSD),
			ShortTermEUR: derefOrZero(m.GasShortTermGainEUR),
			LongTermEUR:  derefOrZero(m.GasLongTermGainEUR),
		}
	}

	return result
}

func derefOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// Create saves a new transaction
func (r *TransactionRepository) Create(ctx context.Context, tx *entity.Transaction) error {
	r.logger.Debug("Creating transaction", map[string]any{
		"type":  tx.Type,
		"chain": tx.Chain,
		"date":  tx.TransactionDate,
	})

	txModel := entityToModel(tx)

	result := r.db.WithContext(ctx).Create(&txModel)
	if result.Error != nil {
		r.logger.Error("Failed to create transaction", map[string]any{
			"type":  tx.Type,
			"error": result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	tx.ID = txModel.ID

	r.logger.Info("Transaction created successfully", map[string]any{
		"transaction_id": tx.ID,
		"type":           tx.Type,
	})
	return nil
}

// Update replaces the mutable fields of an existing transaction
func (r *TransactionRepository) Update(ctx context.Context, tx *entity.Transaction) error {
	r.logger.Debug("Updating transaction", map[string]any{
		"transaction_id": tx.ID,
	})

	txModel := entityToModel(tx)

	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", tx.ID).
		Updates(map[string]interface{}{
			"chain":                 txModel.Chain,
			"type":                  txModel.Type,
			"transaction_date":      txModel.TransactionDate,
			"tax_year":              txModel.TaxYear,
			"from_asset":            txModel.FromAsset,
			"from_amount":           txModel.FromAmount,
			"from_asset_price_usd":  txModel.FromAssetPriceUSD,
			"from_asset_price_eur":  txModel.FromAssetPriceEUR,
			"to_asset":              txModel.ToAsset,
			"to_amount":             txModel.ToAmount,
			"to_asset_cost_basis":   txModel.ToAssetCostBasis,
			"gas_fees":              txModel.GasFees,
			"gas_asset":             txModel.GasAsset,
			"gas_asset_price_usd":   txModel.GasAssetPriceUSD,
			"note":                  txModel.Note,
		})

	if result.Error != nil {
		r.logger.Error("Failed to update transaction", map[string]any{
			"transaction_id": tx.ID,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("Transaction not found during update", map[string]any{
			"transaction_id": tx.ID,
		})
		return errs.ErrTransactionNotFound
	}

	return nil
}

// Delete removes a transaction; its lots cascade-delete with it
func (r *TransactionRepository) Delete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&model.Transaction{}, id)
	if result.Error != nil {
		r.logger.Error("Failed to delete transaction", map[string]any{
			"transaction_id": id,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		return errs.ErrTransactionNotFound
	}

	r.logger.Info("Transaction deleted", map[string]any{"transaction_id": id})
	return nil
}

// GetByID retrieves a transaction by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, id uint64) (*entity.Transaction, error) {
	var txModel model.Transaction
	result := r.db.WithContext(ctx).First(&txModel, id)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		r.logger.Error("Failed to get transaction", map[string]any{
			"transaction_id": id,
			"error":          result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return modelToEntity(&txModel), nil
}

// List retrieves transactions matching the filter, paired with their stored
// gain fields, ordered by date ascending
func (r *TransactionRepository) List(ctx context.Context, filter persistence.TransactionFilter) ([]persistence.TransactionRecord, error) {
	query := r.db.WithContext(ctx).Model(&model.Transaction{})

	if filter.Asset != "" {
		query = query.Where("from_asset = ? OR to_asset = ?", filter.Asset, filter.Asset)
	}
	if filter.Chain != "" {
		query = query.Where("chain = ?", filter.Chain)
	}

	var models []model.Transaction
	result := query.Order("transaction_date ASC, id ASC").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	records := make([]persistence.TransactionRecord, 0, len(models))
	for i := range models {
		records = append(records, persistence.TransactionRecord{
			Transaction: modelToEntity(&models[i]),
			Gains:       modelToGainResult(&models[i]),
		})
	}
	return records, nil
}

// ListByDateAsc retrieves the full transaction set in replay order
func (r *TransactionRepository) ListByDateAsc(ctx context.Context) ([]*entity.Transaction, error) {
	var models []model.Transaction
	result := r.db.WithContext(ctx).
		Order("transaction_date ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	transactions := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		transactions = append(transactions, modelToEntity(&models[i]))
	}
	return transactions, nil
}

// ListBuysByDateAsc retrieves all BUY transactions in acquisition order
func (r *TransactionRepository) ListBuysByDateAsc(ctx context.Context) ([]*entity.Transaction, error) {
	var models []model.Transaction
	result := r.db.WithContext(ctx).
		Where("type = ?", string(entity.TypeBuy)).
		Order("transaction_date ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	transactions := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		transactions = append(transactions, modelToEntity(&models[i]))
	}
	return transactions, nil
}

// ListByTaxYear retrieves all transactions bucketed under the given tax year
func (r *TransactionRepository) ListByTaxYear(ctx context.Context, taxYear int) ([]persistence.TransactionRecord, error) {
	var models []model.Transaction
	result := r.db.WithContext(ctx).
		Where("tax_year = ?", taxYear).
		Order("transaction_date ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	records := make([]persistence.TransactionRecord, 0, len(models))
	for i := range models {
		records = append(records, persistence.TransactionRecord{
			Transaction: modelToEntity(&models[i]),
			Gains:       modelToGainResult(&models[i]),
		})
	}
	return records, nil
}

// SaveGainResult persists the computed gain fields and error annotation
// for one transaction
func (r *TransactionRepository) SaveGainResult(ctx context.Context, gains *entity.GainResult) error {
	updates := map[string]interface{}{
		"gain_error":              gains.Error,
		"short_term_gain_usd":     nil,
		"long_term_gain_usd":      nil,
		"short_term_gain_eur":     nil,
		"long_term_gain_eur":      nil,
		"gas_short_term_gain_usd": nil,
		"gas_long_term_gain_usd":  nil,
		"gas_short_term_gain_eur": nil,
		"gas_long_term_gain_eur":  nil,
	}

	if gains.Primary != nil {
		updates["short_term_gain_usd"] = gains.Primary.ShortTermUSD
		updates["long_term_gain_usd"] = gains.Primary.LongTermUSD
		updates["short_term_gain_eur"] = gains.Primary.ShortTermEUR
		updates["long_term_gain_eur"] = gains.Primary.LongTermEUR
	}
	if gains.Gas != nil {
		updates["gas_short_term_gain_usd"] = gains.Gas.ShortTermUSD
		updates["gas_long_term_gain_usd"] = gains.Gas.LongTermUSD
		updates["gas_short_term_gain_eur"] = gains.Gas.ShortTermEUR
		updates["gas_long_term_gain_eur"] = gains.Gas.LongTermEUR
	}

	result := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("id = ?", gains.TransactionID).
		Updates(updates)

	if result.Error != nil {
		r.logger.Error("Failed to save gain result", map[string]any{
			"transaction_id": gains.TransactionID,
			"error":          result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		return errs.ErrTransactionNotFound
	}

	return nil
}

// GetGainResult retrieves the stored gain fields for one transaction
func (r *TransactionRepository) GetGainResult(ctx context.Context, transactionID uint64) (*entity.GainResult, error) {
	var txModel model.Transaction
	result := r.db.WithContext(ctx).First(&txModel, transactionID)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return modelToGainResult(&txModel), nil
}
