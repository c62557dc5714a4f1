package repository

import (
	"context"
	"fmt"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
	errs "github.com/cryptofolio/gains-processor/internal/domain/error"
	coreport "github.com/cryptofolio/gains-processor/internal/domain/port/core"
	"github.com/cryptofolio/gains-processor/internal/domain/port/persistence"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// LotRepository implements the LotRepository interface using GORM
type LotRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewLotRepository creates a new LotRepository instance
func NewLotRepository(db *gorm.DB, logger coreport.Logger) persistence.LotRepository {
	return &LotRepository{
		db:     db,
		logger: logger,
	}
}

// lotEntityToModel converts a lot entity to a database model
func lotEntityToModel(lot *entity.Lot) model.Lot {
	return model.Lot{
		ID:              lot.ID,
		TransactionID:   lot.TransactionID,
		AssetName:       lot.AssetName,
		RemainingAmount: lot.RemainingAmount,
		BuyPrice:        lot.BuyPrice,
		TransactionDate: lot.TransactionDate,
	}
}

// lotModelToEntity converts a lot model to an entity
func lotModelToEntity(m *model.Lot) *entity.Lot {
	return &entity.Lot{
		ID:              m.ID,
		TransactionID:   m.TransactionID,
		AssetName:       m.AssetName,
		RemainingAmount: m.RemainingAmount,
		BuyPrice:        m.BuyPrice,
		TransactionDate: m.TransactionDate,
	}
}

// DeleteAll removes every lot; the ledger-clear step of a rebuild
func (r *LotRepository) DeleteAll(ctx context.Context) error {
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.Lot{})
	if result.Error != nil {
		r.logger.Error("Failed to clear lot ledger", map[string]any{
			"error": result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	r.logger.Debug("Lot ledger cleared", map[string]any{
		"deleted": result.RowsAffected,
	})
	return nil
}

// CreateBatch inserts the rebuilt lots, preserving insertion order
func (r *LotRepository) CreateBatch(ctx context.Context, lots []*entity.Lot) error {
	if len(lots) == 0 {
		return nil
	}

	models := make([]model.Lot, 0, len(lots))
	for _, lot := range lots {
		models = append(models, lotEntityToModel(lot))
	}

	result := r.db.WithContext(ctx).Create(&models)
	if result.Error != nil {
		r.logger.Error("Failed to insert lots", map[string]any{
			"count": len(lots),
			"error": result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	// Propagate the generated IDs back to the entities
	for i := range models {
		lots[i].ID = models[i].ID
	}

	r.logger.Info("Lot ledger rebuilt", map[string]any{"lots": len(lots)})
	return nil
}

// ListByAssetDateAsc retrieves all lots for an asset in FIFO consumption order
func (r *LotRepository) ListByAssetDateAsc(ctx context.Context, asset string) ([]*entity.Lot, error) {
	var models []model.Lot
	result := r.db.WithContext(ctx).
		Where("asset_name = ?", asset).
		Order("transaction_date ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	lots := make([]*entity.Lot, 0, len(models))
	for i := range models {
		lots = append(lots, lotModelToEntity(&models[i]))
	}
	return lots, nil
}

// UpdateRemaining persists a lot's decremented remaining amount
func (r *LotRepository) UpdateRemaining(ctx context.Context, lot *entity.Lot) error {
	result := r.db.WithContext(ctx).Model(&model.Lot{}).
		Where("id = ?", lot.ID).
		Update("remaining_amount", lot.RemainingAmount)

	if result.Error != nil {
		r.logger.Error("Failed to update lot remaining amount", map[string]any{
			"lot_id": lot.ID,
			"error":  result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		return errs.ErrNotFound
	}

	return nil
}

// ListOpen retrieves all lots with a positive remaining amount
func (r *LotRepository) ListOpen(ctx context.Context) ([]*entity.Lot, error) {
	var models []model.Lot
	result := r.db.WithContext(ctx).
		Where("remaining_amount > 0").
		Order("asset_name ASC, transaction_date ASC, id ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	lots := make([]*entity.Lot, 0, len(models))
	for i := range models {
		lots = append(lots, lotModelToEntity(&models[i]))
	}
	return lots, nil
}
