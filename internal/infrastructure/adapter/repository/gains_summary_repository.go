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
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GainsSummaryRepository implements the GainsSummaryRepository interface using GORM
type GainsSummaryRepository struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewGainsSummaryRepository creates a new GainsSummaryRepository instance
func NewGainsSummaryRepository(db *gorm.DB, logger coreport.Logger) persistence.GainsSummaryRepository {
	return &GainsSummaryRepository{
		db:     db,
		logger: logger,
	}
}

func summaryEntityToModel(summary *entity.GainsSummary) model.GainsSummary {
	return model.GainsSummary{
		ID:                  summary.ID,
		TaxYear:             summary.TaxYear,
		TotalShortTermGains: summary.TotalShortTermGains,
		TotalLongTermGains:  summary.TotalLongTermGains,
		TotalStakingRewards: summary.TotalStakingRewards,
		TotalAirdrops:       summary.TotalAirdrops,
		TotalGasFees:        summary.TotalGasFees,
		NetGainUSD:          summary.NetGainUSD,
	}
}

func summaryModelToEntity(m *model.GainsSummary) *entity.GainsSummary {
	return &entity.GainsSummary{
		ID:                  m.ID,
		TaxYear:             m.TaxYear,
		TotalShortTermGains: m.TotalShortTermGains,
		TotalLongTermGains:  m.TotalLongTermGains,
		TotalStakingRewards: m.TotalStakingRewards,
		TotalAirdrops:       m.TotalAirdrops,
		TotalGasFees:        m.TotalGasFees,
		NetGainUSD:          m.NetGainUSD,
	}
}

// Upsert creates or replaces the summary row for its tax year
func (r *GainsSummaryRepository) Upsert(ctx context.Context, summary *entity.GainsSummary) error {
	summaryModel := summaryEntityToModel(summary)

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tax_year"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_short_term_gains",
			"total_long_term_gains",
			"total_staking_rewards",
			"total_airdrops",
			"total_gas_fees",
			"net_gain_usd",
			"updated_at",
		}),
	}).Create(&summaryModel)

	if result.Error != nil {
		r.logger.Error("Failed to upsert gains summary", map[string]any{
			"tax_year": summary.TaxYear,
			"error":    result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	summary.ID = summaryModel.ID

	r.logger.Info("Gains summary upserted", map[string]any{
		"tax_year": summary.TaxYear,
	})
	return nil
}

// GetByYear retrieves the summary for one tax year
func (r *GainsSummaryRepository) GetByYear(ctx context.Context, taxYear int) (*entity.GainsSummary, error) {
	var summaryModel model.GainsSummary
	result := r.db.WithContext(ctx).
		Where("tax_year = ?", taxYear).
		First(&summaryModel)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrSummaryNotFound
		}
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return summaryModelToEntity(&summaryModel), nil
}

// ListAll retrieves every summary row ordered by tax year ascending
func (r *GainsSummaryRepository) ListAll(ctx context.Context) ([]*entity.GainsSummary, error) {
	var models []model.GainsSummary
	result := r.db.WithContext(ctx).
		Order("tax_year ASC").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	summaries := make([]*entity.GainsSummary, 0, len(models))
	for i := range models {
		summaries = append(summaries, summaryModelToEntity(&models[i]))
	}
	return summaries, nil
}
