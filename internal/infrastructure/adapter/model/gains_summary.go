package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// GainsSummary represents the database model for per-tax-year aggregates.
// One row per year, replaced on every summary update.
type GainsSummary struct {
	ID                  uint64          `gorm:"primaryKey;autoIncrement"`
	TaxYear             int             `gorm:"uniqueIndex;not null"`
	TotalShortTermGains decimal.Decimal `gorm:"type:numeric(38,18);not null"`
	TotalLongTermGains  decimal.Decimal `gorm:"type:numeric(38,18);not null"`
	TotalStakingRewards decimal.Decimal `gorm:"type:numeric(38,18);not null"`
	TotalAirdrops       decimal.Decimal `gorm:"type:numeric(38,18);not null"`
	TotalGasFees        decimal.Decimal `gorm:"type:numeric(38,18);not null"`
	NetGainUSD          decimal.Decimal `gorm:"type:numeric(38,18);not null"`
	UpdatedAt           time.Time       `gorm:"not null"`
}

// TableName specifies the table name for GainsSummary
func (GainsSummary) TableName() string {
	return "gains_summaries"
}
