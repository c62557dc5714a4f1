package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents the database model for transactions.
// The gain columns at the bottom are computed fields written by the
// recalculation pass; NULL means the pass has not touched the row or the
// matching disposal failed allocation.
type Transaction struct {
	ID                uint64          `gorm:"primaryKey;autoIncrement"`
	Chain             string          `gorm:"not null;size:50;index"`
	Type              string          `gorm:"not null;size:20;index"`
	TransactionDate   time.Time       `gorm:"not null;index"`
	TaxYear           int             `gorm:"not null;index"`
	FromAsset         string          `gorm:"size:50;index"`
	FromAmount        decimal.Decimal `gorm:"type:numeric(38,18)"`
	FromAssetPriceUSD decimal.Decimal `gorm:"type:numeric(38,18)"`
	FromAssetPriceEUR decimal.Decimal `gorm:"type:numeric(38,18)"`
	ToAsset           string          `gorm:"size:50;index"`
	ToAmount          decimal.Decimal `gorm:"type:numeric(38,18)"`
	ToAssetCostBasis  decimal.Decimal `gorm:"type:numeric(38,18)"`
	GasFees           decimal.Decimal `gorm:"type:numeric(38,18)"`
	GasAsset          string          `gorm:"size:50"`
	GasAssetPriceUSD  decimal.Decimal `gorm:"type:numeric(38,18)"`
	Note              string          `gorm:"type:text"`
	CreatedAt         time.Time       `gorm:"not null"`
	UpdatedAt         time.Time       `gorm:"not null"`

	ShortTermGainUSD    *decimal.Decimal `gorm:"type:numeric(38,18)"`
	LongTermGainUSD     *decimal.Decimal `gorm:"type:numeric(38,18)"`
	ShortTermGainEUR    *decimal.Decimal `gorm:"type:numeric(38,18)"`
	LongTermGainEUR     *decimal.Decimal `gorm:"type:numeric(38,18)"`
	GasShortTermGainUSD *decimal.Decimal `gorm:"type:numeric(38,18)"`
	GasLongTermGainUSD  *decimal.Decimal `gorm:"type:numeric(38,18)"`
	GasShortTermGainEUR *decimal.Decimal `gorm:"type:numeric(38,18)"`
	GasLongTermGainEUR  *decimal.Decimal `gorm:"type:numeric(38,18)"`
	GainError           string           `gorm:"type:text"`
}

// TableName specifies the table name for Transaction
func (Transaction) TableName() string {
	return "transactions"
}
