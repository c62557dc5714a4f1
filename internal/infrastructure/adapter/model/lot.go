package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot represents the database model for acquisition lots. Lots are a
// rebuildable projection of BUY transactions; deleting the owning
// transaction cascades to its lot.
type Lot struct {
	ID              uint64          `gorm:"primaryKey;autoIncrement"`
	TransactionID   uint64          `gorm:"not null;index"`
	AssetName       string          `gorm:"not null;size:50;index:idx_lots_asset_date"`
	RemainingAmount decimal.Decimal `gorm:"type:numeric(38,18);not null"`
	BuyPrice        decimal.Decimal `gorm:"type:numeric(38,18);not null"`
	TransactionDate time.Time       `gorm:"not null;index:idx_lots_asset_date"`

	Transaction Transaction `gorm:"foreignKey:TransactionID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for Lot
func (Lot) TableName() string {
	return "lots"
}
