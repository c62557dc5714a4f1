package dto

import (
	"time"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
	"github.com/cryptofolio/gains-processor/internal/domain/port/usecase"
)

// LotResponse represents one open acquisition lot
type LotResponse struct {
	ID              uint64 `json:"id"`
	TransactionID   uint64 `json:"transactionId"`
	AssetName       string `json:"assetName"`
	RemainingAmount string `json:"remainingAmount"`
	BuyPrice        string `json:"buyPrice"`
	TransactionDate string `json:"transactionDate"`
}

// FromLot builds a response from a lot entity
func FromLot(lot *entity.Lot) LotResponse {
	return LotResponse{
		ID:              lot.ID,
		TransactionID:   lot.TransactionID,
		AssetName:       lot.AssetName,
		RemainingAmount: lot.RemainingAmount.String(),
		BuyPrice:        lot.BuyPrice.String(),
		TransactionDate: lot.TransactionDate.Format(time.RFC3339),
	}
}

// HoldingResponse groups the open lots of one asset with its total
type HoldingResponse struct {
	AssetName   string        `json:"assetName"`
	TotalAmount string        `json:"totalAmount"`
	Lots        []LotResponse `json:"lots"`
}

// FromHolding builds a response from a holdings view
func FromHolding(holding *usecase.HoldingView) HoldingResponse {
	lots := make([]LotResponse, 0, len(holding.Lots))
	for _, lot := range holding.Lots {
		lots = append(lots, FromLot(lot))
	}
	return HoldingResponse{
		AssetName:   holding.AssetName,
		TotalAmount: holding.TotalAmount,
		Lots:        lots,
	}
}
