package dto

import (
	"github.com/cryptofolio/gains-processor/internal/domain/entity"
	"github.com/cryptofolio/gains-processor/internal/domain/port/usecase"
)

// RecalculateRequest selects an optional tax year for report generation.
// Zero means recalculate only, no report.
type RecalculateRequest struct {
	TaxYear int `json:"taxYear"`
}

// RecalculationResponse summarizes a completed recalculation pass
type RecalculationResponse struct {
	TransactionsProcessed int `json:"transactionsProcessed"`
	AllocationErrors      int `json:"allocationErrors"`
	LotsCreated           int `json:"lotsCreated"`
}

// FromRecalculationResult builds the response for a finished pass
func FromRecalculationResult(result *usecase.RecalculationResult) RecalculationResponse {
	return RecalculationResponse{
		TransactionsProcessed: result.TransactionsProcessed,
		AllocationErrors:      result.AllocationErrors,
		LotsCreated:           result.LotsCreated,
	}
}

// SummaryResponse represents one tax year's aggregate figures
type SummaryResponse struct {
	TaxYear             int    `json:"taxYear"`
	TotalShortTermGains string `json:"totalShortTermGains"`
	TotalLongTermGains  string `json:"totalLongTermGains"`
	TotalStakingRewards string `json:"totalStakingRewards"`
	TotalAirdrops       string `json:"totalAirdrops"`
	TotalGasFees        string `json:"totalGasFees"`
	NetGainUSD          string `json:"netGainUsd"`
}

// FromSummary builds a response from a summary entity
func FromSummary(summary *entity.GainsSummary) SummaryResponse {
	return SummaryResponse{
		TaxYear:             summary.TaxYear,
		TotalShortTermGains: summary.TotalShortTermGains.String(),
		TotalLongTermGains:  summary.TotalLongTermGains.String(),
		TotalStakingRewards: summary.TotalStakingRewards.String(),
		TotalAirdrops:       summary.TotalAirdrops.String(),
		TotalGasFees:        summary.TotalGasFees.String(),
		NetGainUSD:          summary.NetGainUSD.String(),
	}
}
