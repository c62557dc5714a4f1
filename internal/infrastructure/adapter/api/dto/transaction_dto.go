package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
	errs "github.com/cryptofolio/gains-processor/internal/domain/error"
	"github.com/cryptofolio/gains-processor/internal/domain/port/usecase"
)

// Accepted transaction date formats, RFC 3339 first
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// TransactionRequest represents the API request for creating or updating a
// transaction. Amounts travel as strings and are parsed into exact decimals.
type TransactionRequest struct {
	Chain             string `json:"chain"`
	Type              string `json:"type" binding:"required"`
	TransactionDate   string `json:"transactionDate" binding:"required"`
	FromAsset         string `json:"fromAsset"`
	FromAmount        string `json:"fromAmount"`
	FromAssetPriceUSD string `json:"fromAssetPriceUsd"`
	FromAssetPriceEUR string `json:"fromAssetPriceEur"`
	ToAsset           string `json:"toAsset"`
	ToAmount          string `json:"toAmount"`
	ToAssetCostBasis  string `json:"toAssetCostBasis"`
	GasFees           string `json:"gasFees"`
	GasAsset          string `json:"gasAsset"`
	GasAssetPriceUSD  string `json:"gasAssetPriceUsd"`
	Note              string `json:"note"`
}

// ToEntity converts the request into a domain transaction
func (r *TransactionRequest) ToEntity() (*entity.Transaction, error) {
	txDate, err := parseDate(r.TransactionDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid transaction date %q", errs.ErrInvalidRequest, r.TransactionDate)
	}

	tx, err := entity.NewTransaction(r.Type, r.Chain, txDate)
	if err != nil {
		return nil, err
	}

	tx.FromAsset = r.FromAsset
	tx.ToAsset = r.ToAsset
	tx.GasAsset = r.GasAsset
	tx.Note = r.Note

	fields := []struct {
		raw  string
		dest *decimal.Decimal
		name string
	}{
		{r.FromAmount, &tx.FromAmount, "fromAmount"},
		{r.FromAssetPriceUSD, &tx.FromAssetPriceUSD, "fromAssetPriceUsd"},
		{r.FromAssetPriceEUR, &tx.FromAssetPriceEUR, "fromAssetPriceEur"},
		{r.ToAmount, &tx.ToAmount, "toAmount"},
		{r.ToAssetCostBasis, &tx.ToAssetCostBasis, "toAssetCostBasis"},
		{r.GasFees, &tx.GasFees, "gasFees"},
		{r.GasAssetPriceUSD, &tx.GasAssetPriceUSD, "gasAssetPriceUsd"},
	}
	for _, field := range fields {
		if field.raw == "" {
			continue
		}
		value, err := decimal.NewFromString(field.raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid %s %q", errs.ErrInvalidAmount, field.name, field.raw)
		}
		*field.dest = value
	}

	return tx, nil
}

func parseDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// GainFiguresResponse carries one disposal's computed gains
type GainFiguresResponse struct {
	ShortTermUSD string `json:"shortTermUsd"`
	LongTermUSD  string `json:"longTermUsd"`
	ShortTermEUR string `json:"shortTermEur"`
	LongTermEUR  string `json:"longTermEur"`
}

// TransactionResponse represents a transaction in API responses, annotated
// with its stored gains and the consistency pre-check
type TransactionResponse struct {
	ID                uint64               `json:"id"`
	Chain             string               `json:"chain"`
	Type              string               `json:"type"`
	TransactionDate   string               `json:"transactionDate"`
	TaxYear           int                  `json:"taxYear"`
	FromAsset         string               `json:"fromAsset,omitempty"`
	FromAmount        string               `json:"fromAmount"`
	FromAssetPriceUSD string               `json:"fromAssetPriceUsd"`
	FromAssetPriceEUR string               `json:"fromAssetPriceEur"`
	ToAsset           string               `json:"toAsset,omitempty"`
	ToAmount          string               `json:"toAmount"`
	ToAssetCostBasis  string               `json:"toAssetCostBasis"`
	GasFees           string               `json:"gasFees"`
	GasAsset          string               `json:"gasAsset,omitempty"`
	GasAssetPriceUSD  string               `json:"gasAssetPriceUsd"`
	Note              string               `json:"note,omitempty"`
	Gains             *GainFiguresResponse `json:"gains,omitempty"`
	GasGains          *GainFiguresResponse `json:"gasGains,omitempty"`
	GainError         string               `json:"gainError,omitempty"`
	CheckError        string               `json:"checkError,omitempty"`
}

// FromEntity builds a response from a bare transaction
func FromEntity(tx *entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                tx.ID,
		Chain:             tx.Chain,
		Type:              string(tx.Type),
		TransactionDate:   tx.TransactionDate.Format(time.RFC3339),
		TaxYear:           tx.TaxYear,
		FromAsset:         tx.FromAsset,
		FromAmount:        tx.FromAmount.String(),
		FromAssetPriceUSD: tx.FromAssetPriceUSD.String(),
		FromAssetPriceEUR: tx.FromAssetPriceEUR.String(),
		ToAsset:           tx.ToAsset,
		ToAmount:          tx.ToAmount.String(),
		ToAssetCostBasis:  tx.ToAssetCostBasis.String(),
		GasFees:           tx.GasFees.String(),
		GasAsset:          tx.GasAsset,
		GasAssetPriceUSD:  tx.GasAssetPriceUSD.String(),
		Note:              tx.Note,
	}
}

// FromView builds a response from an annotated transaction listing row
func FromView(view *usecase.TransactionView) TransactionResponse {
	resp := FromEntity(view.Transaction)
	resp.CheckError = view.CheckError

	if view.Gains != nil {
		resp.GainError = view.Gains.Error
		resp.Gains = gainFigures(view.Gains.Primary)
		resp.GasGains = gainFigures(view.Gains.Gas)
	}
	return resp
}

func gainFigures(figures *entity.GainFigures) *GainFiguresResponse {
	if figures == nil {
		return nil
	}
	return &GainFiguresResponse{
		ShortTermUSD: figures.ShortTermUSD.String(),
		LongTermUSD:  figures.LongTermUSD.String(),
		ShortTermEUR: figures.ShortTermEUR.String(),
		LongTermEUR:  figures.LongTermEUR.String(),
	}
}
