package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
	errs "github.com/cryptofolio/gains-processor/internal/domain/error"
	coreport "github.com/cryptofolio/gains-processor/internal/domain/port/core"
)

// Kraken trade exports carry timestamps with fractional seconds, but manual
// exports sometimes drop them.
var krakenTimeLayouts = []string{
	"2006-01-02 15:04:05.999999",
	"2006-01-02 15:04:05",
}

var one = decimal.NewFromInt(1)

// KrakenImporter parses Kraken trade-history CSV exports into transactions.
// Kraken trades settle against fiat, so the fiat side of each pair is priced
// through the FX oracle.
type KrakenImporter struct {
	rates  coreport.RateOracle
	logger coreport.Logger
}

// NewKrakenImporter creates a new Kraken CSV importer
func NewKrakenImporter(rates coreport.RateOracle, logger coreport.Logger) *KrakenImporter {
	return &KrakenImporter{
		rates:  rates,
		logger: logger,
	}
}

// Parse reads a Kraken trade-history CSV and returns the transactions it
// describes. Fiat-to-fiat pairs and unsupported row types are skipped.
func (i *KrakenImporter) Parse(ctx context.Context, r io.Reader) ([]*entity.Transaction, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %s", errs.ErrInvalidRequest, err)
	}

	columns := make(map[string]int, len(header))
	for idx, name := range header {
		columns[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	for _, required := range []string{"pair", "type", "time", "cost", "vol", "price", "fee"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("%w: CSV is missing column %q", errs.ErrInvalidRequest, required)
		}
	}

	var transactions []*entity.Transaction
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read CSV row: %s", errs.ErrInvalidRequest, err)
		}

		tx, err := i.parseRow(ctx, row, columns)
		if err != nil {
			return nil, err
		}
		if tx != nil {
			transactions = append(transactions, tx)
		}
	}

	i.logger.Info("Parsed Kraken CSV", map[string]any{
		"transactions": len(transactions),
	})
	return transactions, nil
}

// parseRow converts one trade row into a transaction. Returns (nil, nil) for
// rows that are skipped rather than failed.
func (i *KrakenImporter) parseRow(ctx context.Context, row []string, columns map[string]int) (*entity.Transaction, error) {
	pair := row[columns["pair"]]
	assets := strings.Split(pair, "/")
	if len(assets) != 2 {
		i.logger.Warn("Skipping row with invalid pair format", map[string]any{"pair": pair})
		return nil, nil
	}
	asset1, asset2 := assets[0], assets[1]

	if isFiat(asset1) && isFiat(asset2) {
		i.logger.Debug("Skipping fiat pair", map[string]any{"pair": pair})
		return nil, nil
	}

	txDate, err := parseKrakenTime(row[columns["time"]])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid trade time %q", errs.ErrInvalidRequest, row[columns["time"]])
	}

	cost, err := decimal.NewFromString(row[columns["cost"]])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid cost %q", errs.ErrInvalidAmount, row[columns["cost"]])
	}
	vol, err := decimal.NewFromString(row[columns["vol"]])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid volume %q", errs.ErrInvalidAmount, row[columns["vol"]])
	}
	price, err := decimal.NewFromString(row[columns["price"]])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid price %q", errs.ErrInvalidAmount, row[columns["price"]])
	}
	fee, err := decimal.NewFromString(row[columns["fee"]])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid fee %q", errs.ErrInvalidAmount, row[columns["fee"]])
	}

	tx := &entity.Transaction{
		Chain:           entity.DefaultChain,
		TransactionDate: txDate,
		TaxYear:         txDate.Year(),
		GasFees:         fee,
	}

	switch strings.ToLower(row[columns["type"]]) {
	case "buy":
		// Buying asset1 with asset2
		tx.Type = entity.TypeBuy
		tx.FromAsset = asset2
		tx.FromAmount = cost
		tx.ToAsset = asset1
		tx.ToAmount = vol
		tx.GasAsset = asset2

		if err := i.priceBuySide(ctx, tx, asset2, price, txDate); err != nil {
			return nil, err
		}

	case "sell":
		// Selling asset1 for asset2
		tx.Type = entity.TypeSell
		tx.FromAsset = asset1
		tx.FromAmount = vol
		tx.ToAsset = asset2
		tx.ToAmount = cost
		tx.GasAsset = asset2

		if err := i.priceSellSide(ctx, tx, asset2, price, txDate); err != nil {
			return nil, err
		}

	default:
		i.logger.Warn("Skipping unsupported trade type", map[string]any{
			"type": row[columns["type"]],
			"pair": pair,
		})
		return nil, nil
	}

	return tx, nil
}

// priceBuySide fills the price fields of a BUY, where the FROM side is the
// fiat currency spent
func (i *KrakenImporter) priceBuySide(ctx context.Context, tx *entity.Transaction, fiat string, price decimal.Decimal, txDate time.Time) error {
	switch fiat {
	case "USD":
		usdToEUR, err := i.rates.Rate(ctx, "USD", "EUR", txDate)
		if err != nil {
			return err
		}
		tx.FromAssetPriceUSD = one
		tx.FromAssetPriceEUR = usdToEUR
		tx.ToAssetCostBasis = price
	case "EUR":
		usdToEUR, err := i.rates.Rate(ctx, "USD", "EUR", txDate)
		if err != nil {
			return err
		}
		eurToUSD := one.Div(usdToEUR)
		tx.FromAssetPriceUSD = eurToUSD
		tx.FromAssetPriceEUR = one
		tx.ToAssetCostBasis = price.Mul(eurToUSD)
	default:
		i.logger.Warn("Non-fiat quote asset in buy, prices left unset", map[string]any{
			"asset": fiat,
		})
	}
	return nil
}

// priceSellSide fills the price fields of a SELL, where the TO side is the
// fiat currency received
func (i *KrakenImporter) priceSellSide(ctx context.Context, tx *entity.Transaction, fiat string, price decimal.Decimal, txDate time.Time) error {
	switch fiat {
	case "USD":
		usdToEUR, err := i.rates.Rate(ctx, "USD", "EUR", txDate)
		if err != nil {
			return err
		}
		tx.FromAssetPriceUSD = price
		tx.FromAssetPriceEUR = price.Mul(usdToEUR)
		tx.ToAssetCostBasis = one
	case "EUR":
		usdToEUR, err := i.rates.Rate(ctx, "USD", "EUR", txDate)
		if err != nil {
			return err
		}
		eurToUSD := one.Div(usdToEUR)
		tx.FromAssetPriceUSD = price.Mul(eurToUSD)
		tx.FromAssetPriceEUR = price
		tx.ToAssetCostBasis = eurToUSD
	default:
		i.logger.Warn("Non-fiat quote asset in sell, prices left unset", map[string]any{
			"asset": fiat,
		})
	}
	return nil
}

func parseKrakenTime(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range krakenTimeLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func isFiat(asset string) bool {
	return asset == "USD" || asset == "EUR"
}
