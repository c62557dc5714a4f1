package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
	errs "github.com/cryptofolio/gains-processor/internal/domain/error"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/logger"
	mockcore "github.com/cryptofolio/gains-processor/mocks/port/core"
)

const krakenHeader = "txid,ordertxid,pair,time,type,ordertype,price,cost,fee,vol\n"

func newKrakenImporter(t *testing.T) (*KrakenImporter, *mockcore.MockRateOracle) {
	t.Helper()
	rates := new(mockcore.MockRateOracle)
	return NewKrakenImporter(rates, logger.NewNoopLogger()), rates
}

func TestKrakenImporter_Parse(t *testing.T) {
	ctx := context.Background()

	t.Run("buy trade is oriented to acquire the base asset", func(t *testing.T) {
		importer, rates := newKrakenImporter(t)
		rates.On("Rate", mock.Anything, "USD", "EUR", mock.Anything).
			Return(decimal.RequireFromString("0.92"), nil)

		csv := krakenHeader +
			"T1,O1,ETH/USD,2024-03-04 12:00:00.000000,buy,market,3400.00,1700.00,2.50,0.5\n"

		txs, err := importer.Parse(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, txs, 1)

		tx := txs[0]
		assert.Equal(t, entity.TypeBuy, tx.Type)
		assert.Equal(t, "USD", tx.FromAsset)
		assert.True(t, tx.FromAmount.Equal(decimal.RequireFromString("1700")))
		assert.Equal(t, "ETH", tx.ToAsset)
		assert.True(t, tx.ToAmount.Equal(decimal.RequireFromString("0.5")))
		assert.Equal(t, "USD", tx.GasAsset)
		assert.True(t, tx.GasFees.Equal(decimal.RequireFromString("2.5")))
		assert.Equal(t, 2024, tx.TaxYear)

		// USD is priced at 1, the unit cost basis of ETH is the trade price
		assert.True(t, tx.FromAssetPriceUSD.Equal(decimal.NewFromInt(1)))
		assert.True(t, tx.FromAssetPriceEUR.Equal(decimal.RequireFromString("0.92")))
		assert.True(t, tx.ToAssetCostBasis.Equal(decimal.RequireFromString("3400")))
	})

	t.Run("sell trade disposes the base asset", func(t *testing.T) {
		importer, rates := newKrakenImporter(t)
		rates.On("Rate", mock.Anything, "USD", "EUR", mock.Anything).
			Return(decimal.RequireFromString("0.9"), nil)

		csv := krakenHeader +
			"T2,O2,ETH/USD,2024-06-01 08:30:00,sell,limit,3600.00,1800.00,3.00,0.5\n"

		txs, err := importer.Parse(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, txs, 1)

		tx := txs[0]
		assert.Equal(t, entity.TypeSell, tx.Type)
		assert.Equal(t, "ETH", tx.FromAsset)
		assert.True(t, tx.FromAmount.Equal(decimal.RequireFromString("0.5")))
		assert.Equal(t, "USD", tx.ToAsset)
		assert.True(t, tx.ToAmount.Equal(decimal.RequireFromString("1800")))

		// Disposal proceeds are the trade price per unit
		assert.True(t, tx.FromAssetPriceUSD.Equal(decimal.RequireFromString("3600")))
		assert.True(t, tx.FromAssetPriceEUR.Equal(decimal.RequireFromString("3240")))
		assert.True(t, tx.ToAssetCostBasis.Equal(decimal.NewFromInt(1)))
	})

	t.Run("eur-quoted buy converts prices through the rate oracle", func(t *testing.T) {
		importer, rates := newKrakenImporter(t)
		rates.On("Rate", mock.Anything, "USD", "EUR", mock.Anything).
			Return(decimal.RequireFromString("0.8"), nil)

		csv := krakenHeader +
			"T3,O3,BTC/EUR,2024-03-04 12:00:00,buy,market,40000,4000,5,0.1\n"

		txs, err := importer.Parse(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, txs, 1)

		tx := txs[0]
		// 1 EUR = 1/0.8 = 1.25 USD
		assert.True(t, tx.FromAssetPriceUSD.Equal(decimal.RequireFromString("1.25")))
		assert.True(t, tx.FromAssetPriceEUR.Equal(decimal.NewFromInt(1)))
		assert.True(t, tx.ToAssetCostBasis.Equal(decimal.RequireFromString("50000")))
	})

	t.Run("fiat pairs and unsupported types are skipped", func(t *testing.T) {
		importer, rates := newKrakenImporter(t)
		rates.On("Rate", mock.Anything, "USD", "EUR", mock.Anything).
			Return(decimal.RequireFromString("0.92"), nil)

		csv := krakenHeader +
			"T4,O4,EUR/USD,2024-03-04 12:00:00,buy,market,1.08,108,0,100\n" +
			"T5,O5,ETHUSD,2024-03-04 12:00:00,buy,market,3400,1700,2.5,0.5\n" +
			"T6,O6,ETH/USD,2024-03-04 12:00:00,margin,market,3400,1700,2.5,0.5\n" +
			"T7,O7,ETH/USD,2024-03-04 12:00:00,buy,market,3400,1700,2.5,0.5\n"

		txs, err := importer.Parse(ctx, strings.NewReader(csv))
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "ETH", txs[0].ToAsset)
	})

	t.Run("missing required column fails", func(t *testing.T) {
		importer, _ := newKrakenImporter(t)

		csv := "txid,pair,time,type,cost,vol,price\nT1,ETH/USD,2024-03-04 12:00:00,buy,1700,0.5,3400\n"

		_, err := importer.Parse(ctx, strings.NewReader(csv))
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})

	t.Run("invalid amounts fail the import", func(t *testing.T) {
		importer, _ := newKrakenImporter(t)

		csv := krakenHeader +
			"T1,O1,ETH/USD,2024-03-04 12:00:00,buy,market,3400,not-a-number,2.5,0.5\n"

		_, err := importer.Parse(ctx, strings.NewReader(csv))
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("invalid trade time fails the import", func(t *testing.T) {
		importer, _ := newKrakenImporter(t)

		csv := krakenHeader +
			"T1,O1,ETH/USD,yesterday,buy,market,3400,1700,2.5,0.5\n"

		_, err := importer.Parse(ctx, strings.NewReader(csv))
		assert.ErrorIs(t, err, errs.ErrInvalidRequest)
	})
}
