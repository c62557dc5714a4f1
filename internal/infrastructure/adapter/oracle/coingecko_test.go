package oracle

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/cryptofolio/gains-processor/internal/domain/error"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/logger"
)

func TestCoinGeckoOracle_Price(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)

	t.Run("picks the point nearest to the requested time", func(t *testing.T) {
		var gotPath, gotCurrency string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotCurrency = r.URL.Query().Get("vs_currency")
			// Points 6h before, 1h after and 12h after the request time
			fmt.Fprintf(w, `{"prices": [[%d, 3400.0], [%d, 3450.5], [%d, 3600.0]]}`,
				at.Add(-6*time.Hour).UnixMilli(),
				at.Add(time.Hour).UnixMilli(),
				at.Add(12*time.Hour).UnixMilli(),
			)
		}))
		defer server.Close()

		oracle := NewCoinGeckoOracle(server.URL, time.Second, time.Minute, logger.NewNoopLogger())

		price, err := oracle.Price(ctx, "ETH", at)
		require.NoError(t, err)
		assert.True(t, price.Equal(decimal.RequireFromString("3450.5")), "got %s", price)
		assert.Equal(t, "/coins/ethereum/market_chart/range", gotPath)
		assert.Equal(t, "usd", gotCurrency)
	})

	t.Run("memoizes lookups per asset and day", func(t *testing.T) {
		requests := 0
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			fmt.Fprintf(w, `{"prices": [[%d, 42.0]]}`, at.UnixMilli())
		}))
		defer server.Close()

		oracle := NewCoinGeckoOracle(server.URL, time.Second, time.Minute, logger.NewNoopLogger())

		first, err := oracle.Price(ctx, "ATOM", at)
		require.NoError(t, err)
		second, err := oracle.Price(ctx, "ATOM", at.Add(3*time.Hour))
		require.NoError(t, err)

		assert.True(t, first.Equal(second))
		assert.Equal(t, 1, requests)
	})

	t.Run("unknown asset resolves without a request", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("unexpected request for unmapped asset")
		}))
		defer server.Close()

		oracle := NewCoinGeckoOracle(server.URL, time.Second, time.Minute, logger.NewNoopLogger())

		_, err := oracle.Price(ctx, "SHIBX", at)
		assert.ErrorIs(t, err, errs.ErrUnknownAsset)
	})

	t.Run("non-OK status is an oracle failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		oracle := NewCoinGeckoOracle(server.URL, time.Second, time.Minute, logger.NewNoopLogger())

		_, err := oracle.Price(ctx, "BTC", at)
		assert.ErrorIs(t, err, errs.ErrOracleFailure)
	})

	t.Run("empty price range is an oracle failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"prices": []}`)
		}))
		defer server.Close()

		oracle := NewCoinGeckoOracle(server.URL, time.Second, time.Minute, logger.NewNoopLogger())

		_, err := oracle.Price(ctx, "BTC", at)
		assert.ErrorIs(t, err, errs.ErrOracleFailure)
	})

	t.Run("unreachable price source is an oracle failure", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		oracle := NewCoinGeckoOracle(server.URL, time.Second, time.Minute, logger.NewNoopLogger())

		_, err := oracle.Price(ctx, "BTC", at)
		assert.ErrorIs(t, err, errs.ErrOracleFailure)
	})
}
