package importer

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

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
	errs "github.com/cryptofolio/gains-processor/internal/domain/error"
	"github.com/cryptofolio/gains-processor/internal/infrastructure/adapter/logger"
)

const walletAddress = "0xAbCd000000000000000000000000000000000001"

func TestChainScanClient_FetchTransactions(t *testing.T) {
	ctx := context.Background()

	t.Run("maps incoming, outgoing and gas-only rows", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "txlist", r.URL.Query().Get("action"))
			assert.Equal(t, walletAddress, r.URL.Query().Get("address"))

			fmt.Fprint(w, `{
				"status": "1",
				"message": "OK",
				"result": [
					{"timeStamp": "1709553600", "to": "0xabcd000000000000000000000000000000000001", "value": "500000000000000000", "gasUsed": "21000", "gasPrice": "20000000000"},
					{"timeStamp": "1717230600", "to": "0x9999000000000000000000000000000000000002", "value": "250000000000000000", "gasUsed": "21000", "gasPrice": "30000000000"},
					{"timeStamp": "1717230700", "to": "0x9999000000000000000000000000000000000003", "value": "0", "gasUsed": "46000", "gasPrice": "25000000000"}
				]
			}`)
		}))
		defer server.Close()

		client := NewChainScanClient(server.URL, "key", "ETH", time.Second, logger.NewNoopLogger())

		txs, err := client.FetchTransactions(ctx, walletAddress)
		require.NoError(t, err)
		require.Len(t, txs, 3)

		incoming := txs[0]
		assert.Equal(t, entity.TypeBuy, incoming.Type)
		assert.Equal(t, "ETH", incoming.ToAsset)
		assert.True(t, incoming.ToAmount.Equal(decimal.RequireFromString("0.5")))
		assert.Equal(t, "ETH", incoming.GasAsset)
		assert.True(t, incoming.GasFees.Equal(decimal.RequireFromString("0.00042")))
		assert.Equal(t, 2024, incoming.TaxYear)
		assert.Equal(t, "ETH", incoming.Chain)

		outgoing := txs[1]
		assert.Equal(t, entity.TypeSell, outgoing.Type)
		assert.Equal(t, "ETH", outgoing.FromAsset)
		assert.True(t, outgoing.FromAmount.Equal(decimal.RequireFromString("0.25")))

		gasOnly := txs[2]
		assert.Equal(t, entity.TypeApprove, gasOnly.Type)
		assert.Empty(t, gasOnly.FromAsset)
		assert.Empty(t, gasOnly.ToAsset)
		assert.True(t, gasOnly.GasFees.Equal(decimal.RequireFromString("0.00115")))
	})

	t.Run("chain label tags the transactions", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{
				"status": "1",
				"message": "OK",
				"result": [
					{"timeStamp": "1709553600", "to": "0xabcd000000000000000000000000000000000001", "value": "1000000000000000000", "gasUsed": "21000", "gasPrice": "1000000000"}
				]
			}`)
		}))
		defer server.Close()

		client := NewChainScanClient(server.URL, "key", "BASE", time.Second, logger.NewNoopLogger())

		txs, err := client.FetchTransactions(ctx, walletAddress)
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, "BASE", txs[0].Chain)
	})

	t.Run("no transactions is an empty result, not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"status": "0", "message": "No transactions found", "result": []}`)
		}))
		defer server.Close()

		client := NewChainScanClient(server.URL, "key", "ETH", time.Second, logger.NewNoopLogger())

		txs, err := client.FetchTransactions(ctx, walletAddress)
		require.NoError(t, err)
		assert.Empty(t, txs)
	})

	t.Run("unparseable rows are skipped", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{
				"status": "1",
				"message": "OK",
				"result": [
					{"timeStamp": "not-a-timestamp", "to": "0x0", "value": "1", "gasUsed": "1", "gasPrice": "1"},
					{"timeStamp": "1709553600", "to": "0xabcd000000000000000000000000000000000001", "value": "1000000000000000000", "gasUsed": "21000", "gasPrice": "1000000000"}
				]
			}`)
		}))
		defer server.Close()

		client := NewChainScanClient(server.URL, "key", "ETH", time.Second, logger.NewNoopLogger())

		txs, err := client.FetchTransactions(ctx, walletAddress)
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Equal(t, entity.TypeBuy, txs[0].Type)
	})

	t.Run("non-OK explorer status fails", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := NewChainScanClient(server.URL, "key", "ETH", time.Second, logger.NewNoopLogger())

		_, err := client.FetchTransactions(ctx, walletAddress)
		assert.ErrorIs(t, err, errs.ErrOracleFailure)
	})
}
