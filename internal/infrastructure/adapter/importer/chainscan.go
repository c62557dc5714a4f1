package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
	errs "github.com/cryptofolio/gains-processor/internal/domain/error"
	coreport "github.com/cryptofolio/gains-processor/internal/domain/port/core"
)

// weiDigits converts wei amounts to whole ETH via a decimal shift
const weiDigits = 18

// ChainScanClient pulls normal-transaction lists from an Etherscan-compatible
// block explorer API (Etherscan, Basescan) and maps them into transactions.
type ChainScanClient struct {
	baseURL string
	apiKey  string
	chain   string
	client  *http.Client
	logger  coreport.Logger
}

// NewChainScanClient creates a client for one explorer endpoint. The chain
// label ("ETH", "BASE") tags the transactions it produces.
func NewChainScanClient(baseURL, apiKey, chain string, timeout time.Duration, logger coreport.Logger) *ChainScanClient {
	return &ChainScanClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		chain:   chain,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// txListResponse is the explorer txlist envelope. Status "1" means results,
// "0" with message "No transactions found" is an empty but valid answer.
type txListResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Result  []explorerTxn `json:"result"`
}

type explorerTxn struct {
	TimeStamp string `json:"timeStamp"`
	To        string `json:"to"`
	Value     string `json:"value"`
	GasUsed   string `json:"gasUsed"`
	GasPrice  string `json:"gasPrice"`
}

// FetchTransactions retrieves the address's normal transactions and maps each
// value transfer into a BUY (incoming) or SELL (outgoing) of the chain's
// native asset, with gasUsed x gasPrice as the gas fee.
func (c *ChainScanClient) FetchTransactions(ctx context.Context, address string) ([]*entity.Transaction, error) {
	query := url.Values{
		"module":     {"account"},
		"action":     {"txlist"},
		"address":    {address},
		"startblock": {"0"},
		"endblock":   {"99999999"},
		"sort":       {"asc"},
		"apikey":     {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrOracleFailure, err.Error())
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Explorer request failed", map[string]any{
			"chain": c.chain,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrOracleFailure, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: explorer returned status %d", errs.ErrOracleFailure, resp.StatusCode)
	}

	var payload txListResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %s", errs.ErrOracleFailure, err.Error())
	}

	if payload.Status != "1" {
		c.logger.Warn("Explorer returned no transactions", map[string]any{
			"chain":   c.chain,
			"message": payload.Message,
		})
		return nil, nil
	}

	transactions := make([]*entity.Transaction, 0, len(payload.Result))
	for _, raw := range payload.Result {
		tx, err := c.mapTransaction(raw, address)
		if err != nil {
			c.logger.Warn("Skipping unparseable explorer transaction", map[string]any{
				"chain": c.chain,
				"error": err.Error(),
			})
			continue
		}
		transactions = append(transactions, tx)
	}

	c.logger.Info("Fetched explorer transactions", map[string]any{
		"chain":        c.chain,
		"address":      address,
		"transactions": len(transactions),
	})
	return transactions, nil
}

func (c *ChainScanClient) mapTransaction(raw explorerTxn, address string) (*entity.Transaction, error) {
	unix, err := strconv.ParseInt(raw.TimeStamp, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid timestamp %q: %w", raw.TimeStamp, err)
	}
	txDate := time.Unix(unix, 0).UTC()

	value, err := decimal.NewFromString(raw.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", raw.Value, err)
	}
	gasUsed, err := decimal.NewFromString(raw.GasUsed)
	if err != nil {
		return nil, fmt.Errorf("invalid gasUsed %q: %w", raw.GasUsed, err)
	}
	gasPrice, err := decimal.NewFromString(raw.GasPrice)
	if err != nil {
		return nil, fmt.Errorf("invalid gasPrice %q: %w", raw.GasPrice, err)
	}

	amount := value.Shift(-weiDigits)
	gasFees := gasUsed.Mul(gasPrice).Shift(-weiDigits)

	tx := &entity.Transaction{
		Chain:           c.chain,
		TransactionDate: txDate,
		TaxYear:         txDate.Year(),
		GasFees:         gasFees,
		GasAsset:        "ETH",
	}

	// Zero-value rows are contract interactions that only burned gas
	if amount.IsZero() {
		tx.Type = entity.TypeApprove
		return tx, nil
	}

	// Incoming transfers acquire the native asset, outgoing ones dispose it
	if strings.EqualFold(raw.To, address) {
		tx.Type = entity.TypeBuy
		tx.ToAsset = "ETH"
		tx.ToAmount = amount
	} else {
		tx.Type = entity.TypeSell
		tx.FromAsset = "ETH"
		tx.FromAmount = amount
	}

	return tx, nil
}
