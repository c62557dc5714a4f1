package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	errs "github.com/cryptofolio/gains-processor/internal/domain/error"
	coreport "github.com/cryptofolio/gains-processor/internal/domain/port/core"
)

// coinGeckoIDs maps asset symbols to CoinGecko coin identifiers. An asset
// missing from this table has no price source and resolves to ErrUnknownAsset.
var coinGeckoIDs = map[string]string{
	"ETH":  "ethereum",
	"BTC":  "bitcoin",
	"XRP":  "ripple",
	"USDT": "tether",
	"USDC": "usd-coin",
	"DOT":  "polkadot",
	"ADA":  "cardano",
	"ATOM": "cosmos",
	"TIA":  "celestia",
	"AERO": "aerodrome-finance",
}

// priceWindow is the span around the requested timestamp queried from the
// market chart. CoinGecko returns hourly points inside a two-day range.
const priceWindow = 24 * time.Hour

// CoinGeckoOracle implements the PriceOracle interface against the CoinGecko
// market chart API. Lookups are memoized per asset and day.
type CoinGeckoOracle struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
	logger  coreport.Logger
}

// NewCoinGeckoOracle creates a new CoinGecko-backed price oracle
func NewCoinGeckoOracle(baseURL string, timeout, cacheTTL time.Duration, logger coreport.Logger) coreport.PriceOracle {
	return &CoinGeckoOracle{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		cache:   cache.New(cacheTTL, 2*cacheTTL),
		logger:  logger,
	}
}

// marketChartResponse is the subset of the market_chart/range payload we use.
// Each price point is a [unix-milliseconds, price] pair.
type marketChartResponse struct {
	Prices [][2]float64 `json:"prices"`
}

// Price returns the unit price of the asset in USD nearest to the given time
func (o *CoinGeckoOracle) Price(ctx context.Context, asset string, at time.Time) (decimal.Decimal, error) {
	coinID, ok := coinGeckoIDs[asset]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrUnknownAsset, asset)
	}

	cacheKey := fmt.Sprintf("price:%s:%s", asset, at.UTC().Format("2006-01-02"))
	if cached, found := o.cache.Get(cacheKey); found {
		return cached.(decimal.Decimal), nil
	}

	price, err := o.fetchNearestPrice(ctx, coinID, at)
	if err != nil {
		return decimal.Zero, err
	}

	o.cache.SetDefault(cacheKey, price)

	o.logger.Debug("Price resolved", map[string]any{
		"asset": asset,
		"date":  at.UTC().Format("2006-01-02"),
		"price": price.String(),
	})
	return price, nil
}

// fetchNearestPrice queries the market chart one day either side of the
// timestamp and picks the point closest to it
func (o *CoinGeckoOracle) fetchNearestPrice(ctx context.Context, coinID string, at time.Time) (decimal.Decimal, error) {
	from := at.Add(-priceWindow).Unix()
	to := at.Add(priceWindow).Unix()

	endpoint := fmt.Sprintf("%s/coins/%s/market_chart/range?%s", o.baseURL, coinID, url.Values{
		"vs_currency": {"usd"},
		"from":        {fmt.Sprintf("%d", from)},
		"to":          {fmt.Sprintf("%d", to)},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrOracleFailure, err.Error())
	}

	resp, err := o.client.Do(req)
	if err != nil {
		o.logger.Error("Price lookup request failed", map[string]any{
			"coin":  coinID,
			"error": err.Error(),
		})
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrOracleFailure, err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		o.logger.Error("Price lookup returned non-OK status", map[string]any{
			"coin":   coinID,
			"status": resp.StatusCode,
		})
		return decimal.Zero, fmt.Errorf("%w: price source returned status %d", errs.ErrOracleFailure, resp.StatusCode)
	}

	var chart marketChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s", errs.ErrOracleFailure, err.Error())
	}

	if len(chart.Prices) == 0 {
		return decimal.Zero, fmt.Errorf("%w: no price points for %s in range", errs.ErrOracleFailure, coinID)
	}

	targetMs := float64(at.UnixMilli())
	best := chart.Prices[0]
	bestDistance := math.Abs(best[0] - targetMs)
	for _, point := range chart.Prices[1:] {
		if distance := math.Abs(point[0] - targetMs); distance < bestDistance {
			best = point
			bestDistance = distance
		}
	}

	return decimal.NewFromFloat(best[1]), nil
}
