package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"

	errs "github.com/cryptofolio/gains-processor/internal/domain/error"
	coreport "github.com/cryptofolio/gains-processor/internal/domain/port/core"
)

const rateDateLayout = "2006-01-02"

// ECBRateOracle implements the RateOracle interface from a local snapshot of
// the ECB historical USD/EUR reference rates. Reference rates are published
// on business days only, so a lookup falls back to the nearest earlier date.
type ECBRateOracle struct {
	rates  map[string]decimal.Decimal // date string -> USD->EUR rate
	dates  []string                   // sorted ascending
	cache  *cache.Cache
	logger coreport.Logger
}

// ratesFile is the on-disk layout of the reference-rate snapshot
type ratesFile struct {
	Base   string                 `json:"base"`
	Target string                 `json:"target"`
	Rates  map[string]json.Number `json:"rates"`
}

// NewECBRateOracle loads the reference-rate snapshot from the given path
func NewECBRateOracle(path string, cacheTTL time.Duration, logger coreport.Logger) (coreport.RateOracle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rates file %s: %w", path, err)
	}

	var file ratesFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rates file %s: %w", path, err)
	}
	if len(file.Rates) == 0 {
		return nil, fmt.Errorf("rates file %s contains no rates", path)
	}

	rates := make(map[string]decimal.Decimal, len(file.Rates))
	dates := make([]string, 0, len(file.Rates))
	for date, raw := range file.Rates {
		rate, err := decimal.NewFromString(raw.String())
		if err != nil {
			return nil, fmt.Errorf("invalid rate %q for %s in %s: %w", raw.String(), date, path, err)
		}
		rates[date] = rate
		dates = append(dates, date)
	}
	sort.Strings(dates)

	logger.Info("Loaded FX reference rates", map[string]any{
		"file":  path,
		"rates": len(rates),
		"from":  dates[0],
		"to":    dates[len(dates)-1],
	})

	return &ECBRateOracle{
		rates:  rates,
		dates:  dates,
		cache:  cache.New(cacheTTL, 2*cacheTTL),
		logger: logger,
	}, nil
}

// Rate returns the multiplier converting base into target on the given date
func (o *ECBRateOracle) Rate(ctx context.Context, base, target string, date time.Time) (decimal.Decimal, error) {
	base = strings.ToUpper(base)
	target = strings.ToUpper(target)

	if base == target {
		return decimal.NewFromInt(1), nil
	}
	if base != "USD" || target != "EUR" {
		return decimal.Zero, fmt.Errorf("%w: unsupported rate pair %s/%s", errs.ErrOracleFailure, base, target)
	}

	day := date.UTC().Format(rateDateLayout)

	cacheKey := "rate:" + day
	if cached, found := o.cache.Get(cacheKey); found {
		return cached.(decimal.Decimal), nil
	}

	rate, err := o.nearestEarlierRate(day)
	if err != nil {
		return decimal.Zero, err
	}

	o.cache.SetDefault(cacheKey, rate)
	return rate, nil
}

// nearestEarlierRate resolves a date to its exact rate, or to the closest
// published rate before it
func (o *ECBRateOracle) nearestEarlierRate(day string) (decimal.Decimal, error) {
	if rate, ok := o.rates[day]; ok {
		return rate, nil
	}

	// Index of the first date after the requested day; the entry before it
	// is the nearest earlier published rate.
	idx := sort.SearchStrings(o.dates, day)
	if idx == 0 {
		return decimal.Zero, fmt.Errorf("%w: no USD/EUR rate at or before %s", errs.ErrOracleFailure, day)
	}

	fallback := o.dates[idx-1]
	o.logger.Debug("Rate date fallback", map[string]any{
		"requested": day,
		"used":      fallback,
	})
	return o.rates[fallback], nil
}
