package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PriceOracle looks up the unit price of an asset in the base currency (USD)
// at a point in time. Implementations pick the data point nearest to the
// requested timestamp.
type PriceOracle interface {
	// Price returns the unit price of the asset in USD at the given time.
	//
	// Possible errors:
	// - ErrUnknownAsset: the asset has no price-source mapping (callers treat
	//   this as a soft failure and use a zero price)
	// - ErrOracleFailure: the lookup itself failed or returned no data
	Price(ctx context.Context, asset string, at time.Time) (decimal.Decimal, error)
}

// RateOracle looks up currency conversion rates for a calendar date.
type RateOracle interface {
	// Rate returns the multiplier converting base into target on the given
	// date. When no exact-date rate exists the oracle falls back to the
	// nearest available earlier rate.
	//
	// Possible errors:
	// - ErrOracleFailure: no rate is available at or before the date
	Rate(ctx context.Context, base, target string, date time.Time) (decimal.Decimal, error)
}
