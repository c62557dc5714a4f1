package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockPriceOracle is a mock implementation of the core.PriceOracle interface
type MockPriceOracle struct {
	mock.Mock
}

func (m *MockPriceOracle) Price(ctx context.Context, asset string, at time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, asset, at)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockRateOracle is a mock implementation of the core.RateOracle interface
type MockRateOracle struct {
	mock.Mock
}

func (m *MockRateOracle) Rate(ctx context.Context, base, target string, date time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, base, target, date)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
