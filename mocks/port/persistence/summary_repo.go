package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
)

// MockGainsSummaryRepository is a mock implementation of the
// persistence.GainsSummaryRepository interface
type MockGainsSummaryRepository struct {
	mock.Mock
}

func (m *MockGainsSummaryRepository) Upsert(ctx context.Context, summary *entity.GainsSummary) error {
	args := m.Called(ctx, summary)
	return args.Error(0)
}

func (m *MockGainsSummaryRepository) GetByYear(ctx context.Context, taxYear int) (*entity.GainsSummary, error) {
	args := m.Called(ctx, taxYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GainsSummary), args.Error(1)
}

func (m *MockGainsSummaryRepository) ListAll(ctx context.Context) ([]*entity.GainsSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.GainsSummary), args.Error(1)
}
