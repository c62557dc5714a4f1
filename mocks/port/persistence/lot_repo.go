package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
)

// MockLotRepository is a mock implementation of the persistence.LotRepository interface
type MockLotRepository struct {
	mock.Mock
}

func (m *MockLotRepository) DeleteAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockLotRepository) CreateBatch(ctx context.Context, lots []*entity.Lot) error {
	args := m.Called(ctx, lots)
	return args.Error(0)
}

func (m *MockLotRepository) ListByAssetDateAsc(ctx context.Context, asset string) ([]*entity.Lot, error) {
	args := m.Called(ctx, asset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lot), args.Error(1)
}

func (m *MockLotRepository) UpdateRemaining(ctx context.Context, lot *entity.Lot) error {
	args := m.Called(ctx, lot)
	return args.Error(0)
}

func (m *MockLotRepository) ListOpen(ctx context.Context) ([]*entity.Lot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Lot), args.Error(1)
}
