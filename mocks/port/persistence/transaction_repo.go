package persistence

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
	"github.com/cryptofolio/gains-processor/internal/domain/port/persistence"
)

// MockTransactionRepository is a mock implementation of the
// persistence.TransactionRepository interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) Update(ctx context.Context, transaction *entity.Transaction) error {
	args := m.Called(ctx, transaction)
	return args.Error(0)
}

func (m *MockTransactionRepository) Delete(ctx context.Context, id uint64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, id uint64) (*entity.Transaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) List(ctx context.Context, filter persistence.TransactionFilter) ([]persistence.TransactionRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]persistence.TransactionRecord), args.Error(1)
}

func (m *MockTransactionRepository) ListByDateAsc(ctx context.Context) ([]*entity.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListBuysByDateAsc(ctx context.Context) ([]*entity.Transaction, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListByTaxYear(ctx context.Context, taxYear int) ([]persistence.TransactionRecord, error) {
	args := m.Called(ctx, taxYear)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]persistence.TransactionRecord), args.Error(1)
}

func (m *MockTransactionRepository) SaveGainResult(ctx context.Context, result *entity.GainResult) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetGainResult(ctx context.Context, transactionID uint64) (*entity.GainResult, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.GainResult), args.Error(1)
}
