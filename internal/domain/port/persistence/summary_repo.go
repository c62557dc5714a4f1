package persistence

import (
	"context"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
)

// GainsSummaryRepository stores the per-tax-year aggregate rows
type GainsSummaryRepository interface {
	// Upsert creates or replaces the summary row for its tax year.
	// Running it twice with the same input leaves one row per year.
	Upsert(ctx context.Context, summary *entity.GainsSummary) error

	// GetByYear retrieves the summary for one tax year
	//
	// Possible errors:
	// - ErrSummaryNotFound: if no summary exists for the year
	// - ErrDatabaseConnection: if database connection fails
	GetByYear(ctx context.Context, taxYear int) (*entity.GainsSummary, error)

	// ListAll retrieves every summary row ordered by tax year ascending
	ListAll(ctx context.Context) ([]*entity.GainsSummary, error)
}
