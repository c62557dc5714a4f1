package usecase

import (
	"context"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
)

// RecalculationResult summarizes one full recalculation pass
type RecalculationResult struct {
	TransactionsProcessed int
	AllocationErrors      int
	LotsCreated           int
	ReportLines           []entity.ReportLine // Populated only when a tax year was selected
}

// GainsUseCase defines the capital-gains engine operations
type GainsUseCase interface {
	// Recalculate rebuilds the lot ledger from scratch and replays every
	// transaction in chronological order, computing per-transaction gain
	// fields. When selectedYear > 0 it also collects tax-filing report lines
	// for disposals in that year.
	//
	// Allocation failures are recorded per transaction and do not abort the
	// pass; oracle failures do.
	Recalculate(ctx context.Context, selectedYear int) (*RecalculationResult, error)

	// BuildReportCSV serializes report lines into the tax-filing CSV document
	BuildReportCSV(lines []entity.ReportLine) (string, error)

	// UpdateSummary recomputes and upserts the aggregate for one tax year
	UpdateSummary(ctx context.Context, taxYear int) (*entity.GainsSummary, error)

	// Summaries returns every per-year aggregate ordered by year
	Summaries(ctx context.Context) ([]*entity.GainsSummary, error)
}
