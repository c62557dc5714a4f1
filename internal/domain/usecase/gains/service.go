package gains

import (
	"sync"

	coreport "github.com/cryptofolio/gains-processor/internal/domain/port/core"
	"github.com/cryptofolio/gains-processor/internal/domain/port/persistence"
	"github.com/cryptofolio/gains-processor/internal/domain/port/usecase"
)

// Base and reporting currencies for gain figures
const (
	BaseCurrency      = "USD"
	ReportingCurrency = "EUR"
)

// Service implements the capital-gains engine: ledger rebuild, FIFO disposal
// allocation, gain classification, per-year aggregation and the tax-filing
// report. A recalculation is one sequential pass; the mutex serializes passes
// because the ledger-clear step must never interleave with a running pass.
type Service struct {
	txRepo      persistence.TransactionRepository
	lotRepo     persistence.LotRepository
	summaryRepo persistence.GainsSummaryRepository
	rates       coreport.RateOracle
	logger      coreport.Logger

	mu sync.Mutex
}

// NewGainsService creates a new gains engine instance
func NewGainsService(
	txRepo persistence.TransactionRepository,
	lotRepo persistence.LotRepository,
	summaryRepo persistence.GainsSummaryRepository,
	rates coreport.RateOracle,
	logger coreport.Logger,
) usecase.GainsUseCase {
	return &Service{
		txRepo:      txRepo,
		lotRepo:     lotRepo,
		summaryRepo: summaryRepo,
		rates:       rates,
		logger:      logger,
	}
}
