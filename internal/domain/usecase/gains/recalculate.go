package gains

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
	errs "github.com/cryptofolio/gains-processor/internal/domain/error"
	"github.com/cryptofolio/gains-processor/internal/domain/port/usecase"
)

// Transaction-level error annotations for failed allocations
const (
	errSellExceedsLots = "SELL exceeds available BUY lots"
	errGasExceedsLots  = "gas fees exceed available lots for the gas asset"
)

// Recalculate rebuilds the lot ledger and replays the full transaction
// history in chronological order. This is a deliberate O(n) full recompute:
// the ledger is never maintained incrementally, so running the pass twice on
// unchanged input produces identical lots and gain fields.
func (s *Service) Recalculate(ctx context.Context, selectedYear int) (*usecase.RecalculationResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info("Starting gains recalculation", map[string]any{
		"selected_year": selectedYear,
	})

	lotsCreated, err := s.rebuildLots(ctx)
	if err != nil {
		return nil, err
	}

	transactions, err := s.txRepo.ListByDateAsc(ctx)
	if err != nil {
		return nil, err
	}

	result := &usecase.RecalculationResult{LotsCreated: lotsCreated}

	for _, tx := range transactions {
		// One conversion rate per transaction, looked up for the disposal's
		// calendar date. A rate failure is a hard oracle failure and aborts
		// the remaining work in the pass.
		rate, err := s.rates.Rate(ctx, BaseCurrency, ReportingCurrency, tx.TransactionDate)
		if err != nil {
			s.logger.Error("Conversion rate lookup failed", map[string]any{
				"transaction_id": tx.ID,
				"date":           tx.TransactionDate.Format("2006-01-02"),
				"error":          err.Error(),
			})
			return nil, errs.WrapError(errs.ErrOracleFailure, "conversion rate lookup")
		}

		gainResult := &entity.GainResult{TransactionID: tx.ID}

		// The primary asset disposal and the gas-fee disposal are processed
		// independently; a failed one leaves its gain figures unset without
		// blocking the other.
		if tx.DisposesAsset() {
			figures, chunks, allocErr := s.runDisposal(ctx, tx.FromAsset, tx.FromAmount, tx.FromAssetPriceUSD, tx.TransactionDate, rate)
			if allocErr != nil {
				if !isAllocationExceeded(allocErr) {
					return nil, allocErr
				}
				gainResult.Error = errSellExceedsLots
				result.AllocationErrors++
				s.logger.Warn("Disposal exceeds available lots", map[string]any{
					"transaction_id": tx.ID,
					"asset":          tx.FromAsset,
				})
			} else {
				gainResult.Primary = figures
			}
			result.ReportLines = appendReportLines(result.ReportLines, chunks, tx.TaxYear, selectedYear)
		}

		if tx.DisposesGas() {
			figures, chunks, allocErr := s.runDisposal(ctx, tx.GasAsset, tx.GasFees, tx.GasAssetPriceUSD, tx.TransactionDate, rate)
			if allocErr != nil {
				if !isAllocationExceeded(allocErr) {
					return nil, allocErr
				}
				gainResult.Error = errGasExceedsLots
				result.AllocationErrors++
				s.logger.Warn("Gas disposal exceeds available lots", map[string]any{
					"transaction_id": tx.ID,
					"asset":          tx.GasAsset,
				})
			} else {
				gainResult.Gas = figures
			}
			result.ReportLines = appendReportLines(result.ReportLines, chunks, tx.TaxYear, selectedYear)
		}

		if err := s.txRepo.SaveGainResult(ctx, gainResult); err != nil {
			return nil, err
		}
		result.TransactionsProcessed++
	}

	s.logger.Info("Gains recalculation completed", map[string]any{
		"transactions":      result.TransactionsProcessed,
		"lots_created":      result.LotsCreated,
		"allocation_errors": result.AllocationErrors,
		"report_lines":      len(result.ReportLines),
	})

	return result, nil
}

// rebuildLots discards every lot and creates exactly one per BUY transaction
// in acquisition order. All lots exist before any disposal is replayed.
func (s *Service) rebuildLots(ctx context.Context) (int, error) {
	if err := s.lotRepo.DeleteAll(ctx); err != nil {
		return 0, err
	}

	buys, err := s.txRepo.ListBuysByDateAsc(ctx)
	if err != nil {
		return 0, err
	}

	lots := make([]*entity.Lot, 0, len(buys))
	for _, buy := range buys {
		lots = append(lots, entity.NewLotFromBuy(buy))
	}

	if len(lots) > 0 {
		if err := s.lotRepo.CreateBatch(ctx, lots); err != nil {
			return 0, err
		}
	}

	s.logger.Debug("Lot ledger rebuilt", map[string]any{
		"lots": len(lots),
	})
	return len(lots), nil
}

// runDisposal allocates one disposal event against the asset's open lots and
// classifies the resulting chunks. Lot decrements are persisted for every
// visited lot, including on a partial allocation.
func (s *Service) runDisposal(
	ctx context.Context,
	asset string,
	amount decimal.Decimal,
	unitProceeds decimal.Decimal,
	disposedOn time.Time,
	rate decimal.Decimal,
) (*entity.GainFigures, []entity.DisposalChunk, error) {
	lots, err := s.lotRepo.ListByAssetDateAsc(ctx, asset)
	if err != nil {
		return nil, nil, err
	}

	chunks, residual := allocateFIFO(amount, unitProceeds, disposedOn, lots)

	for _, lot := range lots {
		if err := s.lotRepo.UpdateRemaining(ctx, lot); err != nil {
			return nil, nil, err
		}
	}

	if residual.IsPositive() {
		return nil, chunks, errs.ErrAllocationExceeded
	}

	shortTerm, longTerm := classifyGains(chunks)
	return entity.NewGainFigures(shortTerm, longTerm, rate), chunks, nil
}

// appendReportLines collects report lines for chunks belonging to the
// selected tax year, preserving processing order
func appendReportLines(lines []entity.ReportLine, chunks []entity.DisposalChunk, taxYear, selectedYear int) []entity.ReportLine {
	if selectedYear <= 0 || taxYear != selectedYear {
		return lines
	}
	for _, chunk := range chunks {
		lines = append(lines, entity.NewReportLine(chunk))
	}
	return lines
}

func isAllocationExceeded(err error) bool {
	return errors.Is(err, errs.ErrAllocationExceeded)
}
