package gains

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
	errs "github.com/cryptofolio/gains-processor/internal/domain/error"
)

// UpdateSummary recomputes the aggregate for one tax year from that year's
// transactions and upserts it. Short- and long-term totals include both
// primary and gas disposals; staking rewards and airdrops sum the cost basis
// of STAKE and CLAIM acquisitions.
func (s *Service) UpdateSummary(ctx context.Context, taxYear int) (*entity.GainsSummary, error) {
	if taxYear <= 0 {
		return nil, errs.ErrInvalidTaxYear
	}

	records, err := s.txRepo.ListByTaxYear(ctx, taxYear)
	if err != nil {
		return nil, err
	}

	var shortTerm, longTerm, staking, airdrops, gasFees decimal.Decimal
	for _, record := range records {
		tx := record.Transaction

		if record.Gains != nil {
			if record.Gains.Primary != nil {
				shortTerm = shortTerm.Add(record.Gains.Primary.ShortTermUSD)
				longTerm = longTerm.Add(record.Gains.Primary.LongTermUSD)
			}
			if record.Gains.Gas != nil {
				shortTerm = shortTerm.Add(record.Gains.Gas.ShortTermUSD)
				longTerm = longTerm.Add(record.Gains.Gas.LongTermUSD)
			}
		}

		switch tx.Type {
		case entity.TypeStake:
			staking = staking.Add(tx.ToAssetCostBasis)
		case entity.TypeClaim:
			airdrops = airdrops.Add(tx.ToAssetCostBasis)
		}
		gasFees = gasFees.Add(tx.GasFees)
	}

	summary := &entity.GainsSummary{
		TaxYear:             taxYear,
		TotalShortTermGains: shortTerm,
		TotalLongTermGains:  longTerm,
		TotalStakingRewards: staking,
		TotalAirdrops:       airdrops,
		TotalGasFees:        gasFees,
		NetGainUSD:          shortTerm.Add(longTerm).Add(staking).Add(airdrops).Sub(gasFees),
	}

	if err := s.summaryRepo.Upsert(ctx, summary); err != nil {
		return nil, err
	}

	s.logger.Info("Gains summary updated", map[string]any{
		"tax_year": taxYear,
		"net_gain": summary.NetGainUSD.String(),
	})
	return summary, nil
}

// Summaries returns every per-year aggregate ordered by tax year
func (s *Service) Summaries(ctx context.Context) ([]*entity.GainsSummary, error) {
	return s.summaryRepo.ListAll(ctx)
}
