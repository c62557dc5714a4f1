package gains

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
	errs "github.com/cryptofolio/gains-processor/internal/domain/error"
)

func TestUpdateSummary(t *testing.T) {
	ctx := context.Background()
	rate := fixedRateOracle{rate: dec("0.9")}

	t.Run("should aggregate gains, rewards, airdrops and gas fees for the year", func(t *testing.T) {
		stake := &entity.Transaction{
			ID: 3, Type: entity.TypeStake, TransactionDate: date(2023, 3, 1), TaxYear: 2023,
			ToAsset: "ATOM", ToAmount: dec("10"), ToAssetCostBasis: dec("120"),
		}
		claim := &entity.Transaction{
			ID: 4, Type: entity.TypeClaim, TransactionDate: date(2023, 4, 1), TaxYear: 2023,
			ToAsset: "TIA", ToAmount: dec("50"), ToAssetCostBasis: dec("30"),
		}
		sell := sellTx(2, "ETH", "1.5", "1500", date(2023, 6, 1))
		sell.GasAsset = "ETH"
		sell.GasFees = dec("0.01")
		sell.GasAssetPriceUSD = dec("1500")

		txRepo := newFakeTxRepo(
			buyTx(1, "ETH", "2.0", "1000", date(2023, 1, 1)),
			sell,
			stake,
			claim,
		)
		lotRepo := &fakeLotRepo{}
		summaryRepo := &fakeSummaryRepo{}
		svc := newTestService(txRepo, lotRepo, rate)
		svc.summaryRepo = summaryRepo

		_, err := svc.Recalculate(ctx, 0)
		require.NoError(t, err)

		summary, err := svc.UpdateSummary(ctx, 2023)
		require.NoError(t, err)

		// Primary: 1.5 x (1500 - 1000) = 750 short
		// Gas: 0.01 x (1500 - 1000) = 5 short
		assert.True(t, summary.TotalShortTermGains.Equal(dec("755")))
		assert.True(t, summary.TotalLongTermGains.IsZero())
		assert.True(t, summary.TotalStakingRewards.Equal(dec("120")))
		assert.True(t, summary.TotalAirdrops.Equal(dec("30")))
		assert.True(t, summary.TotalGasFees.Equal(dec("0.01")))
		// net = 755 + 0 + 120 + 30 - 0.01
		assert.True(t, summary.NetGainUSD.Equal(dec("904.99")))
	})

	t.Run("should upsert a single row per year", func(t *testing.T) {
		txRepo := newFakeTxRepo(
			buyTx(1, "ETH", "2.0", "1000", date(2023, 1, 1)),
			sellTx(2, "ETH", "1.0", "1500", date(2023, 6, 1)),
		)
		summaryRepo := &fakeSummaryRepo{}
		svc := newTestService(txRepo, &fakeLotRepo{}, rate)
		svc.summaryRepo = summaryRepo

		_, err := svc.Recalculate(ctx, 0)
		require.NoError(t, err)

		_, err = svc.UpdateSummary(ctx, 2023)
		require.NoError(t, err)
		_, err = svc.UpdateSummary(ctx, 2023)
		require.NoError(t, err)

		assert.Len(t, summaryRepo.rows, 1)
	})

	t.Run("should reject a non-positive tax year", func(t *testing.T) {
		svc := newTestService(newFakeTxRepo(), &fakeLotRepo{}, rate)

		_, err := svc.UpdateSummary(ctx, 0)

		assert.ErrorIs(t, err, errs.ErrInvalidTaxYear)
	})
}

type fakeSummaryRepo struct {
	rows map[int]*entity.GainsSummary
}

func (f *fakeSummaryRepo) Upsert(_ context.Context, summary *entity.GainsSummary) error {
	if f.rows == nil {
		f.rows = make(map[int]*entity.GainsSummary)
	}
	f.rows[summary.TaxYear] = summary
	return nil
}

func (f *fakeSummaryRepo) GetByYear(_ context.Context, taxYear int) (*entity.GainsSummary, error) {
	summary, ok := f.rows[taxYear]
	if !ok {
		return nil, errs.ErrSummaryNotFound
	}
	return summary, nil
}

func (f *fakeSummaryRepo) ListAll(_ context.Context) ([]*entity.GainsSummary, error) {
	var out []*entity.GainsSummary
	for _, summary := range f.rows {
		out = append(out, summary)
	}
	return out, nil
}
