package gains

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func makeLot(id uint64, asset, remaining, buyPrice string, acquired time.Time) *entity.Lot {
	return &entity.Lot{
		ID:              id,
		TransactionID:   id,
		AssetName:       asset,
		RemainingAmount: dec(remaining),
		BuyPrice:        dec(buyPrice),
		TransactionDate: acquired,
	}
}

func TestAllocateFIFO(t *testing.T) {
	t.Run("should split a partial lot and leave the remainder open", func(t *testing.T) {
		lot := makeLot(1, "ETH", "2.0", "1000", date(2023, 1, 1))

		chunks, residual := allocateFIFO(dec("1.5"), dec("1500"), date(2023, 6, 1), []*entity.Lot{lot})

		require.Len(t, chunks, 1)
		assert.True(t, residual.IsZero())
		assert.True(t, chunks[0].AllocatedAmount.Equal(dec("1.5")))
		assert.True(t, lot.RemainingAmount.Equal(dec("0.5")))
		assert.True(t, chunks[0].ShortTerm)
	})

	t.Run("should consume oldest lots first and preserve insertion order on ties", func(t *testing.T) {
		lots := []*entity.Lot{
			makeLot(1, "ETH", "1.0", "1000", date(2022, 1, 1)),
			makeLot(2, "ETH", "1.0", "2000", date(2022, 1, 1)),
			makeLot(3, "ETH", "1.0", "3000", date(2022, 6, 1)),
		}

		chunks, residual := allocateFIFO(dec("2.5"), dec("4000"), date(2023, 1, 1), lots)

		require.Len(t, chunks, 3)
		assert.True(t, residual.IsZero())
		assert.True(t, chunks[0].UnitCost.Equal(dec("1000")))
		assert.True(t, chunks[1].UnitCost.Equal(dec("2000")))
		assert.True(t, chunks[2].UnitCost.Equal(dec("3000")))
		assert.True(t, chunks[2].AllocatedAmount.Equal(dec("0.5")))
		assert.True(t, lots[0].Exhausted())
		assert.True(t, lots[1].Exhausted())
		assert.True(t, lots[2].RemainingAmount.Equal(dec("0.5")))
	})

	t.Run("should skip exhausted lots", func(t *testing.T) {
		lots := []*entity.Lot{
			makeLot(1, "ETH", "0", "500", date(2021, 1, 1)),
			makeLot(2, "ETH", "1.0", "1000", date(2022, 1, 1)),
		}

		chunks, residual := allocateFIFO(dec("1.0"), dec("2000"), date(2023, 1, 1), lots)

		require.Len(t, chunks, 1)
		assert.True(t, residual.IsZero())
		assert.True(t, chunks[0].UnitCost.Equal(dec("1000")))
	})

	t.Run("should exhaust the disposal exactly when lots cover it", func(t *testing.T) {
		lots := []*entity.Lot{
			makeLot(1, "ATOM", "10", "8", date(2022, 3, 1)),
			makeLot(2, "ATOM", "5", "12", date(2022, 9, 1)),
		}

		chunks, residual := allocateFIFO(dec("15"), dec("20"), date(2023, 1, 1), lots)

		assert.True(t, residual.IsZero())
		total := decimal.Zero
		for _, chunk := range chunks {
			total = total.Add(chunk.AllocatedAmount)
		}
		assert.True(t, total.Equal(dec("15")))
	})

	t.Run("should report residual and keep decrements when lots run out", func(t *testing.T) {
		lot := makeLot(1, "DOT", "3", "6", date(2022, 1, 1))

		chunks, residual := allocateFIFO(dec("5"), dec("9"), date(2023, 1, 1), []*entity.Lot{lot})

		require.Len(t, chunks, 1)
		assert.True(t, residual.Equal(dec("2")))
		// Visited lots stay decremented; only the next rebuild restores them
		assert.True(t, lot.RemainingAmount.IsZero())
	})

	t.Run("should emit zero chunks when no lots exist", func(t *testing.T) {
		chunks, residual := allocateFIFO(dec("5"), dec("9"), date(2023, 1, 1), nil)

		assert.Empty(t, chunks)
		assert.True(t, residual.Equal(dec("5")))
	})

	t.Run("should classify the 365-day holding boundary", func(t *testing.T) {
		acquired := date(2022, 1, 1)

		// 364 days held: short-term
		chunks, _ := allocateFIFO(dec("1"), dec("10"), acquired.AddDate(0, 0, 364), []*entity.Lot{
			makeLot(1, "BTC", "1", "5", acquired),
		})
		require.Len(t, chunks, 1)
		assert.Equal(t, 364, chunks[0].HoldingDays)
		assert.True(t, chunks[0].ShortTerm)

		// 365 days held: long-term
		chunks, _ = allocateFIFO(dec("1"), dec("10"), acquired.AddDate(0, 0, 365), []*entity.Lot{
			makeLot(2, "BTC", "1", "5", acquired),
		})
		require.Len(t, chunks, 1)
		assert.Equal(t, 365, chunks[0].HoldingDays)
		assert.False(t, chunks[0].ShortTerm)
	})
}

func TestClassifyGains(t *testing.T) {
	t.Run("should sum short and long chunks independently", func(t *testing.T) {
		chunks := []entity.DisposalChunk{
			{AllocatedAmount: dec("1.5"), UnitCost: dec("1000"), UnitProceeds: dec("1500"), ShortTerm: true},
			{AllocatedAmount: dec("1.0"), UnitCost: dec("10000"), UnitProceeds: dec("50000"), ShortTerm: false},
		}

		shortTerm, longTerm := classifyGains(chunks)

		assert.True(t, shortTerm.Equal(dec("750")))
		assert.True(t, longTerm.Equal(dec("40000")))
	})

	t.Run("should return zeros for no chunks", func(t *testing.T) {
		shortTerm, longTerm := classifyGains(nil)
		assert.True(t, shortTerm.IsZero())
		assert.True(t, longTerm.IsZero())
	})
}
