package gains

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptofolio/gains-processor/internal/domain/entity"
	errs "github.com/cryptofolio/gains-processor/internal/domain/error"
	coreport "github.com/cryptofolio/gains-processor/internal/domain/port/core"
	"github.com/cryptofolio/gains-processor/internal/domain/port/persistence"
)

// In-memory fakes. The engine mutates shared lot state during a pass, which
// is awkward to express with expectation mocks, so these tests run against
// small stateful implementations of the persistence ports.

type fakeTxRepo struct {
	txs     []*entity.Transaction
	results map[uint64]*entity.GainResult
}

func newFakeTxRepo(txs ...*entity.Transaction) *fakeTxRepo {
	for i, tx := range txs {
		if tx.ID == 0 {
			tx.ID = uint64(i + 1)
		}
	}
	return &fakeTxRepo{txs: txs, results: make(map[uint64]*entity.GainResult)}
}

func (f *fakeTxRepo) Create(_ context.Context, tx *entity.Transaction) error {
	tx.ID = uint64(len(f.txs) + 1)
	f.txs = append(f.txs, tx)
	return nil
}

func (f *fakeTxRepo) Update(_ context.Context, _ *entity.Transaction) error { return nil }
func (f *fakeTxRepo) Delete(_ context.Context, _ uint64) error              { return nil }

func (f *fakeTxRepo) GetByID(_ context.Context, id uint64) (*entity.Transaction, error) {
	for _, tx := range f.txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return nil, errs.ErrTransactionNotFound
}

func (f *fakeTxRepo) List(_ context.Context, _ persistence.TransactionFilter) ([]persistence.TransactionRecord, error) {
	var records []persistence.TransactionRecord
	for _, tx := range f.sorted() {
		records = append(records, persistence.TransactionRecord{Transaction: tx, Gains: f.results[tx.ID]})
	}
	return records, nil
}

func (f *fakeTxRepo) ListByDateAsc(_ context.Context) ([]*entity.Transaction, error) {
	return f.sorted(), nil
}

func (f *fakeTxRepo) ListBuysByDateAsc(_ context.Context) ([]*entity.Transaction, error) {
	var buys []*entity.Transaction
	for _, tx := range f.sorted() {
		if tx.Type == entity.TypeBuy {
			buys = append(buys, tx)
		}
	}
	return buys, nil
}

func (f *fakeTxRepo) ListByTaxYear(_ context.Context, taxYear int) ([]persistence.TransactionRecord, error) {
	var records []persistence.TransactionRecord
	for _, tx := range f.sorted() {
		if tx.TaxYear == taxYear {
			records = append(records, persistence.TransactionRecord{Transaction: tx, Gains: f.results[tx.ID]})
		}
	}
	return records, nil
}

func (f *fakeTxRepo) SaveGainResult(_ context.Context, result *entity.GainResult) error {
	f.results[result.TransactionID] = result
	return nil
}

func (f *fakeTxRepo) GetGainResult(_ context.Context, id uint64) (*entity.GainResult, error) {
	return f.results[id], nil
}

func (f *fakeTxRepo) sorted() []*entity.Transaction {
	out := make([]*entity.Transaction, len(f.txs))
	copy(out, f.txs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TransactionDate.Before(out[j].TransactionDate)
	})
	return out
}

type fakeLotRepo struct {
	lots   []*entity.Lot
	nextID uint64
}

func (f *fakeLotRepo) DeleteAll(_ context.Context) error {
	f.lots = nil
	return nil
}

func (f *fakeLotRepo) CreateBatch(_ context.Context, lots []*entity.Lot) error {
	for _, lot := range lots {
		f.nextID++
		lot.ID = f.nextID
		f.lots = append(f.lots, lot)
	}
	return nil
}

func (f *fakeLotRepo) ListByAssetDateAsc(_ context.Context, asset string) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, lot := range f.lots {
		if lot.AssetName == asset {
			out = append(out, lot)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TransactionDate.Before(out[j].TransactionDate)
	})
	return out, nil
}

func (f *fakeLotRepo) UpdateRemaining(_ context.Context, _ *entity.Lot) error {
	// Lots are shared pointers; the decrement already happened in memory
	return nil
}

func (f *fakeLotRepo) ListOpen(_ context.Context) ([]*entity.Lot, error) {
	var out []*entity.Lot
	for _, lot := range f.lots {
		if !lot.Exhausted() {
			out = append(out, lot)
		}
	}
	return out, nil
}

// fixedRateOracle returns one conversion rate for every date
type fixedRateOracle struct {
	rate decimal.Decimal
	err  error
}

func (o fixedRateOracle) Rate(_ context.Context, _, _ string, _ time.Time) (decimal.Decimal, error) {
	return o.rate, o.err
}

// nopLogger satisfies core.Logger without recording anything
type nopLogger struct{}

func (nopLogger) SetLevel(coreport.LogLevel)          {}
func (nopLogger) GetLevel() coreport.LogLevel         { return coreport.LogLevelInfo }
func (nopLogger) Debug(string, map[string]any)        {}
func (nopLogger) Info(string, map[string]any)         {}
func (nopLogger) Warn(string, map[string]any)         {}
func (nopLogger) Error(string, map[string]any)        {}
func (nopLogger) Flush() error                        { return nil }

func buyTx(id uint64, asset, amount, unitCost string, on time.Time) *entity.Transaction {
	return &entity.Transaction{
		ID:               id,
		Chain:            entity.DefaultChain,
		Type:             entity.TypeBuy,
		TransactionDate:  on,
		TaxYear:          on.Year(),
		ToAsset:          asset,
		ToAmount:         dec(amount),
		ToAssetCostBasis: dec(unitCost),
	}
}

func sellTx(id uint64, asset, amount, unitPrice string, on time.Time) *entity.Transaction {
	return &entity.Transaction{
		ID:                id,
		Chain:             entity.DefaultChain,
		Type:              entity.TypeSell,
		TransactionDate:   on,
		TaxYear:           on.Year(),
		FromAsset:         asset,
		FromAmount:        dec(amount),
		FromAssetPriceUSD: dec(unitPrice),
	}
}

func newTestService(txRepo *fakeTxRepo, lotRepo *fakeLotRepo, rates coreport.RateOracle) *Service {
	return &Service{
		txRepo:  txRepo,
		lotRepo: lotRepo,
		rates:   rates,
		logger:  nopLogger{},
	}
}

func TestRecalculate(t *testing.T) {
	ctx := context.Background()
	rate := fixedRateOracle{rate: dec("0.9")}

	t.Run("should compute a short-term gain for a partial disposal", func(t *testing.T) {
		// BUY 2.0 ETH at 1000 on 2023-01-01, SELL 1.5 at 1500 on 2023-06-01
		// (151 days held)
		txRepo := newFakeTxRepo(
			buyTx(1, "ETH", "2.0", "1000", date(2023, 1, 1)),
			sellTx(2, "ETH", "1.5", "1500", date(2023, 6, 1)),
		)
		lotRepo := &fakeLotRepo{}
		svc := newTestService(txRepo, lotRepo, rate)

		result, err := svc.Recalculate(ctx, 0)

		require.NoError(t, err)
		assert.Equal(t, 2, result.TransactionsProcessed)
		assert.Equal(t, 1, result.LotsCreated)
		assert.Equal(t, 0, result.AllocationErrors)

		require.Len(t, lotRepo.lots, 1)
		assert.True(t, lotRepo.lots[0].RemainingAmount.Equal(dec("0.5")))

		gains := txRepo.results[2]
		require.NotNil(t, gains)
		require.NotNil(t, gains.Primary)
		assert.True(t, gains.Primary.ShortTermUSD.Equal(dec("750")))
		assert.True(t, gains.Primary.LongTermUSD.IsZero())
		assert.True(t, gains.Primary.ShortTermEUR.Equal(dec("675")))
		assert.Empty(t, gains.Error)
	})

	t.Run("should compute a long-term gain past the 365-day threshold", func(t *testing.T) {
		// BUY 1.0 BTC at 10000 on 2022-01-01, SELL at 50000 on 2023-02-01
		// (396 days held)
		txRepo := newFakeTxRepo(
			buyTx(1, "BTC", "1.0", "10000", date(2022, 1, 1)),
			sellTx(2, "BTC", "1.0", "50000", date(2023, 2, 1)),
		)
		lotRepo := &fakeLotRepo{}
		svc := newTestService(txRepo, lotRepo, rate)

		_, err := svc.Recalculate(ctx, 0)

		require.NoError(t, err)
		gains := txRepo.results[2]
		require.NotNil(t, gains)
		require.NotNil(t, gains.Primary)
		assert.True(t, gains.Primary.LongTermUSD.Equal(dec("40000")))
		assert.True(t, gains.Primary.ShortTermUSD.IsZero())
	})

	t.Run("should record an allocation error for a sell with no lots", func(t *testing.T) {
		txRepo := newFakeTxRepo(
			sellTx(1, "XRP", "5", "2", date(2023, 3, 1)),
		)
		lotRepo := &fakeLotRepo{}
		svc := newTestService(txRepo, lotRepo, rate)

		result, err := svc.Recalculate(ctx, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, result.AllocationErrors)

		gains := txRepo.results[1]
		require.NotNil(t, gains)
		assert.Nil(t, gains.Primary)
		assert.Equal(t, "SELL exceeds available BUY lots", gains.Error)
	})

	t.Run("should process gas disposal independently of a failed primary disposal", func(t *testing.T) {
		sell := sellTx(2, "XRP", "5", "2", date(2023, 6, 1))
		sell.GasAsset = "ETH"
		sell.GasFees = dec("0.01")
		sell.GasAssetPriceUSD = dec("2000")

		txRepo := newFakeTxRepo(
			buyTx(1, "ETH", "1.0", "1000", date(2023, 1, 1)),
			sell,
		)
		lotRepo := &fakeLotRepo{}
		svc := newTestService(txRepo, lotRepo, rate)

		result, err := svc.Recalculate(ctx, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, result.AllocationErrors)

		gains := txRepo.results[2]
		require.NotNil(t, gains)
		assert.Nil(t, gains.Primary)
		assert.Equal(t, "SELL exceeds available BUY lots", gains.Error)

		// Gas: 0.01 ETH at 2000 against the 1000 lot, 151 days held
		require.NotNil(t, gains.Gas)
		assert.True(t, gains.Gas.ShortTermUSD.Equal(dec("10")))
	})

	t.Run("should abort the pass on a rate oracle failure", func(t *testing.T) {
		txRepo := newFakeTxRepo(
			buyTx(1, "ETH", "2.0", "1000", date(2023, 1, 1)),
		)
		lotRepo := &fakeLotRepo{}
		svc := newTestService(txRepo, lotRepo, fixedRateOracle{err: errs.ErrOracleFailure})

		_, err := svc.Recalculate(ctx, 0)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrOracleFailure)
	})

	t.Run("should be idempotent across repeated passes", func(t *testing.T) {
		txRepo := newFakeTxRepo(
			buyTx(1, "ETH", "2.0", "1000", date(2023, 1, 1)),
			sellTx(2, "ETH", "1.5", "1500", date(2023, 6, 1)),
		)
		lotRepo := &fakeLotRepo{}
		svc := newTestService(txRepo, lotRepo, rate)

		first, err := svc.Recalculate(ctx, 0)
		require.NoError(t, err)
		firstGains := *txRepo.results[2].Primary

		second, err := svc.Recalculate(ctx, 0)
		require.NoError(t, err)

		assert.Equal(t, first.TransactionsProcessed, second.TransactionsProcessed)
		assert.Equal(t, first.LotsCreated, second.LotsCreated)
		require.Len(t, lotRepo.lots, 1)
		assert.True(t, lotRepo.lots[0].RemainingAmount.Equal(dec("0.5")))
		assert.True(t, firstGains.ShortTermUSD.Equal(txRepo.results[2].Primary.ShortTermUSD))
	})

	t.Run("should collect report lines only for the selected year", func(t *testing.T) {
		txRepo := newFakeTxRepo(
			buyTx(1, "ETH", "2.0", "1000", date(2022, 1, 1)),
			sellTx(2, "ETH", "0.5", "1500", date(2022, 6, 1)),
			sellTx(3, "ETH", "1.0", "2000", date(2023, 6, 1)),
		)
		lotRepo := &fakeLotRepo{}
		svc := newTestService(txRepo, lotRepo, rate)

		result, err := svc.Recalculate(ctx, 2023)

		require.NoError(t, err)
		require.Len(t, result.ReportLines, 1)
		line := result.ReportLines[0]
		assert.Equal(t, "CRYPTO ETH", line.SecurityDescription)
		assert.Equal(t, "1.00000000", line.Quantity)
		assert.Equal(t, "2022-01-01", line.DateAcquired)
		assert.Equal(t, "2023-06-01", line.DateSold)
		assert.Equal(t, "2000.00000000", line.Proceeds)
		assert.Equal(t, "1000.00000000", line.CostBasis)
		assert.Equal(t, entity.TermLong, line.Term)
	})
}
