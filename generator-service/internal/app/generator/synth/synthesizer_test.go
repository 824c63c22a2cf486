package synth

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/entity"
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/pool"
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testReferenceDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func testPools(t *testing.T, seed int64, stores, products, customers int) ([]entity.Store, []entity.Product, []entity.Customer) {
	t.Helper()
	g := pool.New(rng.New(seed), testReferenceDate)
	st := g.Stores(stores)
	pr := g.Products(products)
	cu := g.Customers(customers)
	require.NotEmpty(t, st)
	require.NotEmpty(t, pr)
	require.NotEmpty(t, cu)
	return st, pr, cu
}

func collect(t *testing.T, s *Synthesizer, stores []entity.Store, products []entity.Product, customers []entity.Customer, start time.Time, days int) []entity.LineItem {
	t.Helper()
	var all []entity.LineItem
	err := s.Run(context.Background(), stores, products, customers, start, days, func(batch []entity.LineItem) error {
		all = append(all, batch...)
		return nil
	})
	require.NoError(t, err)
	return all
}

// Сценарий из приемки: seed=42, 2 магазина, 5 товаров, 10 покупателей,
// один день-понедельник
func TestSynthesizer_MondayScenario(t *testing.T) {
	stores, products, customers := testPools(t, 42, 2, 150, 10)
	products = products[:5]

	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Monday, monday.Weekday())

	items := collect(t, New(rng.New(42), 1), stores, products, customers, monday, 1)

	txCount := countTransactions(items)
	assert.GreaterOrEqual(t, txCount, 300)
	assert.LessOrEqual(t, txCount, 500)

	assertStreamInvariants(t, items, stores, products, customers)
}

func TestSynthesizer_WeekendVolume(t *testing.T) {
	stores, products, customers := testPools(t, 42, 2, 150, 10)

	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	require.Equal(t, time.Saturday, saturday.Weekday())

	// Два выходных и пять будних
	perDay := map[string]int{}
	s := New(rng.New(42), 1)
	err := s.Run(context.Background(), stores, products, customers, saturday, 7, func(batch []entity.LineItem) error {
		date := batch[0].Date
		perDay[date.Format("2006-01-02")] = countTransactions(batch)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, perDay, 7)

	for dateStr, count := range perDay {
		date, err := time.Parse("2006-01-02", dateStr)
		require.NoError(t, err)
		if entity.DayTypeOf(date) == entity.DayTypeWeekend {
			assert.GreaterOrEqual(t, count, 500, "weekend %s", dateStr)
			assert.LessOrEqual(t, count, 800, "weekend %s", dateStr)
		} else {
			assert.GreaterOrEqual(t, count, 300, "weekday %s", dateStr)
			assert.LessOrEqual(t, count, 500, "weekday %s", dateStr)
		}
	}
}

func TestSynthesizer_StreamInvariants(t *testing.T) {
	stores, products, customers := testPools(t, 42, 10, 300, 100)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	items := collect(t, New(rng.New(42), 1), stores, products, customers, start, 14)
	assertStreamInvariants(t, items, stores, products, customers)

	// ID начинаются с 1 и идут без дырок через границы дней
	var maxID int64
	for _, li := range items {
		if li.TransactionID > maxID {
			maxID = li.TransactionID
		}
	}
	assert.EqualValues(t, countTransactions(items), maxID)
}

func TestSynthesizer_Deterministic(t *testing.T) {
	stores, products, customers := testPools(t, 42, 5, 150, 50)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	a := collect(t, New(rng.New(42), 1), stores, products, customers, start, 5)
	b := collect(t, New(rng.New(42), 1), stores, products, customers, start, 5)
	assert.Equal(t, a, b)

	c := collect(t, New(rng.New(43), 1), stores, products, customers, start, 5)
	assert.NotEqual(t, a, c)
}

// Параллельная генерация обязана давать байт-в-байт тот же поток,
// что и последовательная
func TestSynthesizer_ParallelMatchesSequential(t *testing.T) {
	stores, products, customers := testPools(t, 42, 5, 150, 50)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	sequential := collect(t, New(rng.New(42), 1), stores, products, customers, start, 10)
	parallel := collect(t, New(rng.New(42), 4), stores, products, customers, start, 10)

	assert.Equal(t, sequential, parallel)
}

func TestSynthesizer_EmptyPoolFails(t *testing.T) {
	stores, products, customers := testPools(t, 42, 2, 150, 10)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	emit := func([]entity.LineItem) error { return nil }

	s := New(rng.New(42), 1)

	err := s.Run(context.Background(), nil, products, customers, start, 1, emit)
	assert.ErrorIs(t, err, ErrEmptyPool)

	err = s.Run(context.Background(), stores, nil, customers, start, 1, emit)
	assert.ErrorIs(t, err, ErrEmptyPool)

	err = s.Run(context.Background(), stores, products, nil, start, 1, emit)
	assert.ErrorIs(t, err, ErrEmptyPool)
}

func TestSynthesizer_NonPositiveDaysFails(t *testing.T) {
	stores, products, customers := testPools(t, 42, 2, 150, 10)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	emit := func([]entity.LineItem) error { return nil }

	s := New(rng.New(42), 1)
	assert.ErrorIs(t, s.Run(context.Background(), stores, products, customers, start, 0, emit), ErrInvalidDayCount)
	assert.ErrorIs(t, s.Run(context.Background(), stores, products, customers, start, -3, emit), ErrInvalidDayCount)
}

func TestSynthesizer_EmitErrorAborts(t *testing.T) {
	stores, products, customers := testPools(t, 42, 2, 150, 10)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	sentinel := errors.New("sink failed")
	calls := 0
	err := New(rng.New(42), 1).Run(context.Background(), stores, products, customers, start, 10, func([]entity.LineItem) error {
		calls++
		if calls == 2 {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 2, calls)
}

func TestSynthesizer_ContextCancel(t *testing.T) {
	stores, products, customers := testPools(t, 42, 2, 150, 10)
	start := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	ctx, cancel := context.WithCancel(context.Background())
	err := New(rng.New(42), 1).Run(ctx, stores, products, customers, start, 30, func([]entity.LineItem) error {
		cancel()
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func countTransactions(items []entity.LineItem) int {
	seen := map[int64]bool{}
	for _, li := range items {
		seen[li.TransactionID] = true
	}
	return len(seen)
}

// assertStreamInvariants проверяет контракты потока: денежные тождества,
// валидность внешних ключей, монотонность transaction id, группировку
// 1-8 смежных позиций и диапазоны количеств и времени
func assertStreamInvariants(t *testing.T, items []entity.LineItem, stores []entity.Store, products []entity.Product, customers []entity.Customer) {
	t.Helper()
	require.NotEmpty(t, items)

	productByID := map[int]entity.Product{}
	for _, p := range products {
		productByID[p.ID] = p
	}
	storeIDs := map[int]bool{}
	for _, s := range stores {
		storeIDs[s.ID] = true
	}
	customerIDs := map[int]bool{}
	for _, c := range customers {
		customerIDs[c.ID] = true
	}

	lastTxID := int64(0)
	itemsInTx := 0
	var prevDate time.Time

	for i, li := range items {
		// Внешние ключи
		require.True(t, storeIDs[li.StoreID], "row %d: unknown store %d", i, li.StoreID)
		require.True(t, customerIDs[li.CustomerID], "row %d: unknown customer %d", i, li.CustomerID)
		product, ok := productByID[li.ProductID]
		require.True(t, ok, "row %d: unknown product %d", i, li.ProductID)

		// Денежные тождества на уровне позиции
		require.InDelta(t, math.Round(li.UnitPrice*float64(li.Quantity)*100)/100, li.TotalAmount, 1e-9, "row %d", i)
		require.GreaterOrEqual(t, li.UnitPrice, 0.0)
		require.LessOrEqual(t, li.UnitPrice, product.RetailPrice+1e-9)
		require.GreaterOrEqual(t, li.DiscountAmount, 0.0)

		require.GreaterOrEqual(t, li.Quantity, 1)
		require.LessOrEqual(t, li.Quantity, 3)

		// Время в рабочих часах 08:00-21:59
		require.Regexp(t, `^(0[89]|1\d|2[01]):[0-5]\d:00$`, li.Time, "row %d", i)

		// Дата-мажорный порядок и монотонные transaction id
		require.False(t, li.Date.Before(prevDate), "row %d: date went backwards", i)
		prevDate = li.Date

		switch {
		case li.TransactionID == lastTxID:
			itemsInTx++
			require.LessOrEqual(t, itemsInTx, 8, "row %d: more than 8 items in tx %d", i, li.TransactionID)
		case li.TransactionID > lastTxID:
			lastTxID = li.TransactionID
			itemsInTx = 1
		default:
			t.Fatalf("row %d: transaction id %d not increasing (last %d)", i, li.TransactionID, lastTxID)
		}
	}
}
