package synth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/entity"
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/rng"
)

var (
	// Конфигурационные ошибки синтеза: прогон прерывается сразу, без retry
	ErrEmptyPool       = errors.New("entity pool is empty")
	ErrInvalidDayCount = errors.New("day count must be positive")
)

// Synthesizer производит упорядоченный поток позиций транзакций из трех
// пулов. Дневной объем зависит от классификации будний/выходной, позиции
// группируются по 1-8 на транзакцию под одним transaction id.
//
// Каждый день генерируется из своего суб-контекста (rng.ForDay), поэтому
// дни независимы и могут считаться параллельно; диапазоны transaction id
// выделяются заранее префиксными суммами - без дырок и дублей при любом
// числе воркеров. Порядок эмиссии всегда (date, transaction_id, порядок
// выборки позиций): результат не зависит от workers
type Synthesizer struct {
	rng     *rng.Rand
	workers int
}

// New создает синтезатор. workers < 1 трактуется как 1 (последовательный
// эталонный режим)
func New(r *rng.Rand, workers int) *Synthesizer {
	if workers < 1 {
		workers = 1
	}
	return &Synthesizer{rng: r, workers: workers}
}

// daySchedule - план одного дня: суб-контекст, стартовый transaction id
// и количество транзакций (первая выборка из суб-контекста дня)
type daySchedule struct {
	index   int
	date    time.Time
	rng     *rng.Rand
	startID int64
	txCount int
}

// Run генерирует поток за days дней начиная со start и передает его
// батчами по дням в emit строго в порядке дат. Весь поток никогда не
// материализуется в памяти целиком
func (s *Synthesizer) Run(
	ctx context.Context,
	stores []entity.Store,
	products []entity.Product,
	customers []entity.Customer,
	start time.Time,
	days int,
	emit func(batch []entity.LineItem) error,
) error {
	if days <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidDayCount, days)
	}
	if len(stores) == 0 {
		return fmt.Errorf("%w: stores", ErrEmptyPool)
	}
	if len(products) == 0 {
		return fmt.Errorf("%w: products", ErrEmptyPool)
	}
	if len(customers) == 0 {
		return fmt.Errorf("%w: customers", ErrEmptyPool)
	}

	schedule := s.buildSchedule(start, days)

	if s.workers == 1 {
		return s.runSequential(ctx, schedule, stores, products, customers, emit)
	}
	return s.runParallel(ctx, schedule, stores, products, customers, emit)
}

// buildSchedule детерминированно выделяет каждому дню суб-контекст,
// дневной объем и непрерывный диапазон transaction id
func (s *Synthesizer) buildSchedule(start time.Time, days int) []daySchedule {
	schedule := make([]daySchedule, days)
	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	nextID := int64(1)
	for i := 0; i < days; i++ {
		date := startDay.AddDate(0, 0, i)
		dayRng := s.rng.ForDay(i)

		var txCount int
		if entity.DayTypeOf(date) == entity.DayTypeWeekend {
			txCount = dayRng.IntBetween(500, 800)
		} else {
			txCount = dayRng.IntBetween(300, 500)
		}

		schedule[i] = daySchedule{
			index:   i,
			date:    date,
			rng:     dayRng,
			startID: nextID,
			txCount: txCount,
		}
		nextID += int64(txCount)
	}

	return schedule
}

func (s *Synthesizer) runSequential(
	ctx context.Context,
	schedule []daySchedule,
	stores []entity.Store,
	products []entity.Product,
	customers []entity.Customer,
	emit func([]entity.LineItem) error,
) error {
	for _, day := range schedule {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := emit(s.generateDay(day, stores, products, customers)); err != nil {
			return err
		}
	}
	return nil
}

// runParallel считает дни пулом воркеров, но отдает батчи в emit строго
// в порядке индексов дней
func (s *Synthesizer) runParallel(
	ctx context.Context,
	schedule []daySchedule,
	stores []entity.Store,
	products []entity.Product,
	customers []entity.Customer,
	emit func([]entity.LineItem) error,
) error {
	gctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]chan []entity.LineItem, len(schedule))
	for i := range results {
		results[i] = make(chan []entity.LineItem, 1)
	}

	sem := make(chan struct{}, s.workers)
	go func() {
		for _, day := range schedule {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return
			}
			go func(day daySchedule) {
				defer func() { <-sem }()
				batch := s.generateDay(day, stores, products, customers)
				select {
				case results[day.index] <- batch:
				case <-gctx.Done():
				}
			}(day)
		}
	}()

	for i := range schedule {
		select {
		case batch := <-results[i]:
			if err := emit(batch); err != nil {
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// generateDay производит все позиции одного дня. Порядок выборок на
// позицию фиксирован (товар, количество, скидка, оплата, время) - это
// часть контракта воспроизводимости
func (s *Synthesizer) generateDay(
	day daySchedule,
	stores []entity.Store,
	products []entity.Product,
	customers []entity.Customer,
) []entity.LineItem {
	paymentMethods := entity.PaymentMethods()
	// В среднем 4.5 позиции на транзакцию
	items := make([]entity.LineItem, 0, day.txCount*5)

	for t := 0; t < day.txCount; t++ {
		txID := day.startID + int64(t)
		store := rng.Pick(day.rng, stores)
		customer := rng.Pick(day.rng, customers)
		itemCount := day.rng.IntBetween(1, 8)

		for j := 0; j < itemCount; j++ {
			product := rng.Pick(day.rng, products)
			quantity := day.rng.IntBetween(1, 3)
			discount := day.rng.DiscountPct()

			// Округление на уровне позиции, не после агрегации
			unitPrice := round2(product.RetailPrice * (1 - discount))
			discountAmount := round2(product.RetailPrice * discount * float64(quantity))
			totalAmount := round2(unitPrice * float64(quantity))

			items = append(items, entity.LineItem{
				TransactionID:  txID,
				Date:           day.date,
				Time:           fmt.Sprintf("%02d:%02d:00", day.rng.IntBetween(8, 21), day.rng.IntBetween(0, 59)),
				StoreID:        store.ID,
				CustomerID:     customer.ID,
				ProductID:      product.ID,
				Quantity:       quantity,
				UnitPrice:      unitPrice,
				DiscountAmount: discountAmount,
				TotalAmount:    totalAmount,
				PaymentMethod:  rng.Pick(day.rng, paymentMethods),
			})
		}
	}

	return items
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
