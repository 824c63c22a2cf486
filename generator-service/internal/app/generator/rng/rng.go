package rng

import (
	"math/rand"
	"time"
)

// Rand явный контекст генерации случайных чисел. Создается один раз на
// прогон и передается по ссылке во все вызовы генерации пулов и синтеза.
// Глобальный rand нигде в модуле не используется: одинаковый seed и
// параметры дают побитово идентичный поток значений
type Rand struct {
	seed int64
	r    *rand.Rand
}

// New создает контекст генерации из seed прогона
func New(seed int64) *Rand {
	return &Rand{
		seed: seed,
		r:    rand.New(rand.NewSource(seed)),
	}
}

// Seed возвращает seed, из которого создан контекст
func (r *Rand) Seed() int64 {
	return r.seed
}

// ForDay выводит независимый суб-контекст для дня dayIndex.
// Дни генерируются из своих суб-контекстов, поэтому их можно
// распараллеливать без изменения результата
func (r *Rand) ForDay(dayIndex int) *Rand {
	sub := mix64(uint64(r.seed) ^ (uint64(dayIndex)+1)*0x9e3779b97f4a7c15)
	return New(int64(sub))
}

// mix64 - финализатор splitmix64, размазывает биты seed+dayIndex
func mix64(v uint64) uint64 {
	v ^= v >> 30
	v *= 0xbf58476d1ce4e5b9
	v ^= v >> 27
	v *= 0x94d049bb133111eb
	v ^= v >> 31
	return v
}

// IntBetween возвращает равномерное целое из [lo, hi] включительно
func (r *Rand) IntBetween(lo, hi int) int {
	return lo + r.r.Intn(hi-lo+1)
}

// Float64Between возвращает равномерное число из [lo, hi)
func (r *Rand) Float64Between(lo, hi float64) float64 {
	return lo + r.r.Float64()*(hi-lo)
}

// Index возвращает равномерный индекс из [0, n)
func (r *Rand) Index(n int) int {
	return r.r.Intn(n)
}

// Bool возвращает равномерный булев флаг
func (r *Rand) Bool() bool {
	return r.r.Intn(2) == 1
}

// discountOutcomes - фиксированное взвешенное распределение скидок,
// смещенное к нулю: семь равновероятных исходов, три из них - 0
var discountOutcomes = [...]float64{0, 0, 0, 0.05, 0.10, 0.15, 0.20}

// DiscountPct возвращает долю скидки из фиксированного распределения
func (r *Rand) DiscountPct() float64 {
	return discountOutcomes[r.r.Intn(len(discountOutcomes))]
}

// DateBetween возвращает равномерную дату (полночь UTC) из [from, to]
func (r *Rand) DateBetween(from, to time.Time) time.Time {
	from = truncateDay(from)
	to = truncateDay(to)
	days := int(to.Sub(from).Hours()/24) + 1
	return from.AddDate(0, 0, r.r.Intn(days))
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Pick возвращает равномерный элемент среза (с возвращением)
func Pick[T any](r *Rand, items []T) T {
	return items[r.r.Intn(len(items))]
}
