package pool

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/entity"
	"github.com/SnehaGeorge22/retail-data-pipeline/generator-service/internal/app/generator/rng"
)

// Generator строит неизменяемые пулы справочных сущностей (dimension data).
// Все выборки идут из переданного контекста генерации: фиксированный seed
// и размер пула дают побитово идентичную коллекцию.
//
// referenceDate - явная опорная дата для диапазонов вроде "от -10 лет до
// -1 года": привязка к wall clock сделала бы повторный прогон с тем же
// seed невоспроизводимым
type Generator struct {
	rng           *rng.Rand
	referenceDate time.Time
}

// New создает генератор пулов
func New(r *rng.Rand, referenceDate time.Time) *Generator {
	return &Generator{rng: r, referenceDate: referenceDate}
}

// Stores генерирует n магазинов с плотными ID 1..n
func (g *Generator) Stores(n int) []entity.Store {
	stores := make([]entity.Store, 0, n)
	types := entity.StoreTypes()

	for i := 1; i <= n; i++ {
		// Слово типа в названии выбирается независимо от атрибута Type
		nameType := rng.Pick(g.rng, types)
		city := rng.Pick(g.rng, cityNames)

		stores = append(stores, entity.Store{
			ID:         i,
			Name:       fmt.Sprintf("%s %s", city, nameType),
			Type:       rng.Pick(g.rng, types),
			City:       rng.Pick(g.rng, cityNames),
			State:      rng.Pick(g.rng, stateAbbrs),
			Country:    "USA",
			OpenedDate: g.rng.DateBetween(g.referenceDate.AddDate(-10, 0, 0), g.referenceDate.AddDate(-1, 0, 0)),
			SizeSqft:   g.rng.IntBetween(5000, 50000),
		})
	}

	return stores
}

// Products генерирует каталог товаров объемом не более n.
//
// Количество на подкатегорию считается как
// n / (числоКатегорий * числоПодкатегорийЭтойКатегории); остаток от
// неточного деления отбрасывается, а не перераспределяется - принятая
// политика недогенерации. Для n=500 получается 484 товара
func (g *Generator) Products(n int) []entity.Product {
	categories := entity.Categories()
	products := make([]entity.Product, 0, n)
	productID := 1

	for _, category := range categories {
		subcategories := category.Subcategories()
		perSubcategory := n / (len(categories) * len(subcategories))

		for _, subcategory := range subcategories {
			for i := 0; i < perSubcategory; i++ {
				retail := round2(g.rng.Float64Between(10, 500))

				products = append(products, entity.Product{
					ID:          productID,
					Name:        fmt.Sprintf("%s %s", rng.Pick(g.rng, productAdjectives), subcategory),
					Category:    category,
					Subcategory: subcategory,
					Brand:       g.companyName(),
					CostPrice:   round2(retail * 0.6),
					RetailPrice: retail,
					Supplier:    g.companyName(),
					CreatedDate: g.rng.DateBetween(g.referenceDate.AddDate(-3, 0, 0), g.referenceDate),
				})
				productID++
			}
		}
	}

	return products
}

// Customers генерирует n покупателей с плотными ID 1..n
func (g *Generator) Customers(n int) []entity.Customer {
	customers := make([]entity.Customer, 0, n)
	segments := entity.Segments()

	for i := 1; i <= n; i++ {
		first := rng.Pick(g.rng, firstNames)
		last := rng.Pick(g.rng, lastNames)

		customers = append(customers, entity.Customer{
			ID:            i,
			FirstName:     first,
			LastName:      last,
			Email:         g.email(first, last, i),
			Phone:         g.phone(),
			Address:       g.streetAddress(),
			City:          rng.Pick(g.rng, cityNames),
			State:         rng.Pick(g.rng, stateAbbrs),
			ZipCode:       fmt.Sprintf("%05d", g.rng.IntBetween(501, 99950)),
			SignupDate:    g.rng.DateBetween(g.referenceDate.AddDate(-5, 0, 0), g.referenceDate),
			Segment:       rng.Pick(g.rng, segments),
			LoyaltyMember: g.rng.Bool(),
		})
	}

	return customers
}

func (g *Generator) companyName() string {
	return fmt.Sprintf("%s %s", rng.Pick(g.rng, companyStems), rng.Pick(g.rng, companySuffixes))
}

// email включает customer id, чтобы адреса были уникальны при
// повторяющихся именах
func (g *Generator) email(first, last string, id int) string {
	return strings.ToLower(fmt.Sprintf("%s.%s%d@%s", first, last, id, rng.Pick(g.rng, emailDomains)))
}

func (g *Generator) phone() string {
	return fmt.Sprintf("(%03d) %03d-%04d",
		g.rng.IntBetween(200, 999),
		g.rng.IntBetween(200, 999),
		g.rng.IntBetween(0, 9999),
	)
}

func (g *Generator) streetAddress() string {
	return fmt.Sprintf("%d %s %s",
		g.rng.IntBetween(1, 9999),
		rng.Pick(g.rng, streetNames),
		rng.Pick(g.rng, streetSuffixes),
	)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
