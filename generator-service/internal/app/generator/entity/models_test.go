package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategories_AllHaveSubcategories(t *testing.T) {
	// Каждая категория закрытого перечисления обязана иметь
	// непустой набор подкатегорий
	for _, c := range Categories() {
		subs := c.Subcategories()
		require.NotEmpty(t, subs, "category %s has no subcategories", c)
	}
}

func TestCategories_UnknownCategoryHasNone(t *testing.T) {
	assert.Nil(t, Category("Toys").Subcategories())
}

func TestCategories_SubcategoryCounts(t *testing.T) {
	expected := map[Category]int{
		CategoryElectronics: 6,
		CategoryClothing:    6,
		CategoryFood:        6,
		CategoryHome:        6,
		CategorySports:      5,
	}

	require.Len(t, Categories(), len(expected))
	for c, n := range expected {
		assert.Len(t, c.Subcategories(), n, "category %s", c)
	}
}

func TestDayTypeOf(t *testing.T) {
	// 2025-06-02 понедельник, 2025-06-07 суббота, 2025-06-08 воскресенье
	monday := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	sunday := time.Date(2025, 6, 8, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, DayTypeWeekday, DayTypeOf(monday))
	assert.Equal(t, DayTypeWeekend, DayTypeOf(saturday))
	assert.Equal(t, DayTypeWeekend, DayTypeOf(sunday))
}

func TestCSVHeaders_ColumnContract(t *testing.T) {
	// Контракт схемы downstream потребителей: количество и порядок колонок
	assert.Len(t, StoreCSVHeader(), 8)
	assert.Len(t, ProductCSVHeader(), 9)
	assert.Len(t, CustomerCSVHeader(), 12)
	assert.Len(t, TransactionCSVHeader(), 11)

	assert.Equal(t, "store_id", StoreCSVHeader()[0])
	assert.Equal(t, "created_date", ProductCSVHeader()[8])
	assert.Equal(t, "loyalty_member", CustomerCSVHeader()[11])
	assert.Equal(t, "payment_method", TransactionCSVHeader()[10])
}

func TestLineItem_CSVRecord(t *testing.T) {
	li := LineItem{
		TransactionID:  42,
		Date:           time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		Time:           "14:07:00",
		StoreID:        3,
		CustomerID:     17,
		ProductID:      256,
		Quantity:       2,
		UnitPrice:      95.5,
		DiscountAmount: 10.05,
		TotalAmount:    191.0,
		PaymentMethod:  PaymentCash,
	}

	record := li.CSVRecord()
	require.Len(t, record, len(TransactionCSVHeader()))
	assert.Equal(t, []string{
		"42", "2025-03-15", "14:07:00", "3", "17", "256", "2",
		"95.50", "10.05", "191.00", "Cash",
	}, record)
}

func TestCustomer_CSVRecord_LoyaltyLiteral(t *testing.T) {
	c := Customer{
		ID: 1, FirstName: "Ada", LastName: "Byron",
		SignupDate:    time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
		Segment:       SegmentPremium,
		LoyaltyMember: true,
	}
	record := c.CSVRecord()
	require.Len(t, record, len(CustomerCSVHeader()))
	assert.Equal(t, "True", record[11])

	c.LoyaltyMember = false
	assert.Equal(t, "False", c.CSVRecord()[11])
}
