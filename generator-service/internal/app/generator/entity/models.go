package entity

import (
	"fmt"
	"strconv"
	"time"
)

// StoreType тип магазина (закрытое перечисление)
type StoreType string

const (
	StoreTypeSupermarket StoreType = "Supermarket"
	StoreTypeConvenience StoreType = "Convenience"
	StoreTypeHypermarket StoreType = "Hypermarket"
	StoreTypeExpress     StoreType = "Express"
)

// StoreTypes возвращает все типы магазинов в фиксированном порядке
func StoreTypes() []StoreType {
	return []StoreType{
		StoreTypeSupermarket,
		StoreTypeConvenience,
		StoreTypeHypermarket,
		StoreTypeExpress,
	}
}

// Category категория товара (закрытое перечисление из 5 значений)
// Таблица подкатегорий фиксирована: добавление категории без подкатегорий
// ловится тестом на полноту Subcategories
type Category string

const (
	CategoryElectronics Category = "Electronics"
	CategoryClothing    Category = "Clothing"
	CategoryFood        Category = "Food"
	CategoryHome        Category = "Home"
	CategorySports      Category = "Sports"
)

// Categories возвращает все категории в фиксированном порядке генерации
func Categories() []Category {
	return []Category{
		CategoryElectronics,
		CategoryClothing,
		CategoryFood,
		CategoryHome,
		CategorySports,
	}
}

// Subcategories возвращает закрытый набор подкатегорий категории
func (c Category) Subcategories() []string {
	switch c {
	case CategoryElectronics:
		return []string{"Laptop", "Phone", "Tablet", "Headphones", "Camera", "Smartwatch"}
	case CategoryClothing:
		return []string{"Shirt", "Pants", "Dress", "Jacket", "Shoes", "Accessories"}
	case CategoryFood:
		return []string{"Snacks", "Beverages", "Dairy", "Bakery", "Frozen", "Fresh Produce"}
	case CategoryHome:
		return []string{"Furniture", "Decor", "Kitchen", "Bedding", "Bath", "Garden"}
	case CategorySports:
		return []string{"Equipment", "Apparel", "Footwear", "Accessories", "Outdoor"}
	}
	return nil
}

// Segment сегмент покупателя
type Segment string

const (
	SegmentPremium  Segment = "Premium"
	SegmentStandard Segment = "Standard"
	SegmentBasic    Segment = "Basic"
)

// Segments возвращает все сегменты покупателей
func Segments() []Segment {
	return []Segment{SegmentPremium, SegmentStandard, SegmentBasic}
}

// PaymentMethod способ оплаты
type PaymentMethod string

const (
	PaymentCreditCard    PaymentMethod = "Credit Card"
	PaymentDebitCard     PaymentMethod = "Debit Card"
	PaymentCash          PaymentMethod = "Cash"
	PaymentMobilePayment PaymentMethod = "Mobile Payment"
)

// PaymentMethods возвращает все способы оплаты
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentCreditCard, PaymentDebitCard, PaymentCash, PaymentMobilePayment}
}

// DayType классификация дня для анализа нагрузки
type DayType string

const (
	DayTypeWeekday DayType = "weekday"
	DayTypeWeekend DayType = "weekend"
)

// DayTypeOf классифицирует дату: суббота и воскресенье - weekend
func DayTypeOf(d time.Time) DayType {
	switch d.Weekday() {
	case time.Saturday, time.Sunday:
		return DayTypeWeekend
	default:
		return DayTypeWeekday
	}
}

// Store магазин (dimension). Неизменяем после генерации
type Store struct {
	ID         int
	Name       string
	Type       StoreType
	City       string
	State      string
	Country    string
	OpenedDate time.Time
	SizeSqft   int
}

// Product товар каталога (dimension). Неизменяем после генерации
// Инвариант: CostPrice <= RetailPrice обеспечивается конструкцией
// (cost = retail * 0.6)
type Product struct {
	ID          int
	Name        string
	Category    Category
	Subcategory string
	Brand       string
	CostPrice   float64
	RetailPrice float64
	Supplier    string
	CreatedDate time.Time
}

// Customer покупатель (dimension). Неизменяем после генерации
type Customer struct {
	ID            int
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Address       string
	City          string
	State         string
	ZipCode       string
	SignupDate    time.Time
	Segment       Segment
	LoyaltyMember bool
}

// LineItem одна позиция транзакции (fact). Транзакция состоит из 1-8
// позиций с общим TransactionID; поток упорядочен по (date, transaction_id,
// порядок выборки позиций)
type LineItem struct {
	TransactionID  int64
	Date           time.Time
	Time           string
	StoreID        int
	CustomerID     int
	ProductID      int
	Quantity       int
	UnitPrice      float64
	DiscountAmount float64
	TotalAmount    float64
	PaymentMethod  PaymentMethod
}

// Имена датасетов - контракт для sink, uploader и warehouse loader
const (
	DatasetStores       = "stores"
	DatasetProducts     = "products"
	DatasetCustomers    = "customers"
	DatasetTransactions = "transactions"
)

const dateLayout = "2006-01-02"

// Заголовки CSV - схемный контракт downstream потребителей.
// Порядок колонок и написание литералов фиксированы

func StoreCSVHeader() []string {
	return []string{"store_id", "store_name", "store_type", "city", "state", "country", "opened_date", "size_sqft"}
}

func (s Store) CSVRecord() []string {
	return []string{
		strconv.Itoa(s.ID),
		s.Name,
		string(s.Type),
		s.City,
		s.State,
		s.Country,
		s.OpenedDate.Format(dateLayout),
		strconv.Itoa(s.SizeSqft),
	}
}

func ProductCSVHeader() []string {
	return []string{"product_id", "product_name", "category", "subcategory", "brand", "cost_price", "retail_price", "supplier", "created_date"}
}

func (p Product) CSVRecord() []string {
	return []string{
		strconv.Itoa(p.ID),
		p.Name,
		string(p.Category),
		p.Subcategory,
		p.Brand,
		formatMoney(p.CostPrice),
		formatMoney(p.RetailPrice),
		p.Supplier,
		p.CreatedDate.Format(dateLayout),
	}
}

func CustomerCSVHeader() []string {
	return []string{"customer_id", "first_name", "last_name", "email", "phone", "address", "city", "state", "zip_code", "signup_date", "customer_segment", "loyalty_member"}
}

func (c Customer) CSVRecord() []string {
	loyalty := "False"
	if c.LoyaltyMember {
		loyalty = "True"
	}
	return []string{
		strconv.Itoa(c.ID),
		c.FirstName,
		c.LastName,
		c.Email,
		c.Phone,
		c.Address,
		c.City,
		c.State,
		c.ZipCode,
		c.SignupDate.Format(dateLayout),
		string(c.Segment),
		loyalty,
	}
}

func TransactionCSVHeader() []string {
	return []string{"transaction_id", "transaction_date", "transaction_time", "store_id", "customer_id", "product_id", "quantity", "unit_price", "discount_amount", "total_amount", "payment_method"}
}

func (li LineItem) CSVRecord() []string {
	return []string{
		strconv.FormatInt(li.TransactionID, 10),
		li.Date.Format(dateLayout),
		li.Time,
		strconv.Itoa(li.StoreID),
		strconv.Itoa(li.CustomerID),
		strconv.Itoa(li.ProductID),
		strconv.Itoa(li.Quantity),
		formatMoney(li.UnitPrice),
		formatMoney(li.DiscountAmount),
		formatMoney(li.TotalAmount),
		string(li.PaymentMethod),
	}
}

func formatMoney(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
