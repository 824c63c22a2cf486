package entity

import "time"

// FactSale - строка витрины продаж fact_sales.
// Витрина денормализована: измерения (магазин, товар, покупатель) уже
// приклеены загрузчиком pipeline-worker-service, day_type вычислен из
// даты транзакции при загрузке
type FactSale struct {
	ID              int64     `json:"id" gorm:"column:id;primaryKey;autoIncrement"`
	TransactionID   int64     `json:"transaction_id" gorm:"column:transaction_id;not null;index"`
	TransactionDate time.Time `json:"transaction_date" gorm:"column:transaction_date;type:date;not null;index"`
	TransactionTime string    `json:"transaction_time" gorm:"column:transaction_time;type:varchar(8);not null"`
	DayType         string    `json:"day_type" gorm:"column:day_type;type:varchar(10);not null"`

	StoreID   int    `json:"store_id" gorm:"column:store_id;not null"`
	StoreType string `json:"store_type" gorm:"column:store_type;type:varchar(20);not null"`
	City      string `json:"city" gorm:"column:city;type:varchar(100);not null"`
	State     string `json:"state" gorm:"column:state;type:varchar(10);not null"`

	CustomerID      int    `json:"customer_id" gorm:"column:customer_id;not null"`
	CustomerSegment string `json:"customer_segment" gorm:"column:customer_segment;type:varchar(20);not null"`
	LoyaltyMember   bool   `json:"loyalty_member" gorm:"column:loyalty_member;not null"`

	ProductID   int    `json:"product_id" gorm:"column:product_id;not null"`
	ProductName string `json:"product_name" gorm:"column:product_name;type:varchar(200);not null"`
	Category    string `json:"category" gorm:"column:category;type:varchar(50);not null"`
	Subcategory string `json:"subcategory" gorm:"column:subcategory;type:varchar(50);not null"`

	Quantity       int     `json:"quantity" gorm:"column:quantity;not null"`
	UnitPrice      float64 `json:"unit_price" gorm:"column:unit_price;type:decimal(10,2);not null"`
	DiscountAmount float64 `json:"discount_amount" gorm:"column:discount_amount;type:decimal(10,2);not null"`
	TotalAmount    float64 `json:"total_amount" gorm:"column:total_amount;type:decimal(10,2);not null"`
	UnitCost       float64 `json:"unit_cost" gorm:"column:unit_cost;type:decimal(10,2);not null"`
	PaymentMethod  string  `json:"payment_method" gorm:"column:payment_method;type:varchar(20);not null"`
}

func (FactSale) TableName() string {
	return "fact_sales"
}

// Канонические значения фильтров. Витрина хранит значения измерений
// в этом регистре; входные фильтры нормализуются к нему
var (
	ValidCategories = []string{"Electronics", "Clothing", "Food", "Home", "Sports"}
	ValidStoreTypes = []string{"Supermarket", "Convenience", "Hypermarket", "Express"}
	ValidSegments   = []string{"Premium", "Standard", "Basic"}
	ValidDayTypes   = []string{"weekday", "weekend"}
)
