package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Имена датасетов пайплайна
const (
	DatasetStores       = "stores"
	DatasetProducts     = "products"
	DatasetCustomers    = "customers"
	DatasetTransactions = "transactions"
)

// EventDatasetPublished - генератор опубликовал датасет
const EventDatasetPublished = "DATASET_PUBLISHED"

// DatasetEvent - событие пайплайна из топика pipeline_events
type DatasetEvent struct {
	EventType     string    `json:"event_type"`
	RunID         string    `json:"run_id"`
	Dataset       string    `json:"dataset"`
	RowCount      int64     `json:"row_count"`
	LocalPath     string    `json:"local_path"`
	ObjectKey     string    `json:"object_key"`
	PartitionDate string    `json:"partition_date"`
	Timestamp     time.Time `json:"timestamp"`
}

// Статусы прогона загрузки
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// PipelineRun - манифест прогона загрузки хранилища, хранится в MongoDB
type PipelineRun struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RunID      string             `bson:"run_id" json:"run_id"`
	Status     string             `bson:"status" json:"status"`
	RowCounts  map[string]int64   `bson:"row_counts" json:"row_counts"`
	FactRows   int64              `bson:"fact_rows" json:"fact_rows"`
	Error      string             `bson:"error,omitempty" json:"error,omitempty"`
	StartedAt  time.Time          `bson:"started_at" json:"started_at"`
	FinishedAt time.Time          `bson:"finished_at,omitempty" json:"finished_at,omitempty"`
}

// Ожидаемые заголовки CSV датасетов. Загрузчик отклоняет файл
// с любым отклонением от контракта
var (
	StoreCSVHeader = []string{
		"store_id", "store_name", "store_type", "city", "state", "country",
		"opened_date", "size_sqft",
	}
	ProductCSVHeader = []string{
		"product_id", "product_name", "category", "subcategory", "brand",
		"cost_price", "retail_price", "supplier", "created_date",
	}
	CustomerCSVHeader = []string{
		"customer_id", "first_name", "last_name", "email", "phone", "address",
		"city", "state", "zip_code", "signup_date", "customer_segment",
		"loyalty_member",
	}
	TransactionCSVHeader = []string{
		"transaction_id", "transaction_date", "transaction_time", "store_id",
		"customer_id", "product_id", "quantity", "unit_price",
		"discount_amount", "total_amount", "payment_method",
	}
)

// StoreRecord - строка stores.csv для загрузки в staging
type StoreRecord struct {
	StoreID    int
	StoreName  string
	StoreType  string
	City       string
	State      string
	Country    string
	OpenedDate time.Time
	SizeSqft   int
}

// ProductRecord - строка products.csv для загрузки в staging
type ProductRecord struct {
	ProductID   int
	ProductName string
	Category    string
	Subcategory string
	Brand       string
	CostPrice   float64
	RetailPrice float64
	Supplier    string
	CreatedDate time.Time
}

// CustomerRecord - строка customers.csv для загрузки в staging
type CustomerRecord struct {
	CustomerID    int
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Address       string
	City          string
	State         string
	ZipCode       string
	SignupDate    time.Time
	Segment       string
	LoyaltyMember bool
}

// TransactionRecord - строка transactions.csv для загрузки в staging
type TransactionRecord struct {
	TransactionID   int64
	TransactionDate time.Time
	TransactionTime string
	StoreID         int
	CustomerID      int
	ProductID       int
	Quantity        int
	UnitPrice       float64
	DiscountAmount  float64
	TotalAmount     float64
	PaymentMethod   string
}
