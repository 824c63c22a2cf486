package entity

// SalesFilter - фильтр аналитических запросов.
// Пустой мультиселект означает "все значения" и не добавляет предикат.
// Значения перечислений принимаются без учета регистра и нормализуются
// к каноническому виду перед запросом к витрине
type SalesFilter struct {
	DateFrom string `form:"date_from" json:"date_from" validate:"required,datetime=2006-01-02"`
	DateTo   string `form:"date_to" json:"date_to" validate:"required,datetime=2006-01-02"`

	Categories       []string `form:"category" json:"categories" validate:"omitempty,dive,min=1"`
	StoreTypes       []string `form:"store_type" json:"store_types" validate:"omitempty,dive,min=1"`
	CustomerSegments []string `form:"segment" json:"customer_segments" validate:"omitempty,dive,min=1"`

	// nil - обе группы, true/false - только участники/не участники
	LoyaltyMember *bool `form:"loyalty_member" json:"loyalty_member,omitempty"`

	DayType string `form:"day_type" json:"day_type,omitempty" validate:"omitempty,min=1"`
}

// SalesSummary - сводные KPI по отфильтрованным продажам
type SalesSummary struct {
	TotalTransactions int64   `json:"total_transactions"`
	UniqueCustomers   int64   `json:"unique_customers"`
	TotalRevenue      float64 `json:"total_revenue"`
	AvgOrderValue     float64 `json:"avg_order_value"`
	GrossProfit       float64 `json:"gross_profit"`
}

// CategoryRevenue - выручка по категории товаров
type CategoryRevenue struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
	Quantity int64   `json:"quantity"`
}

// DailyRevenue - выручка по дням
type DailyRevenue struct {
	Date         string  `json:"date"`
	Revenue      float64 `json:"revenue"`
	Transactions int64   `json:"transactions"`
}

// SegmentStats - разрез по сегментам покупателей
type SegmentStats struct {
	Segment       string  `json:"segment"`
	Customers     int64   `json:"customers"`
	Revenue       float64 `json:"revenue"`
	AvgOrderValue float64 `json:"avg_order_value"`
}

// LoyaltyStats - сравнение участников программы лояльности и остальных
type LoyaltyStats struct {
	LoyaltyMember bool    `json:"loyalty_member"`
	Customers     int64   `json:"customers"`
	Revenue       float64 `json:"revenue"`
	AvgOrderValue float64 `json:"avg_order_value"`
}

// ProductRevenue - топ товаров по выручке
type ProductRevenue struct {
	ProductID   int     `json:"product_id"`
	ProductName string  `json:"product_name"`
	Category    string  `json:"category"`
	Revenue     float64 `json:"revenue"`
	Quantity    int64   `json:"quantity"`
}

// ErrorResponse - стандартный формат ошибки API
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
