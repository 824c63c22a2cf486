package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/SnehaGeorge22/retail-data-pipeline/analytics-service/internal/app/analytics/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// AnalyticsRepositoryTestSuite тестовый suite для репозитория витрины
type AnalyticsRepositoryTestSuite struct {
	suite.Suite
	db    *gorm.DB
	mock  sqlmock.Sqlmock
	repo  AnalyticsRepository
	sqlDB *sql.DB
}

func TestAnalyticsRepositorySuite(t *testing.T) {
	suite.Run(t, new(AnalyticsRepositoryTestSuite))
}

func (s *AnalyticsRepositoryTestSuite) SetupTest() {
	var err error
	s.sqlDB, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	dialector := postgres.New(postgres.Config{
		Conn:       s.sqlDB,
		DriverName: "postgres",
	})

	s.db, err = gorm.Open(dialector, &gorm.Config{})
	require.NoError(s.T(), err)

	s.repo = NewAnalyticsRepository(s.db)
}

func (s *AnalyticsRepositoryTestSuite) TearDownTest() {
	s.sqlDB.Close()
}

func baseFilter() *entity.SalesFilter {
	return &entity.SalesFilter{
		DateFrom: "2025-01-01",
		DateTo:   "2025-03-31",
	}
}

// ===================== Summary Tests =====================

func (s *AnalyticsRepositoryTestSuite) TestSummary_Success() {
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"total_transactions", "unique_customers", "total_revenue", "gross_profit"}).
		AddRow(int64(120), int64(85), 15000.0, 6000.0)

	s.mock.ExpectQuery(`SELECT COUNT\(DISTINCT transaction_id\) AS total_transactions.*FROM "fact_sales" WHERE transaction_date >= \$1 AND transaction_date <= \$2`).
		WithArgs("2025-01-01", "2025-03-31").
		WillReturnRows(rows)

	summary, err := s.repo.Summary(ctx, baseFilter())

	s.NoError(err)
	s.NotNil(summary)
	s.Equal(int64(120), summary.TotalTransactions)
	s.Equal(int64(85), summary.UniqueCustomers)
	s.Equal(15000.0, summary.TotalRevenue)
	s.Equal(6000.0, summary.GrossProfit)
	s.InDelta(125.0, summary.AvgOrderValue, 0.001)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *AnalyticsRepositoryTestSuite) TestSummary_EmptyResult() {
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"total_transactions", "unique_customers", "total_revenue", "gross_profit"}).
		AddRow(int64(0), int64(0), 0.0, 0.0)

	s.mock.ExpectQuery(`SELECT COUNT\(DISTINCT transaction_id\) AS total_transactions.*FROM "fact_sales"`).
		WithArgs("2025-01-01", "2025-03-31").
		WillReturnRows(rows)

	summary, err := s.repo.Summary(ctx, baseFilter())

	s.NoError(err)
	// Нет транзакций - средний чек 0, без деления на ноль
	s.Equal(0.0, summary.AvgOrderValue)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *AnalyticsRepositoryTestSuite) TestSummary_AppliesAllFilters() {
	ctx := context.Background()
	loyalty := true
	filter := &entity.SalesFilter{
		DateFrom:         "2025-01-01",
		DateTo:           "2025-03-31",
		Categories:       []string{"Electronics", "Food"},
		StoreTypes:       []string{"Express"},
		CustomerSegments: []string{"Premium"},
		LoyaltyMember:    &loyalty,
		DayType:          "weekend",
	}

	rows := sqlmock.NewRows([]string{"total_transactions", "unique_customers", "total_revenue", "gross_profit"}).
		AddRow(int64(10), int64(8), 900.0, 360.0)

	s.mock.ExpectQuery(`FROM "fact_sales" WHERE transaction_date >= \$1 AND transaction_date <= \$2 AND category IN \(\$3,\$4\) AND store_type IN \(\$5\) AND customer_segment IN \(\$6\) AND loyalty_member = \$7 AND day_type = \$8`).
		WithArgs("2025-01-01", "2025-03-31", "Electronics", "Food", "Express", "Premium", true, "weekend").
		WillReturnRows(rows)

	summary, err := s.repo.Summary(ctx, filter)

	s.NoError(err)
	s.Equal(int64(10), summary.TotalTransactions)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *AnalyticsRepositoryTestSuite) TestSummary_DBError() {
	ctx := context.Background()

	s.mock.ExpectQuery(`FROM "fact_sales"`).
		WillReturnError(sql.ErrConnDone)

	summary, err := s.repo.Summary(ctx, baseFilter())

	s.Error(err)
	s.Nil(summary)
	s.Contains(err.Error(), "failed to query sales summary")

	s.NoError(s.mock.ExpectationsWereMet())
}

// ===================== Grouped Query Tests =====================

func (s *AnalyticsRepositoryTestSuite) TestRevenueByCategory_Success() {
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"category", "revenue", "quantity"}).
		AddRow("Electronics", 8000.0, int64(120)).
		AddRow("Food", 3000.0, int64(340))

	s.mock.ExpectQuery(`SELECT category.*FROM "fact_sales".*GROUP BY "category" ORDER BY revenue DESC`).
		WithArgs("2025-01-01", "2025-03-31").
		WillReturnRows(rows)

	result, err := s.repo.RevenueByCategory(ctx, baseFilter())

	s.NoError(err)
	s.Len(result, 2)
	s.Equal("Electronics", result[0].Category)
	s.Equal(8000.0, result[0].Revenue)
	s.Equal(int64(340), result[1].Quantity)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *AnalyticsRepositoryTestSuite) TestRevenueByDay_Success() {
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"date", "revenue", "transactions"}).
		AddRow("2025-01-01", 1200.0, int64(15)).
		AddRow("2025-01-02", 980.0, int64(11))

	s.mock.ExpectQuery(`TO_CHAR\(transaction_date, 'YYYY-MM-DD'\) AS date.*GROUP BY "transaction_date" ORDER BY transaction_date`).
		WithArgs("2025-01-01", "2025-03-31").
		WillReturnRows(rows)

	result, err := s.repo.RevenueByDay(ctx, baseFilter())

	s.NoError(err)
	s.Len(result, 2)
	s.Equal("2025-01-01", result[0].Date)
	s.Equal(int64(11), result[1].Transactions)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *AnalyticsRepositoryTestSuite) TestSegmentBreakdown_Success() {
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"segment", "customers", "revenue", "avg_order_value"}).
		AddRow("Premium", int64(30), 9000.0, 300.0).
		AddRow("Basic", int64(55), 4000.0, 80.0)

	s.mock.ExpectQuery(`customer_segment AS segment.*GROUP BY "customer_segment" ORDER BY revenue DESC`).
		WithArgs("2025-01-01", "2025-03-31").
		WillReturnRows(rows)

	result, err := s.repo.SegmentBreakdown(ctx, baseFilter())

	s.NoError(err)
	s.Len(result, 2)
	s.Equal("Premium", result[0].Segment)
	s.Equal(int64(55), result[1].Customers)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *AnalyticsRepositoryTestSuite) TestLoyaltySplit_Success() {
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"loyalty_member", "customers", "revenue", "avg_order_value"}).
		AddRow(true, int64(40), 11000.0, 275.0).
		AddRow(false, int64(45), 4000.0, 88.9)

	s.mock.ExpectQuery(`SELECT loyalty_member.*GROUP BY "loyalty_member" ORDER BY loyalty_member DESC`).
		WithArgs("2025-01-01", "2025-03-31").
		WillReturnRows(rows)

	result, err := s.repo.LoyaltySplit(ctx, baseFilter())

	s.NoError(err)
	s.Len(result, 2)
	s.True(result[0].LoyaltyMember)
	s.False(result[1].LoyaltyMember)

	s.NoError(s.mock.ExpectationsWereMet())
}

func (s *AnalyticsRepositoryTestSuite) TestTopProducts_Success() {
	ctx := context.Background()

	rows := sqlmock.NewRows([]string{"product_id", "product_name", "category", "revenue", "quantity"}).
		AddRow(17, "Premium Wireless Headphones", "Electronics", 4200.0, int64(60))

	s.mock.ExpectQuery(`SELECT product_id, product_name, category.*GROUP BY product_id, product_name, category ORDER BY revenue DESC LIMIT \$3`).
		WithArgs("2025-01-01", "2025-03-31", 10).
		WillReturnRows(rows)

	result, err := s.repo.TopProducts(ctx, baseFilter(), 10)

	s.NoError(err)
	s.Len(result, 1)
	s.Equal(17, result[0].ProductID)
	s.Equal(4200.0, result[0].Revenue)

	s.NoError(s.mock.ExpectationsWereMet())
}
