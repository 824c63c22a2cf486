package repository

import (
	"context"
	"fmt"

	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/entity"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const serviceName = "pipeline-worker-service"

// warehouseRepository реализует WarehouseRepository поверх PostgreSQL
// через pgx. Датасеты заливаются в staging таблицы командой COPY,
// витрина fact_sales перестраивается одним INSERT..SELECT
type warehouseRepository struct {
	pool *pgxpool.Pool
}

// NewWarehouseRepository создает репозиторий хранилища
func NewWarehouseRepository(pool *pgxpool.Pool) WarehouseRepository {
	return &warehouseRepository{pool: pool}
}

// Схема хранилища: staging таблицы повторяют CSV контракт, fact_sales -
// денормализованная витрина для Analytics Service
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS staging_stores (
		store_id INT PRIMARY KEY,
		store_name VARCHAR(200) NOT NULL,
		store_type VARCHAR(20) NOT NULL,
		city VARCHAR(100) NOT NULL,
		state VARCHAR(10) NOT NULL,
		country VARCHAR(50) NOT NULL,
		opened_date DATE NOT NULL,
		size_sqft INT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS staging_products (
		product_id INT PRIMARY KEY,
		product_name VARCHAR(200) NOT NULL,
		category VARCHAR(50) NOT NULL,
		subcategory VARCHAR(50) NOT NULL,
		brand VARCHAR(100) NOT NULL,
		cost_price DECIMAL(10,2) NOT NULL,
		retail_price DECIMAL(10,2) NOT NULL,
		supplier VARCHAR(200) NOT NULL,
		created_date DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS staging_customers (
		customer_id INT PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		email VARCHAR(200) NOT NULL,
		phone VARCHAR(20) NOT NULL,
		address VARCHAR(200) NOT NULL,
		city VARCHAR(100) NOT NULL,
		state VARCHAR(10) NOT NULL,
		zip_code VARCHAR(10) NOT NULL,
		signup_date DATE NOT NULL,
		customer_segment VARCHAR(20) NOT NULL,
		loyalty_member BOOLEAN NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS staging_transactions (
		transaction_id BIGINT NOT NULL,
		transaction_date DATE NOT NULL,
		transaction_time VARCHAR(8) NOT NULL,
		store_id INT NOT NULL,
		customer_id INT NOT NULL,
		product_id INT NOT NULL,
		quantity INT NOT NULL,
		unit_price DECIMAL(10,2) NOT NULL,
		discount_amount DECIMAL(10,2) NOT NULL,
		total_amount DECIMAL(10,2) NOT NULL,
		payment_method VARCHAR(20) NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS fact_sales (
		id BIGSERIAL PRIMARY KEY,
		transaction_id BIGINT NOT NULL,
		transaction_date DATE NOT NULL,
		transaction_time VARCHAR(8) NOT NULL,
		day_type VARCHAR(10) NOT NULL,
		store_id INT NOT NULL,
		store_type VARCHAR(20) NOT NULL,
		city VARCHAR(100) NOT NULL,
		state VARCHAR(10) NOT NULL,
		customer_id INT NOT NULL,
		customer_segment VARCHAR(20) NOT NULL,
		loyalty_member BOOLEAN NOT NULL,
		product_id INT NOT NULL,
		product_name VARCHAR(200) NOT NULL,
		category VARCHAR(50) NOT NULL,
		subcategory VARCHAR(50) NOT NULL,
		quantity INT NOT NULL,
		unit_price DECIMAL(10,2) NOT NULL,
		discount_amount DECIMAL(10,2) NOT NULL,
		total_amount DECIMAL(10,2) NOT NULL,
		unit_cost DECIMAL(10,2) NOT NULL,
		payment_method VARCHAR(20) NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS fact_sales_date_idx ON fact_sales (transaction_date)`,
	`CREATE INDEX IF NOT EXISTS fact_sales_transaction_idx ON fact_sales (transaction_id)`,
	`CREATE INDEX IF NOT EXISTS fact_sales_category_idx ON fact_sales (category)`,
}

// EnsureSchema создает staging таблицы и витрину, если их еще нет
func (r *warehouseRepository) EnsureSchema(ctx context.Context) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDDL, "warehouse")
	defer timer.ObserveDuration()

	for _, stmt := range schemaStatements {
		if _, err := r.pool.Exec(ctx, stmt); err != nil {
			metrics.RecordDbError(serviceName, metrics.DbOpDDL)
			return fmt.Errorf("failed to ensure warehouse schema: %w", err)
		}
	}

	return nil
}

// TruncateStaging очищает staging таблицы перед новой загрузкой
func (r *warehouseRepository) TruncateStaging(ctx context.Context) error {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDDL, "staging")
	defer timer.ObserveDuration()

	_, err := r.pool.Exec(ctx,
		`TRUNCATE staging_stores, staging_products, staging_customers, staging_transactions`)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDDL)
		return fmt.Errorf("failed to truncate staging tables: %w", err)
	}

	return nil
}

// CopyStores заливает магазины в staging_stores через COPY
func (r *warehouseRepository) CopyStores(ctx context.Context, rows []entity.StoreRecord) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpCopy, "staging_stores")
	defer timer.ObserveDuration()

	copied, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"staging_stores"},
		[]string{"store_id", "store_name", "store_type", "city", "state", "country", "opened_date", "size_sqft"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]interface{}, error) {
			s := rows[i]
			return []interface{}{
				s.StoreID, s.StoreName, s.StoreType, s.City, s.State, s.Country, s.OpenedDate, s.SizeSqft,
			}, nil
		}),
	)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpCopy)
		return 0, fmt.Errorf("failed to copy stores: %w", err)
	}

	metrics.WarehouseRowsLoaded.WithLabelValues(entity.DatasetStores).Add(float64(copied))
	return copied, nil
}

// CopyProducts заливает товары в staging_products через COPY
func (r *warehouseRepository) CopyProducts(ctx context.Context, rows []entity.ProductRecord) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpCopy, "staging_products")
	defer timer.ObserveDuration()

	copied, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"staging_products"},
		[]string{"product_id", "product_name", "category", "subcategory", "brand", "cost_price", "retail_price", "supplier", "created_date"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]interface{}, error) {
			p := rows[i]
			return []interface{}{
				p.ProductID, p.ProductName, p.Category, p.Subcategory, p.Brand,
				p.CostPrice, p.RetailPrice, p.Supplier, p.CreatedDate,
			}, nil
		}),
	)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpCopy)
		return 0, fmt.Errorf("failed to copy products: %w", err)
	}

	metrics.WarehouseRowsLoaded.WithLabelValues(entity.DatasetProducts).Add(float64(copied))
	return copied, nil
}

// CopyCustomers заливает покупателей в staging_customers через COPY
func (r *warehouseRepository) CopyCustomers(ctx context.Context, rows []entity.CustomerRecord) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpCopy, "staging_customers")
	defer timer.ObserveDuration()

	copied, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"staging_customers"},
		[]string{"customer_id", "first_name", "last_name", "email", "phone", "address", "city", "state", "zip_code", "signup_date", "customer_segment", "loyalty_member"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]interface{}, error) {
			c := rows[i]
			return []interface{}{
				c.CustomerID, c.FirstName, c.LastName, c.Email, c.Phone, c.Address,
				c.City, c.State, c.ZipCode, c.SignupDate, c.Segment, c.LoyaltyMember,
			}, nil
		}),
	)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpCopy)
		return 0, fmt.Errorf("failed to copy customers: %w", err)
	}

	metrics.WarehouseRowsLoaded.WithLabelValues(entity.DatasetCustomers).Add(float64(copied))
	return copied, nil
}

// CopyTransactions заливает строки транзакций в staging_transactions
// через COPY. Вызывается батчами - файл транзакций самый большой
func (r *warehouseRepository) CopyTransactions(ctx context.Context, rows []entity.TransactionRecord) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpCopy, "staging_transactions")
	defer timer.ObserveDuration()

	copied, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"staging_transactions"},
		[]string{"transaction_id", "transaction_date", "transaction_time", "store_id", "customer_id", "product_id", "quantity", "unit_price", "discount_amount", "total_amount", "payment_method"},
		pgx.CopyFromSlice(len(rows), func(i int) ([]interface{}, error) {
			t := rows[i]
			return []interface{}{
				t.TransactionID, t.TransactionDate, t.TransactionTime, t.StoreID,
				t.CustomerID, t.ProductID, t.Quantity, t.UnitPrice,
				t.DiscountAmount, t.TotalAmount, t.PaymentMethod,
			}, nil
		}),
	)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpCopy)
		return 0, fmt.Errorf("failed to copy transactions: %w", err)
	}

	metrics.WarehouseRowsLoaded.WithLabelValues(entity.DatasetTransactions).Add(float64(copied))
	return copied, nil
}

// RebuildFactSales перестраивает витрину из staging таблиц.
// Витрина очищается и наполняется заново - повторная загрузка одного
// прогона идемпотентна. day_type выводится из даты транзакции:
// суббота и воскресенье - weekend, остальные дни - weekday
func (r *warehouseRepository) RebuildFactSales(ctx context.Context) (int64, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "fact_sales")
	defer timer.ObserveDuration()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin fact rebuild: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `TRUNCATE fact_sales RESTART IDENTITY`); err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpDDL)
		return 0, fmt.Errorf("failed to truncate fact_sales: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO fact_sales (
			transaction_id, transaction_date, transaction_time, day_type,
			store_id, store_type, city, state,
			customer_id, customer_segment, loyalty_member,
			product_id, product_name, category, subcategory,
			quantity, unit_price, discount_amount, total_amount, unit_cost,
			payment_method
		)
		SELECT
			t.transaction_id, t.transaction_date, t.transaction_time,
			CASE WHEN EXTRACT(ISODOW FROM t.transaction_date) >= 6
				THEN 'weekend' ELSE 'weekday' END,
			s.store_id, s.store_type, s.city, s.state,
			c.customer_id, c.customer_segment, c.loyalty_member,
			p.product_id, p.product_name, p.category, p.subcategory,
			t.quantity, t.unit_price, t.discount_amount, t.total_amount,
			p.cost_price, t.payment_method
		FROM staging_transactions t
		JOIN staging_stores s ON s.store_id = t.store_id
		JOIN staging_customers c ON c.customer_id = t.customer_id
		JOIN staging_products p ON p.product_id = t.product_id
		ORDER BY t.transaction_id`)
	if err != nil {
		metrics.RecordDbError(serviceName, metrics.DbOpInsert)
		return 0, fmt.Errorf("failed to rebuild fact_sales: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit fact rebuild: %w", err)
	}

	return tag.RowsAffected(), nil
}
