package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/entity"
	"github.com/SnehaGeorge22/retail-data-pipeline/pipeline-worker-service/internal/app/pipeline-worker/repository/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	storesCSV = `store_id,store_name,store_type,city,state,country,opened_date,size_sqft
1,Springfield Fresh Market,Express,Springfield,IL,USA,2018-04-12,12000
2,Riverside Mega Center,Hypermarket,Riverside,CA,USA,2016-09-01,45000
`
	productsCSV = `product_id,product_name,category,subcategory,brand,cost_price,retail_price,supplier,created_date
1,Classic Laptop,Electronics,Laptop,Nova,300.00,500.00,Nova Supply Co,2019-02-03
`
	customersCSV = `customer_id,first_name,last_name,email,phone,address,city,state,zip_code,signup_date,customer_segment,loyalty_member
1,Alice,Morgan,alice.morgan.1@example.com,(217) 555-0134,12 Oak Street,Springfield,IL,62704,2021-06-15,Premium,True
2,Brian,Lee,brian.lee.2@example.com,(951) 555-0178,98 Elm Avenue,Riverside,CA,92501,2022-01-20,Basic,False
`
	transactionsCSV = `transaction_id,transaction_date,transaction_time,store_id,customer_id,product_id,quantity,unit_price,discount_amount,total_amount,payment_method
1,2025-06-02,10:15:00,1,1,1,2,450.00,100.00,900.00,Card
1,2025-06-02,10:15:00,1,1,1,1,500.00,0.00,500.00,Card
2,2025-06-03,14:30:00,2,2,1,1,500.00,0.00,500.00,Cash
`
)

func writeDataset(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func writeAllDatasets(t *testing.T, dir string) {
	t.Helper()
	writeDataset(t, dir, "stores.csv", storesCSV)
	writeDataset(t, dir, "products.csv", productsCSV)
	writeDataset(t, dir, "customers.csv", customersCSV)
	writeDataset(t, dir, "transactions.csv", transactionsCSV)
}

func newLoadService(dir string) (*LoadService, *mocks.MockWarehouseRepository, *mocks.MockRunRepository) {
	warehouse := new(mocks.MockWarehouseRepository)
	runs := new(mocks.MockRunRepository)
	return NewLoadService(warehouse, runs, dir), warehouse, runs
}

func expectHappyPath(warehouse *mocks.MockWarehouseRepository, runs *mocks.MockRunRepository) {
	runs.On("Create", mock.Anything, mock.AnythingOfType("*entity.PipelineRun")).Return(nil)
	runs.On("Update", mock.Anything, mock.AnythingOfType("*entity.PipelineRun")).Return(nil)
	warehouse.On("EnsureSchema", mock.Anything).Return(nil)
	warehouse.On("TruncateStaging", mock.Anything).Return(nil)
	warehouse.On("CopyStores", mock.Anything, mock.Anything).Return(int64(2), nil)
	warehouse.On("CopyProducts", mock.Anything, mock.Anything).Return(int64(1), nil)
	warehouse.On("CopyCustomers", mock.Anything, mock.Anything).Return(int64(2), nil)
	warehouse.On("CopyTransactions", mock.Anything, mock.Anything).Return(int64(3), nil)
	warehouse.On("RebuildFactSales", mock.Anything).Return(int64(3), nil)
}

func TestLoadRun_Success(t *testing.T) {
	dir := t.TempDir()
	writeAllDatasets(t, dir)

	svc, warehouse, runs := newLoadService(dir)
	expectHappyPath(warehouse, runs)

	err := svc.LoadRun(context.Background(), "run-1", dir)

	require.NoError(t, err)
	warehouse.AssertExpectations(t)
	runs.AssertExpectations(t)
}

func TestLoadRun_ParsesRecords(t *testing.T) {
	dir := t.TempDir()
	writeAllDatasets(t, dir)

	svc, warehouse, runs := newLoadService(dir)
	runs.On("Create", mock.Anything, mock.Anything).Return(nil)
	runs.On("Update", mock.Anything, mock.Anything).Return(nil)
	warehouse.On("EnsureSchema", mock.Anything).Return(nil)
	warehouse.On("TruncateStaging", mock.Anything).Return(nil)

	warehouse.On("CopyStores", mock.Anything, mock.MatchedBy(func(rows []entity.StoreRecord) bool {
		return len(rows) == 2 &&
			rows[0].StoreID == 1 &&
			rows[0].StoreType == "Express" &&
			rows[1].SizeSqft == 45000 &&
			rows[1].OpenedDate.Format("2006-01-02") == "2016-09-01"
	})).Return(int64(2), nil)

	warehouse.On("CopyProducts", mock.Anything, mock.MatchedBy(func(rows []entity.ProductRecord) bool {
		return len(rows) == 1 &&
			rows[0].Category == "Electronics" &&
			rows[0].CostPrice == 300.0 &&
			rows[0].RetailPrice == 500.0
	})).Return(int64(1), nil)

	warehouse.On("CopyCustomers", mock.Anything, mock.MatchedBy(func(rows []entity.CustomerRecord) bool {
		return len(rows) == 2 &&
			rows[0].LoyaltyMember &&
			!rows[1].LoyaltyMember &&
			rows[0].Segment == "Premium"
	})).Return(int64(2), nil)

	warehouse.On("CopyTransactions", mock.Anything, mock.MatchedBy(func(rows []entity.TransactionRecord) bool {
		return len(rows) == 3 &&
			rows[0].TransactionID == 1 &&
			rows[1].TransactionID == 1 &&
			rows[2].TransactionID == 2 &&
			rows[0].Quantity == 2 &&
			rows[0].TotalAmount == 900.0 &&
			rows[2].PaymentMethod == "Cash"
	})).Return(int64(3), nil)

	warehouse.On("RebuildFactSales", mock.Anything).Return(int64(3), nil)

	err := svc.LoadRun(context.Background(), "run-1", dir)

	require.NoError(t, err)
	warehouse.AssertExpectations(t)
}

func TestLoadRun_RecordsManifest(t *testing.T) {
	dir := t.TempDir()
	writeAllDatasets(t, dir)

	svc, warehouse, runs := newLoadService(dir)
	warehouse.On("EnsureSchema", mock.Anything).Return(nil)
	warehouse.On("TruncateStaging", mock.Anything).Return(nil)
	warehouse.On("CopyStores", mock.Anything, mock.Anything).Return(int64(2), nil)
	warehouse.On("CopyProducts", mock.Anything, mock.Anything).Return(int64(1), nil)
	warehouse.On("CopyCustomers", mock.Anything, mock.Anything).Return(int64(2), nil)
	warehouse.On("CopyTransactions", mock.Anything, mock.Anything).Return(int64(3), nil)
	warehouse.On("RebuildFactSales", mock.Anything).Return(int64(3), nil)

	runs.On("Create", mock.Anything, mock.MatchedBy(func(run *entity.PipelineRun) bool {
		return run.RunID == "run-1" && run.Status == entity.RunStatusRunning
	})).Return(nil)
	runs.On("Update", mock.Anything, mock.MatchedBy(func(run *entity.PipelineRun) bool {
		return run.Status == entity.RunStatusCompleted &&
			run.RowCounts["stores"] == 2 &&
			run.RowCounts["transactions"] == 3 &&
			run.FactRows == 3 &&
			!run.FinishedAt.IsZero()
	})).Return(nil)

	err := svc.LoadRun(context.Background(), "run-1", dir)

	require.NoError(t, err)
	runs.AssertExpectations(t)
}

func TestLoadRun_HeaderMismatch(t *testing.T) {
	dir := t.TempDir()
	writeAllDatasets(t, dir)
	// Ломаем контракт: переименован столбец
	writeDataset(t, dir, "stores.csv",
		"store_id,name,store_type,city,state,country,opened_date,size_sqft\n1,X,Express,A,IL,USA,2018-01-01,100\n")

	svc, warehouse, runs := newLoadService(dir)
	runs.On("Create", mock.Anything, mock.Anything).Return(nil)
	warehouse.On("EnsureSchema", mock.Anything).Return(nil)
	warehouse.On("TruncateStaging", mock.Anything).Return(nil)
	runs.On("Update", mock.Anything, mock.MatchedBy(func(run *entity.PipelineRun) bool {
		return run.Status == entity.RunStatusFailed && run.Error != ""
	})).Return(nil)

	err := svc.LoadRun(context.Background(), "run-1", dir)

	assert.ErrorIs(t, err, ErrHeaderMismatch)
	warehouse.AssertNotCalled(t, "CopyStores")
	runs.AssertExpectations(t)
}

func TestLoadRun_MissingDataset(t *testing.T) {
	dir := t.TempDir()
	writeAllDatasets(t, dir)
	require.NoError(t, os.Remove(filepath.Join(dir, "customers.csv")))

	svc, warehouse, runs := newLoadService(dir)
	runs.On("Create", mock.Anything, mock.Anything).Return(nil)
	runs.On("Update", mock.Anything, mock.Anything).Return(nil)
	warehouse.On("EnsureSchema", mock.Anything).Return(nil)
	warehouse.On("TruncateStaging", mock.Anything).Return(nil)
	warehouse.On("CopyStores", mock.Anything, mock.Anything).Return(int64(2), nil)
	warehouse.On("CopyProducts", mock.Anything, mock.Anything).Return(int64(1), nil)

	err := svc.LoadRun(context.Background(), "run-1", dir)

	assert.ErrorIs(t, err, ErrDatasetMissing)
	warehouse.AssertNotCalled(t, "RebuildFactSales")
}

func TestLoadRun_MalformedRecord(t *testing.T) {
	dir := t.TempDir()
	writeAllDatasets(t, dir)
	writeDataset(t, dir, "transactions.csv",
		"transaction_id,transaction_date,transaction_time,store_id,customer_id,product_id,quantity,unit_price,discount_amount,total_amount,payment_method\n"+
			"abc,2025-06-02,10:15:00,1,1,1,2,450.00,100.00,900.00,Card\n")

	svc, warehouse, runs := newLoadService(dir)
	runs.On("Create", mock.Anything, mock.Anything).Return(nil)
	runs.On("Update", mock.Anything, mock.Anything).Return(nil)
	warehouse.On("EnsureSchema", mock.Anything).Return(nil)
	warehouse.On("TruncateStaging", mock.Anything).Return(nil)
	warehouse.On("CopyStores", mock.Anything, mock.Anything).Return(int64(2), nil)
	warehouse.On("CopyProducts", mock.Anything, mock.Anything).Return(int64(1), nil)
	warehouse.On("CopyCustomers", mock.Anything, mock.Anything).Return(int64(2), nil)

	err := svc.LoadRun(context.Background(), "run-1", dir)

	assert.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "transaction_id")
}

func TestHandleDatasetEvent_TriggersLoadOnTransactions(t *testing.T) {
	dir := t.TempDir()
	writeAllDatasets(t, dir)

	svc, warehouse, runs := newLoadService("unused")
	expectHappyPath(warehouse, runs)

	event := &entity.DatasetEvent{
		EventType: entity.EventDatasetPublished,
		RunID:     "run-42",
		Dataset:   entity.DatasetTransactions,
		LocalPath: dir,
	}

	err := svc.HandleDatasetEvent(context.Background(), event)

	require.NoError(t, err)
	warehouse.AssertCalled(t, "RebuildFactSales", mock.Anything)
}

func TestHandleDatasetEvent_IgnoresDimensionDatasets(t *testing.T) {
	svc, warehouse, runs := newLoadService("unused")

	for _, dataset := range []string{entity.DatasetStores, entity.DatasetProducts, entity.DatasetCustomers} {
		event := &entity.DatasetEvent{
			EventType: entity.EventDatasetPublished,
			RunID:     "run-42",
			Dataset:   dataset,
		}
		require.NoError(t, svc.HandleDatasetEvent(context.Background(), event))
	}

	warehouse.AssertNotCalled(t, "EnsureSchema")
	runs.AssertNotCalled(t, "Create")
}

func TestHandleDatasetEvent_IgnoresUnknownEventType(t *testing.T) {
	svc, warehouse, _ := newLoadService("unused")

	event := &entity.DatasetEvent{
		EventType: "RUN_COMPLETED",
		Dataset:   entity.DatasetTransactions,
	}

	require.NoError(t, svc.HandleDatasetEvent(context.Background(), event))
	warehouse.AssertNotCalled(t, "EnsureSchema")
}

func TestLoadRun_TransactionBatching(t *testing.T) {
	dir := t.TempDir()
	writeAllDatasets(t, dir)

	// Файл больше одного батча: заголовок + transactionBatchSize + 5 строк
	var b []byte
	b = append(b, []byte("transaction_id,transaction_date,transaction_time,store_id,customer_id,product_id,quantity,unit_price,discount_amount,total_amount,payment_method\n")...)
	for i := 0; i < transactionBatchSize+5; i++ {
		b = append(b, []byte("1,2025-06-02,10:15:00,1,1,1,1,10.00,0.00,10.00,Cash\n")...)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "transactions.csv"), b, 0o644))

	svc, warehouse, runs := newLoadService(dir)
	runs.On("Create", mock.Anything, mock.Anything).Return(nil)
	runs.On("Update", mock.Anything, mock.Anything).Return(nil)
	warehouse.On("EnsureSchema", mock.Anything).Return(nil)
	warehouse.On("TruncateStaging", mock.Anything).Return(nil)
	warehouse.On("CopyStores", mock.Anything, mock.Anything).Return(int64(2), nil)
	warehouse.On("CopyProducts", mock.Anything, mock.Anything).Return(int64(1), nil)
	warehouse.On("CopyCustomers", mock.Anything, mock.Anything).Return(int64(2), nil)

	warehouse.On("CopyTransactions", mock.Anything, mock.MatchedBy(func(rows []entity.TransactionRecord) bool {
		return len(rows) == transactionBatchSize
	})).Return(int64(transactionBatchSize), nil).Once()
	warehouse.On("CopyTransactions", mock.Anything, mock.MatchedBy(func(rows []entity.TransactionRecord) bool {
		return len(rows) == 5
	})).Return(int64(5), nil).Once()

	warehouse.On("RebuildFactSales", mock.Anything).Return(int64(transactionBatchSize+5), nil)

	err := svc.LoadRun(context.Background(), "run-1", dir)

	require.NoError(t, err)
	warehouse.AssertExpectations(t)
}
