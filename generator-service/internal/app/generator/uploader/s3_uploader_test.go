package uploader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockS3Client struct {
	mock.Mock
}

func (m *mockS3Client) HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadBucketOutput), args.Error(1)
}

func (m *mockS3Client) CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.CreateBucketOutput), args.Error(1)
}

func (m *mockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *mockS3Client) ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.ListObjectsV2Output), args.Error(1)
}

func TestObjectKey_PartitionLayout(t *testing.T) {
	u := NewWithClient(new(mockS3Client), "retail-data", "raw")

	key := u.ObjectKey("transactions", time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC))
	assert.Equal(t, "raw/transactions/date=2025-03-15/transactions.csv", key)
}

func TestUploadDirectory_UploadsEveryDataset(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"stores", "products"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name+".csv"), []byte("id\n1\n"), 0o644))
	}

	client := new(mockS3Client)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return *in.Bucket == "retail-data"
	})).Return(&s3.PutObjectOutput{}, nil).Twice()

	u := NewWithClient(client, "retail-data", "raw")
	keys, err := u.UploadDirectory(context.Background(), dir, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"stores":   "raw/stores/date=2025-03-15/stores.csv",
		"products": "raw/products/date=2025-03-15/products.csv",
	}, keys)
	client.AssertExpectations(t)
}

func TestUploadDirectory_EmptyDirectoryFails(t *testing.T) {
	u := NewWithClient(new(mockS3Client), "retail-data", "raw")

	_, err := u.UploadDirectory(context.Background(), t.TempDir(), time.Now())
	assert.ErrorIs(t, err, ErrNoDatasets)
}

func TestUploadDirectory_PutErrorAborts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stores.csv"), []byte("id\n1\n"), 0o644))

	client := new(mockS3Client)
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	u := NewWithClient(client, "retail-data", "raw")
	_, err := u.UploadDirectory(context.Background(), dir, time.Now())
	assert.ErrorContains(t, err, "access denied")
}

func TestEnsureBucket_CreatesWhenMissing(t *testing.T) {
	client := new(mockS3Client)
	client.On("HeadBucket", mock.Anything, mock.Anything).Return(nil, errors.New("not found"))
	client.On("CreateBucket", mock.Anything, mock.MatchedBy(func(in *s3.CreateBucketInput) bool {
		return *in.Bucket == "retail-data"
	})).Return(&s3.CreateBucketOutput{}, nil)

	u := NewWithClient(client, "retail-data", "raw")
	require.NoError(t, u.EnsureBucket(context.Background()))
	client.AssertExpectations(t)
}

func TestEnsureBucket_ExistingBucketNoop(t *testing.T) {
	client := new(mockS3Client)
	client.On("HeadBucket", mock.Anything, mock.Anything).Return(&s3.HeadBucketOutput{}, nil)

	u := NewWithClient(client, "retail-data", "raw")
	require.NoError(t, u.EnsureBucket(context.Background()))
	client.AssertNotCalled(t, "CreateBucket", mock.Anything, mock.Anything)
}
