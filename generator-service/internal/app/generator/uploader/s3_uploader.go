package uploader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/logger"
	"github.com/SnehaGeorge22/retail-data-pipeline/pkg/metrics"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrNoDatasets = errors.New("no csv datasets found in directory")

// ObjectStorageClient - используемое подмножество S3 API, за интерфейсом
// для подмены в тестах
type ObjectStorageClient interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// Config настройки подключения к object storage
type Config struct {
	Bucket   string
	Region   string
	Endpoint string // Кастомный endpoint для MinIO/LocalStack
	Prefix   string // Префикс ключей, например "raw"
}

// Uploader выгружает опубликованные CSV датасеты в object storage,
// партиционируя ключи по дате генерации:
// <prefix>/<dataset>/date=<YYYY-MM-DD>/<dataset>.csv
//
// Повторная выгрузка того же прогона перезаписывает партицию, а не
// создает дубликат. Retry/backoff здесь намеренно нет
type Uploader struct {
	client ObjectStorageClient
	bucket string
	prefix string
}

// New создает uploader с реальным S3 клиентом
func New(ctx context.Context, cfg Config) (*Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	clientOpts := func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // Требуется для MinIO/LocalStack
		}
	}

	return NewWithClient(s3.NewFromConfig(awsCfg, clientOpts), cfg.Bucket, cfg.Prefix), nil
}

// NewWithClient создает uploader поверх готового клиента (тесты)
func NewWithClient(client ObjectStorageClient, bucket, prefix string) *Uploader {
	return &Uploader{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// EnsureBucket создает bucket, если его еще нет
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	_, err := u.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(u.bucket)})
	if err == nil {
		return nil
	}

	if _, err := u.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(u.bucket)}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", u.bucket, err)
	}
	logger.Info().Str("bucket", u.bucket).Msg("Created bucket")
	return nil
}

// ObjectKey возвращает партиционированный ключ датасета
func (u *Uploader) ObjectKey(dataset string, partitionDate time.Time) string {
	return fmt.Sprintf("%s/%s/date=%s/%s.csv", u.prefix, dataset, partitionDate.Format("2006-01-02"), dataset)
}

// UploadFile выгружает один файл под заданным ключом
func (u *Uploader) UploadFile(ctx context.Context, localPath, key string) (int64, error) {
	dataset := strings.TrimSuffix(filepath.Base(localPath), ".csv")
	timer := metrics.NewS3UploadTimer("generator", dataset)

	f, err := os.Open(localPath)
	if err != nil {
		timer.Error()
		return 0, fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		timer.Error()
		return 0, fmt.Errorf("failed to stat %s: %w", localPath, err)
	}

	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		timer.Error()
		return 0, fmt.Errorf("failed to upload %s: %w", key, err)
	}

	timer.Success(info.Size())
	logger.Info().
		Str("key", key).
		Int64("bytes", info.Size()).
		Msg("Uploaded dataset file")

	return info.Size(), nil
}

// UploadDirectory выгружает все CSV файлы каталога в партицию даты
// partitionDate. Возвращает ключи по именам датасетов
func (u *Uploader) UploadDirectory(ctx context.Context, dir string, partitionDate time.Time) (map[string]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDatasets, dir)
	}

	keys := make(map[string]string, len(paths))
	for _, path := range paths {
		dataset := strings.TrimSuffix(filepath.Base(path), ".csv")
		key := u.ObjectKey(dataset, partitionDate)

		if _, err := u.UploadFile(ctx, path, key); err != nil {
			return nil, err
		}
		keys[dataset] = key
	}

	return keys, nil
}

// ObjectInfo описание объекта в хранилище
type ObjectInfo struct {
	Key  string
	Size int64
}

// List возвращает объекты под префиксом
func (u *Uploader) List(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	out, err := u.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(u.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list objects: %w", err)
	}

	infos := make([]ObjectInfo, 0, len(out.Contents))
	for _, obj := range out.Contents {
		infos = append(infos, ObjectInfo{Key: aws.ToString(obj.Key), Size: aws.ToInt64(obj.Size)})
	}
	return infos, nil
}
