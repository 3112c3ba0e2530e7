package storage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"scan_report_srv/internal/config"
	"scan_report_srv/internal/domain/report"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// S3Config конфигурация S3 хранилища
type S3Config struct {
	Region         string
	Bucket         string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
}

// S3Storage реализация хранилища для S3-совместимых сервисов
type S3Storage struct {
	client   *s3.Client
	bucket   string
	region   string
	endpoint string
	logger   *logrus.Logger
}

// NewS3Storage создает новое S3 хранилище
func NewS3Storage(ctx context.Context, cfg S3Config, logger *logrus.Logger) (*S3Storage, error) {
	if err := validateS3Config(cfg); err != nil {
		return nil, report.E("s3 storage", report.KindConfiguration, fmt.Errorf("неверная конфигурация S3: %w", err))
	}

	opts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, report.E("s3 storage", report.KindConfiguration, fmt.Errorf("ошибка загрузки AWS конфигурации: %w", err))
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.ForcePathStyle
		if cfg.Endpoint != "" {
			// S3-совместимые сервисы не всегда понимают контрольные суммы по умолчанию
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		}
	})

	return &S3Storage{
		client:   client,
		bucket:   cfg.Bucket,
		region:   cfg.Region,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		logger:   logger,
	}, nil
}

// Save сохраняет файл в S3
func (s *S3Storage) Save(ctx context.Context, key string, reader io.Reader) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   reader,
	}
	if ct := mime.TypeByExtension(path.Ext(key)); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return report.E("save file", report.KindStorage, fmt.Errorf("ошибка сохранения файла в S3: %w", err))
	}
	return nil
}

// Delete удаляет файл из S3
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return report.E("delete file", report.KindStorage, fmt.Errorf("ошибка удаления файла из S3: %w", err))
	}
	return nil
}

// GetURL возвращает URL объекта
func (s *S3Storage) GetURL(ctx context.Context, key string) (string, error) {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, key), nil
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}

// ValidateKey валидирует ключ файла
func (s *S3Storage) ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("ключ файла не может быть пустым")
	}
	if len(key) > 1024 {
		return fmt.Errorf("ключ файла слишком длинный: %d символов (максимум 1024)", len(key))
	}
	return nil
}

// validateS3Config валидирует конфигурацию S3
func validateS3Config(cfg S3Config) error {
	if cfg.Region == "" {
		return fmt.Errorf("регион S3 не может быть пустым")
	}
	if cfg.Bucket == "" {
		return fmt.Errorf("bucket S3 не может быть пустым")
	}
	if (cfg.AccessKey == "") != (cfg.SecretKey == "") {
		return fmt.Errorf("access key и secret key задаются вместе")
	}
	return nil
}

// NewStorageFromConfig создает хранилище из конфигурации приложения.
// Вызывается один раз при старте.
func NewStorageFromConfig(cfg config.Config, logger *logrus.Logger) (Storage, error) {
	var (
		backend Storage
		err     error
	)

	switch cfg.Storage.Type {
	case StorageTypeS3:
		logger.WithFields(logrus.Fields{
			"bucket":   cfg.Storage.S3.Bucket,
			"endpoint": cfg.Storage.S3.Endpoint,
		}).Warn("Включено удаленное хранилище S3: вложения уходят в бакет, а не на локальный диск")

		backend, err = NewS3Storage(context.Background(), S3Config{
			Region:         cfg.Storage.S3.Region,
			Bucket:         cfg.Storage.S3.Bucket,
			Endpoint:       cfg.Storage.S3.Endpoint,
			AccessKey:      cfg.Storage.S3.AccessKey,
			SecretKey:      cfg.Storage.S3.SecretKey,
			ForcePathStyle: cfg.Storage.S3.Endpoint != "",
		}, logger)

	case StorageTypeLocal:
		backend, err = NewLocalStorage(LocalConfig{
			BasePath:    cfg.Storage.BasePath,
			Permissions: 0755,
		}, logger)

	default:
		return nil, report.E("storage", report.KindConfiguration, fmt.Errorf("неподдерживаемый тип хранилища: %s", cfg.Storage.Type))
	}
	if err != nil {
		return nil, err
	}

	return wrapWithMiddleware(backend, logger), nil
}

// wrapWithMiddleware оборачивает хранилище в middleware
func wrapWithMiddleware(storage Storage, logger *logrus.Logger) Storage {
	storage = NewLoggingMiddleware(storage, logger)
	storage = NewRetryMiddleware(storage, DefaultMaxRetries, DefaultRetryDelay, logger)
	return NewValidationMiddleware(storage, logger)
}
