package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
	"time"

	"scan_report_srv/internal/domain/report"

	"github.com/sirupsen/logrus"
)

// LoggingMiddleware добавляет логирование к операциям хранилища
type LoggingMiddleware struct {
	storage Storage
	logger  *logrus.Logger
}

// NewLoggingMiddleware создает новый logging middleware
func NewLoggingMiddleware(storage Storage, logger *logrus.Logger) Storage {
	return &LoggingMiddleware{
		storage: storage,
		logger:  logger,
	}
}

// Save логирует операцию сохранения
func (m *LoggingMiddleware) Save(ctx context.Context, key string, reader io.Reader) error {
	start := time.Now()
	logger := m.logger.WithFields(logrus.Fields{
		"operation": "save",
		"key":       key,
	})

	logger.Debug("Начало сохранения файла")

	err := m.storage.Save(ctx, key, reader)

	duration := time.Since(start)
	if err != nil {
		logger.WithError(err).WithField("duration", duration).Error("Ошибка сохранения файла")
	} else {
		logger.WithField("duration", duration).Info("Файл сохранен успешно")
	}

	return err
}

// Delete логирует операцию удаления
func (m *LoggingMiddleware) Delete(ctx context.Context, key string) error {
	start := time.Now()
	logger := m.logger.WithFields(logrus.Fields{
		"operation": "delete",
		"key":       key,
	})

	logger.Debug("Начало удаления файла")

	err := m.storage.Delete(ctx, key)

	duration := time.Since(start)
	if err != nil {
		logger.WithError(err).WithField("duration", duration).Error("Ошибка удаления файла")
	} else {
		logger.WithField("duration", duration).Info("Файл удален успешно")
	}

	return err
}

func (m *LoggingMiddleware) GetURL(ctx context.Context, key string) (string, error) {
	return m.storage.GetURL(ctx, key)
}

func (m *LoggingMiddleware) ValidateKey(key string) error {
	return m.storage.ValidateKey(key)
}

// RetryMiddleware добавляет retry логику к операциям хранилища
type RetryMiddleware struct {
	storage    Storage
	maxRetries int
	retryDelay time.Duration
	logger     *logrus.Logger
}

// NewRetryMiddleware создает новый retry middleware
func NewRetryMiddleware(storage Storage, maxRetries int, retryDelay time.Duration, logger *logrus.Logger) Storage {
	return &RetryMiddleware{
		storage:    storage,
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		logger:     logger,
	}
}

// Save выполняет операцию сохранения с retry. Повтор возможен только
// для reader, который умеет перематываться.
func (m *RetryMiddleware) Save(ctx context.Context, key string, reader io.Reader) error {
	seeker, seekable := reader.(io.Seeker)
	first := true

	return m.retryOperation(ctx, "save", func() (bool, error) {
		if !first {
			if _, err := seeker.Seek(0, io.SeekStart); err != nil {
				return false, fmt.Errorf("ошибка перемотки данных: %w", err)
			}
		}
		first = false
		return seekable, m.storage.Save(ctx, key, reader)
	})
}

// Delete выполняет операцию удаления с retry
func (m *RetryMiddleware) Delete(ctx context.Context, key string) error {
	return m.retryOperation(ctx, "delete", func() (bool, error) {
		return true, m.storage.Delete(ctx, key)
	})
}

// retryOperation выполняет операцию с retry логикой. fn сообщает,
// допустим ли повтор после ошибки.
func (m *RetryMiddleware) retryOperation(ctx context.Context, operation string, fn func() (bool, error)) error {
	var lastErr error

	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		retryable, err := fn()
		lastErr = err
		if lastErr == nil {
			return nil
		}

		if !retryable || !m.shouldRetry(lastErr) {
			break
		}

		if attempt < m.maxRetries {
			m.logger.WithFields(logrus.Fields{
				"operation":   operation,
				"attempt":     attempt + 1,
				"max_retries": m.maxRetries,
			}).WithError(lastErr).Warn("Повтор операции после ошибки")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(m.retryDelay):
			}
		}
	}

	return lastErr
}

// shouldRetry определяет, стоит ли повторять операцию
func (m *RetryMiddleware) shouldRetry(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	// Ошибки файловой системы, которые не исчезнут при повторе
	if errors.Is(err, os.ErrPermission) || errors.Is(err, os.ErrExist) || errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, syscall.ENOTDIR) || errors.Is(err, syscall.EISDIR) || errors.Is(err, syscall.EROFS) {
		return false
	}
	return !report.Is(err, report.KindConfiguration)
}

func (m *RetryMiddleware) GetURL(ctx context.Context, key string) (string, error) {
	return m.storage.GetURL(ctx, key)
}

func (m *RetryMiddleware) ValidateKey(key string) error {
	return m.storage.ValidateKey(key)
}

// ValidationMiddleware добавляет валидацию к операциям хранилища
type ValidationMiddleware struct {
	storage Storage
	logger  *logrus.Logger
}

// NewValidationMiddleware создает новый validation middleware
func NewValidationMiddleware(storage Storage, logger *logrus.Logger) Storage {
	return &ValidationMiddleware{
		storage: storage,
		logger:  logger,
	}
}

// Save выполняет валидацию перед сохранением
func (m *ValidationMiddleware) Save(ctx context.Context, key string, reader io.Reader) error {
	if err := m.validateKey(key); err != nil {
		return err
	}
	return m.storage.Save(ctx, key, reader)
}

// Delete выполняет валидацию перед удалением
func (m *ValidationMiddleware) Delete(ctx context.Context, key string) error {
	if err := m.validateKey(key); err != nil {
		return err
	}
	return m.storage.Delete(ctx, key)
}

func (m *ValidationMiddleware) GetURL(ctx context.Context, key string) (string, error) {
	if err := m.validateKey(key); err != nil {
		return "", err
	}
	return m.storage.GetURL(ctx, key)
}

func (m *ValidationMiddleware) ValidateKey(key string) error {
	return m.storage.ValidateKey(key)
}

// validateKey проверяет ключ средствами нижележащего хранилища
func (m *ValidationMiddleware) validateKey(key string) error {
	if err := m.storage.ValidateKey(key); err != nil {
		m.logger.WithField("key", key).WithError(err).Warn("Недопустимый ключ файла")
		return report.E("validate key", report.KindStorage, err)
	}
	return nil
}
