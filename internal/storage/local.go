package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"scan_report_srv/internal/domain/report"

	"github.com/sirupsen/logrus"
)

// LocalConfig конфигурация локального хранилища
type LocalConfig struct {
	BasePath    string
	Permissions os.FileMode
}

// LocalStorage реализация локального файлового хранилища
type LocalStorage struct {
	basePath    string
	permissions os.FileMode
	logger      *logrus.Logger
}

// NewLocalStorage создает локальное хранилище и его базовую директорию
func NewLocalStorage(cfg LocalConfig, logger *logrus.Logger) (*LocalStorage, error) {
	if err := validateLocalConfig(cfg); err != nil {
		return nil, report.E("local storage", report.KindConfiguration, fmt.Errorf("неверная конфигурация локального хранилища: %w", err))
	}

	perm := cfg.Permissions
	if perm == 0 {
		perm = 0755
	}

	if err := os.MkdirAll(cfg.BasePath, perm); err != nil {
		return nil, report.E("local storage", report.KindStorage, fmt.Errorf("ошибка создания базовой директории: %w", err))
	}

	return &LocalStorage{
		basePath:    cfg.BasePath,
		permissions: perm,
		logger:      logger,
	}, nil
}

// Save сохраняет файл локально
func (l *LocalStorage) Save(ctx context.Context, key string, reader io.Reader) error {
	fullPath := l.getFullPath(key)

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
	if err != nil {
		return report.E("save file", report.KindStorage, fmt.Errorf("ошибка создания файла: %w", err))
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		os.Remove(fullPath)
		return report.E("save file", report.KindStorage, fmt.Errorf("ошибка записи файла: %w", err))
	}

	if err := file.Close(); err != nil {
		os.Remove(fullPath)
		return report.E("save file", report.KindStorage, fmt.Errorf("ошибка закрытия файла: %w", err))
	}

	return nil
}

// Delete удаляет файл локально
func (l *LocalStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(l.getFullPath(key))
	if err != nil && !os.IsNotExist(err) {
		return report.E("delete file", report.KindStorage, fmt.Errorf("ошибка удаления файла: %w", err))
	}
	return nil
}

// GetURL возвращает локальный путь к файлу. Локальные файлы не раздаются по HTTP.
func (l *LocalStorage) GetURL(ctx context.Context, key string) (string, error) {
	return l.getFullPath(key), nil
}

// ValidateKey валидирует ключ файла
func (l *LocalStorage) ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("ключ файла не может быть пустым")
	}
	if strings.Contains(key, "..") || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("ключ файла не может содержать путь: %s", key)
	}
	return nil
}

// getFullPath возвращает полный путь к файлу
func (l *LocalStorage) getFullPath(key string) string {
	return filepath.Join(l.basePath, key)
}

// validateLocalConfig валидирует конфигурацию локального хранилища
func validateLocalConfig(cfg LocalConfig) error {
	if strings.TrimSpace(cfg.BasePath) == "" {
		return fmt.Errorf("базовый путь не может быть пустым")
	}
	return nil
}
