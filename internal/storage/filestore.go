package storage

import (
	"context"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"scan_report_srv/internal/domain/report"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Схемы, которые уже являются пригодными для открытия ссылками
var remoteSchemes = []string{"http://", "https://", "s3://"}

// FileStore сохраняет вложения отчетов под уникальными именами
type FileStore struct {
	storage Storage
	logger  *logrus.Logger
}

// NewFileStore создает хранилище вложений поверх Storage
func NewFileStore(storage Storage, logger *logrus.Logger) *FileStore {
	return &FileStore{
		storage: storage,
		logger:  logger,
	}
}

// Save сохраняет данные под именем <uuid><расширение исходного файла>
// и возвращает ссылку для поля file_url
func (f *FileStore) Save(ctx context.Context, r io.Reader, originalName string) (string, error) {
	key := uuid.NewString() + filepath.Ext(originalName)

	logger := f.logger.WithFields(logrus.Fields{
		"original_name": originalName,
		"key":           key,
	})

	if err := f.storage.Save(ctx, key, r); err != nil {
		logger.WithError(err).Error("Ошибка сохранения вложения")
		return "", report.E("save attachment", report.KindStorage, err)
	}

	ref, err := f.storage.GetURL(ctx, key)
	if err != nil {
		return "", report.E("save attachment", report.KindStorage, err)
	}

	logger.WithField("reference", ref).Debug("Вложение сохранено")
	return ref, nil
}

// Discard удаляет вложение по ссылке, полученной из Save
func (f *FileStore) Discard(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	key := keyFromReference(ref)
	if err := f.storage.Delete(ctx, key); err != nil {
		return report.E("discard attachment", report.KindStorage, err)
	}
	return nil
}

// Resolve возвращает ссылку на вложение
func (f *FileStore) Resolve(ref string) string {
	return Resolve(ref)
}

// Resolve превращает сохраненную ссылку в URL. Абсолютные URL возвращаются
// как есть. Локальные пути тоже возвращаются как есть: раздача локальных
// файлов не реализована, поэтому такая ссылка работает только на этой машине.
func Resolve(ref string) string {
	return ref
}

// IsRemote сообщает, является ли ссылка абсолютным URL
func IsRemote(ref string) bool {
	lower := strings.ToLower(ref)
	for _, scheme := range remoteSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

func keyFromReference(ref string) string {
	if IsRemote(ref) {
		if u, err := url.Parse(ref); err == nil {
			return path.Base(u.Path)
		}
	}
	return filepath.Base(ref)
}
