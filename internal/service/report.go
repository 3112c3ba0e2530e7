package service

import (
	"context"
	"io"

	"scan_report_srv/internal/domain/report"
	"scan_report_srv/internal/models"
	"scan_report_srv/internal/usecase/repository"

	"github.com/sirupsen/logrus"
)

// ReportService интерфейс для работы с отчетами о снимках
type ReportService interface {
	Submit(ctx context.Context, in report.Input, attachment *Attachment) (*models.ScanReport, error)
	List(ctx context.Context) ([]models.ScanReport, error)
	Search(ctx context.Context, name string) ([]models.ScanReport, error)
	ResolveFileURL(ref string) string
}

// FileStore интерфейс хранилища вложений
type FileStore interface {
	Save(ctx context.Context, r io.Reader, originalName string) (string, error)
	Discard(ctx context.Context, ref string) error
	Resolve(ref string) string
}

// Attachment файл, приложенный к отчету
type Attachment struct {
	Name    string
	Content io.Reader
}

// ReportServiceImpl реализация сервиса отчетов
type ReportServiceImpl struct {
	repository repository.ReportRepository
	files      FileStore
	logger     *logrus.Logger
}

// NewReportService создает новый сервис отчетов
func NewReportService(
	repository repository.ReportRepository,
	files FileStore,
	logger *logrus.Logger,
) ReportService {
	return &ReportServiceImpl{
		repository: repository,
		files:      files,
		logger:     logger,
	}
}

// Submit проверяет отчет, сохраняет вложение и записывает отчет в БД
func (s *ReportServiceImpl) Submit(ctx context.Context, in report.Input, attachment *Attachment) (*models.ScanReport, error) {
	logger := s.logger.WithFields(logrus.Fields{
		"patient_name": in.PatientName,
		"scan_type":    in.ScanType,
		"scan_date":    in.ScanDate,
	})

	logger.Info("Регистрация нового отчета")

	// Валидация до обращения к хранилищам
	if err := in.Validate(); err != nil {
		logger.WithError(err).Warn("Ошибка валидации отчета")
		return nil, err
	}

	if attachment != nil {
		ref, err := s.files.Save(ctx, attachment.Content, attachment.Name)
		if err != nil {
			logger.WithError(err).Error("Ошибка сохранения вложения")
			return nil, report.E("submit", report.KindStorage, err)
		}
		in.FileURL = ref
	}

	created, err := s.repository.Insert(ctx, in)
	if err != nil {
		logger.WithError(err).WithField("kind", report.KindOf(err).String()).Error("Ошибка сохранения отчета в БД")

		// Вложение без отчета никому не нужно
		if in.FileURL != "" {
			if derr := s.files.Discard(ctx, in.FileURL); derr != nil {
				logger.WithError(derr).WithField("file_url", in.FileURL).Warn("Не удалось удалить вложение")
			}
		}
		return nil, report.E("submit", report.KindBackend, err)
	}

	logger.WithField("report_id", created.ID).Info("Отчет зарегистрирован")
	return &created, nil
}

// List возвращает все отчеты, новые даты исследования первыми
func (s *ReportServiceImpl) List(ctx context.Context) ([]models.ScanReport, error) {
	reports, err := s.repository.ListAll(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка получения списка отчетов")
		return nil, report.E("list", report.KindBackend, err)
	}
	return reports, nil
}

// Search ищет отчеты по подстроке в имени пациента
func (s *ReportServiceImpl) Search(ctx context.Context, name string) ([]models.ScanReport, error) {
	reports, err := s.repository.Search(ctx, name)
	if err != nil {
		s.logger.WithError(err).WithField("query", name).Error("Ошибка поиска отчетов")
		return nil, report.E("search", report.KindBackend, err)
	}

	s.logger.WithFields(logrus.Fields{
		"query": name,
		"found": len(reports),
	}).Debug("Поиск отчетов выполнен")
	return reports, nil
}

// ResolveFileURL возвращает ссылку на вложение отчета
func (s *ReportServiceImpl) ResolveFileURL(ref string) string {
	return s.files.Resolve(ref)
}
