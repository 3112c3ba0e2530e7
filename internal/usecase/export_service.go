package usecase

import (
	"context"
	"fmt"
	"time"

	"scan_report_srv/internal/domain/query"
	"scan_report_srv/internal/domain/report"
	"scan_report_srv/internal/usecase/repository"
)

// Поддерживаемые форматы выгрузки.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// exportQuery выгружает все отчеты в порядке списка.
const exportQuery = "SELECT * FROM scan_reports ORDER BY scan_date DESC, id DESC"

// Document готовая выгрузка.
type Document struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService выгружает отчеты в табличные форматы, используя SQL-запрос и экспортер.
type ExportService struct {
	Executor  repository.QueryExecutor
	Exporters map[string]repository.Exporter
	now       func() time.Time
}

// NewExportService собирает сервис из зависимостей.
func NewExportService(exec repository.QueryExecutor, csv, xlsx repository.Exporter) *ExportService {
	return &ExportService{
		Executor:  exec,
		Exporters: map[string]repository.Exporter{FormatCSV: csv, FormatXLSX: xlsx},
		now:       time.Now,
	}
}

// Export выполняет запрос и формирует документ в нужном формате.
func (s *ExportService) Export(ctx context.Context, format string) (Document, error) {
	exp, ok := s.Exporters[format]
	if !ok || exp == nil {
		return Document{}, report.E("export", report.KindConstraint, fmt.Errorf("unsupported export format %q", format))
	}

	q := query.New(exportQuery)
	if err := query.Validate(q); err != nil {
		return Document{}, report.E("export", report.KindConstraint, err)
	}

	rs, err := s.Executor.Execute(ctx, q)
	if err != nil {
		return Document{}, err
	}

	content, err := exp.Export(rs)
	if err != nil {
		return Document{}, report.E("export", report.KindBackend, err)
	}

	return Document{
		Filename:    fmt.Sprintf("scan_reports_%s%s", s.now().Format("20060102_150405"), exp.FileExtension()),
		ContentType: exp.ContentType(),
		Content:     content,
	}, nil
}
