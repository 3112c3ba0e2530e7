package repository

import (
	"context"

	"scan_report_srv/internal/domain/report"
	"scan_report_srv/internal/models"
)

// Exporter renders a result set into a downloadable document.
type Exporter interface {
	Export(rs ResultSet) ([]byte, error)
	ContentType() string
	FileExtension() string
}

// ReportRepository stores and queries scan reports.
type ReportRepository interface {
	Insert(ctx context.Context, in report.Input) (models.ScanReport, error)
	ListAll(ctx context.Context) ([]models.ScanReport, error)
	Search(ctx context.Context, name string) ([]models.ScanReport, error)
}
