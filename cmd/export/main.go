package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"scan_report_srv/internal/config"
	"scan_report_srv/internal/database"
	"scan_report_srv/internal/di"
	sqlinfra "scan_report_srv/internal/infrastructure/sql"
	"scan_report_srv/internal/infrastructure/template"
	"scan_report_srv/internal/usecase"

	"github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
)

func main() {
	format := flag.StringP("format", "f", usecase.FormatCSV, "export format: csv or xlsx")
	dir := flag.StringP("out", "o", ".", "directory to write the export into")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logger := di.NewLogger(cfg)

	provider, err := database.NewProvider(cfg.Database(), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to configure database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := provider.EnsureSchema(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to initialize schema")
	}

	repo := sqlinfra.NewReportRepository(provider, logger)
	svc := usecase.NewExportService(repo, template.NewCSV(), template.NewXLSX())

	doc, err := svc.Export(ctx, *format)
	if err != nil {
		logger.WithError(err).Fatal("Failed to export reports")
	}

	path := filepath.Join(*dir, doc.Filename)
	if err := os.WriteFile(path, doc.Content, 0644); err != nil {
		logger.WithError(err).WithField("path", path).Fatal("Failed to write export")
	}

	logger.WithFields(logrus.Fields{
		"path":   path,
		"format": *format,
		"bytes":  len(doc.Content),
	}).Info("Export completed")
}
