package main

import (
	"context"
	"time"

	"scan_report_srv/internal/config"
	"scan_report_srv/internal/database"
	"scan_report_srv/internal/di"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logger := di.NewLogger(cfg)

	provider, err := database.NewProvider(cfg.Database(), logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to configure database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Create the reports table if it does not exist yet
	if err := provider.EnsureSchema(ctx); err != nil {
		logger.WithError(err).Fatal("Failed to initialize schema")
	}

	logger.Info("Migrations completed successfully")
}
