package di

import (
	"context"
	"time"

	"scan_report_srv/internal/config"
	"scan_report_srv/internal/database"
	sqlinfra "scan_report_srv/internal/infrastructure/sql"
	"scan_report_srv/internal/infrastructure/template"
	"scan_report_srv/internal/server"
	"scan_report_srv/internal/service"
	"scan_report_srv/internal/storage"
	"scan_report_srv/internal/usecase"

	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
)

// Options собирает граф зависимостей сервиса для загруженной конфигурации.
func Options(cfg config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		timeouts(cfg),
		fx.Provide(
			NewLogger,
			newProvider,
			storage.NewStorageFromConfig,
			newFileStore,
			sqlinfra.NewReportRepository,
			newReportService,
			newExportService,
			newServer,
		),

		// Схема создается до запуска HTTP сервера
		fx.Invoke(registerSchemaHook, registerLifecycleHooks),
	)
}

// InitializeApp создает приложение fx.
func InitializeApp(cfg config.Config) *fx.App {
	return fx.New(Options(cfg))
}

// timeouts ограничивает время старта и остановки хуков жизненного цикла
func timeouts(cfg config.Config) fx.Option {
	return fx.Options(
		fx.StartTimeout(cfg.Server.StartTimeout),
		fx.StopTimeout(cfg.Server.ShutdownTimeout),
	)
}

// NewLogger создает и настраивает логгер на основе конфигурации
func NewLogger(cfg config.Config) *logrus.Logger {
	logger := logrus.New()

	// Устанавливаем уровень логирования
	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
		logger.WithError(err).Warn("Неверный уровень логирования, используется info")
	}
	logger.SetLevel(level)

	// Устанавливаем формат вывода
	switch cfg.Logging.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: time.RFC3339,
		})
	default:
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.RFC3339,
		})
	}

	logger.WithField("config", cfg.String()).Info("Запуск сервиса отчетов о снимках")
	return logger
}

func newProvider(cfg config.Config, logger *logrus.Logger) (*database.Provider, error) {
	return database.NewProvider(cfg.Database(), logger)
}

func newFileStore(s storage.Storage, logger *logrus.Logger) service.FileStore {
	return storage.NewFileStore(s, logger)
}

func newReportService(repo *sqlinfra.ReportRepository, files service.FileStore, logger *logrus.Logger) service.ReportService {
	return service.NewReportService(repo, files, logger)
}

func newExportService(repo *sqlinfra.ReportRepository) *usecase.ExportService {
	return usecase.NewExportService(repo, template.NewCSV(), template.NewXLSX())
}

func newServer(cfg config.Config, reports service.ReportService, exports *usecase.ExportService, logger *logrus.Logger) *server.Server {
	return server.NewServer(cfg, reports, exports, logger)
}

// registerSchemaHook создает таблицу отчетов при старте
func registerSchemaHook(provider *database.Provider, logger *logrus.Logger, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.WithField("dialect", provider.Dialect().Name()).Info("Инициализация схемы БД")
			return provider.EnsureSchema(ctx)
		},
	})
}

// registerLifecycleHooks настраивает хуки жизненного цикла приложения
func registerLifecycleHooks(
	srv *server.Server,
	cfg config.Config,
	logger *logrus.Logger,
	lc fx.Lifecycle,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			logger.Info("Запуск HTTP сервера")
			go func() {
				if err := srv.Start(cfg.Server.Address); err != nil {
					logger.WithError(err).Error("HTTP сервер остановлен")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Завершение работы HTTP сервера")
			return srv.Shutdown(ctx)
		},
	})
}
