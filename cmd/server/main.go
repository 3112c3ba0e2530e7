package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"scan_report_srv/internal/config"
	"scan_report_srv/internal/di"

	"github.com/sirupsen/logrus"
	"go.uber.org/fx"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Не удалось загрузить конфигурацию")
	}

	run(di.InitializeApp(cfg))
}

// run запускает приложение и останавливает его по SIGINT/SIGTERM.
// Таймауты старта и остановки задаются в server.start_timeout и server.shutdown_timeout.
func run(app *fx.App) {
	startCtx, startCancel := context.WithTimeout(context.Background(), app.StartTimeout())
	defer startCancel()

	if err := app.Start(startCtx); err != nil {
		logrus.WithError(err).Fatal("Не удалось запустить сервис отчетов о снимках")
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-sigCtx.Done()
	logrus.Info("Получен сигнал завершения работы")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), app.StopTimeout())
	defer stopCancel()

	// Сначала закрывается HTTP сервер, затем остальные хуки в обратном порядке
	if err := app.Stop(stopCtx); err != nil {
		logrus.WithError(err).Error("Ошибка при завершении работы")
		os.Exit(1)
	}

	logrus.Info("Сервис отчетов о снимках остановлен")
}
