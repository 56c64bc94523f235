// The notifier binary runs the reminder delivery worker on its own, so
// delivery keeps going when the API server is scaled or restarted separately.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/adjovi/telegrid/internal/config"
	"github.com/adjovi/telegrid/internal/db"
	"github.com/adjovi/telegrid/internal/logger"
	"github.com/adjovi/telegrid/internal/notifier"
	"github.com/adjovi/telegrid/internal/reminder"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", false)
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer database.Close()

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to get underlying database handle")
	}
	if err := db.RunMigrations(sqlDB, "file://./migrations"); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	repos := db.NewRepositories(database)
	reminderService := reminder.NewService(repos)

	worker := notifier.NewWorker(reminderService, notifier.LogSender{}, cfg.Notifier.Schedule)
	if err := worker.Start(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to start delivery worker")
	}

	logger.Log.Info().
		Str("schedule", cfg.Notifier.Schedule).
		Msg("Reminder delivery worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	worker.Stop()
}
