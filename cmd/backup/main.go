// Command backup snapshots the database and prunes snapshots past retention.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"marehpilates/internal/config"
	"marehpilates/internal/database"
	"marehpilates/internal/logging"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config file")
	flag.Parse()
	if *configPath == "" {
		*configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	base, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}
	logger := logging.Component(base, "backup")

	db, err := database.NewDB(cfg.Database.Path, cfg.Database.BusyTimeout, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backups := database.NewBackupService(db, cfg.Backup, logger)
	path, err := backups.PerformBackup(ctx)
	if err != nil {
		return err
	}
	removed, err := backups.CleanupOldBackups()
	if err != nil {
		logger.Warn().Err(err).Msg("cleanup old backups")
	}
	logger.Info().Str("path", path).Int("removed", removed).Msg("backup finished")
	return nil
}
