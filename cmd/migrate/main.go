// Command migrate applies or rolls back the database schema.
//
//	migrate up
//	migrate down [steps]
//	migrate version
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

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
	configPath := flag.String("config", envOr("CONFIG_PATH", "configs/config.yaml"), "path to config file")
	flag.Parse()

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
	logger := logging.Component(base, "migrate")

	db, err := database.Open(cfg.Database.Path, cfg.Database.BusyTimeout, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	cmd := flag.Arg(0)
	switch cmd {
	case "", "up":
		if err := db.Migrate(); err != nil {
			return err
		}
	case "down":
		steps := 1
		if raw := flag.Arg(1); raw != "" {
			if steps, err = strconv.Atoi(raw); err != nil {
				return fmt.Errorf("invalid steps %q: %w", raw, err)
			}
		}
		if err := db.MigrateDown(steps); err != nil {
			return err
		}
	case "version":
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}

	version, dirty, err := db.SchemaVersion()
	if err != nil {
		return err
	}
	logger.Info().Str("command", cmd).Uint("version", version).Bool("dirty", dirty).Msg("schema version")
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
