// Command reconcile marks lapsed active memberships as expired. Run it daily.
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
	"marehpilates/internal/events"
	"marehpilates/internal/logging"
	"marehpilates/internal/models"
	"marehpilates/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config file")
	date := flag.String("date", "", "reconcile as of this date (YYYY-MM-DD), default today")
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
	logger := logging.Component(base, "reconcile")

	db, err := database.NewDB(cfg.Database.Path, cfg.Database.BusyTimeout, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	bus := events.NewEventBus()
	bus.Subscribe(events.EventMembershipsExpired, func(ev *events.Event) error {
		var p events.ExpiryEventPayload
		if err := ev.Decode(&p); err != nil {
			return err
		}
		if p.Expired > 0 {
			logger.Info().Str("today", p.Today).Int64("count", p.Expired).Msg("memberships expired")
		}
		return nil
	})
	memberships := service.NewMembershipService(db, bus, nil, logger)

	today := memberships.Today()
	if *date != "" {
		if today, err = models.ParseDate(*date); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	n, err := memberships.ExpireLapsed(ctx, today)
	if err != nil {
		return err
	}
	logger.Info().Str("today", today.String()).Int64("expired", n).Msg("reconcile finished")
	return nil
}
