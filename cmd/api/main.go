package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marehpilates/internal/api"
	"marehpilates/internal/config"
	"marehpilates/internal/database"
	"marehpilates/internal/domain"
	"marehpilates/internal/events"
	"marehpilates/internal/logging"
	"marehpilates/internal/metrics"
	"marehpilates/internal/repository"
	"marehpilates/internal/service"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func() { _ = closer.Close() })()
	}

	db, err := database.NewDB(cfg.Database.Path, cfg.Database.BusyTimeout, logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, logger)
	if redisClient != nil {
		defer (func() { _ = repository.Close(redisClient) })()
	}

	bus := events.NewEventBus()
	subscribeEvents(bus, logger)

	httpServer := api.NewHTTPServer(cfg.API, newServices(db, bus, logger), newRateLimiter(cfg, redisClient, logger), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startMetrics(ctx, cfg, logger)

	return serve(ctx, httpServer, cfg, logger)
}

func loadConfigAndLogger() (*config.Config, *zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}

	return cfg, logging.Component(baseLogger, "api-main"), closer, nil
}

func newServices(db *database.DB, bus *events.EventBus, logger *zerolog.Logger) api.Services {
	svcLogger := logging.Component(logger, "service")
	return api.Services{
		Store:       db,
		Catalog:     service.NewCatalogService(db, svcLogger),
		Orders:      service.NewOrderService(db, bus, nil, svcLogger),
		Customers:   service.NewCustomerService(db, svcLogger),
		Users:       service.NewUserService(db, svcLogger),
		Members:     service.NewMemberService(db, nil, svcLogger),
		Memberships: service.NewMembershipService(db, bus, nil, svcLogger),
		Schedule:    service.NewScheduleService(db, svcLogger),
		Bookings:    service.NewBookingService(db, bus, nil, svcLogger),
		Ledger:      service.NewLedgerService(db, bus, nil, svcLogger),
	}
}

// subscribeEvents counts every published event and logs it at debug level.
func subscribeEvents(bus *events.EventBus, logger *zerolog.Logger) {
	evLogger := logging.Component(logger, "events")
	bus.Subscribe(events.AllEvents, func(ev *events.Event) error {
		metrics.IncEvent(ev.Type)
		evLogger.Debug().Str("type", ev.Type).RawJSON("payload", ev.Payload).Msg("event published")
		return nil
	})
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	client := repository.NewRedisClient(cfg.Redis)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := repository.Ping(ctx, client); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		_ = repository.Close(client)
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return client
}

// newRateLimiter prefers Redis and falls back to in-process buckets.
func newRateLimiter(cfg *config.Config, client *redis.Client, logger *zerolog.Logger) domain.RateLimitStore {
	if cfg.API.RateLimit.Requests <= 0 {
		return nil
	}
	memory := repository.NewMemoryRateLimitStore()
	if client == nil {
		return memory
	}
	return repository.NewFailoverRateLimitStore(
		repository.NewRedisRateLimitStore(client),
		memory,
		logging.Component(logger, "rate-limit"),
	)
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	go startMetricsServer(ctx, cfg.Monitoring.PrometheusPort, logger)
}

func serve(ctx context.Context, httpServer *api.HTTPServer, cfg *config.Config, logger *zerolog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.Info().Str("addr", httpServer.Addr()).Str("prefix", cfg.API.Prefix).Msg("API server started")

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("shutdown signal received")
	case serveErr = <-errCh:
		logger.Error().Err(serveErr).Msg("http server stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.API.HTTP.ShutdownTimeout)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("API server stopped")
	return serveErr
}

func startMetricsServer(ctx context.Context, port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctxShutdown)
	}()
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error().Err(err).Msg("metrics server error")
	}
}
