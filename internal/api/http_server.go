package api

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"marehpilates/internal/config"
	"marehpilates/internal/domain"
	"marehpilates/internal/service"

	"github.com/rs/zerolog"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Services bundles the application services the HTTP handlers call.
type Services struct {
	Store       Pinger
	Catalog     *service.CatalogService
	Orders      *service.OrderService
	Customers   *service.CustomerService
	Users       *service.UserService
	Members     *service.MemberService
	Memberships *service.MembershipService
	Schedule    *service.ScheduleService
	Bookings    *service.BookingService
	Ledger      *service.LedgerService
}

// HTTPServer exposes the back-office JSON API under the configured prefix.
type HTTPServer struct {
	cfg    config.APIConfig
	svc    Services
	server *http.Server
	auth   *HTTPAuth
	logger *zerolog.Logger
}

// NewHTTPServer wires routes and middleware. limiter may be nil when rate
// limiting is disabled.
func NewHTTPServer(cfg config.APIConfig, svc Services, limiter domain.RateLimitStore, logger *zerolog.Logger) *HTTPServer {
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "http").Logger()
	}
	srv := &HTTPServer{cfg: cfg, svc: svc, logger: &base}
	srv.auth = NewHTTPAuth(cfg, limiter, &base)

	var inner http.Handler = srv.routes()
	inner = srv.auth.Wrap(inner)
	inner = loggingMiddleware(&base, inner)
	inner = requestIDMiddleware(inner)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           mountPrefix(cfg.Prefix, inner),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}
	return srv
}

// Handler returns the root handler, prefix mount included.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Addr() string {
	return s.server.Addr
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Str("prefix", s.cfg.Prefix).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// mountPrefix serves next under prefix and answers 404 everywhere else.
func mountPrefix(prefix string, next http.Handler) http.Handler {
	prefix = strings.TrimRight(prefix, "/")
	if prefix == "" {
		return next
	}
	root := http.NewServeMux()
	root.Handle(prefix+"/", http.StripPrefix(prefix, next))
	root.Handle(prefix, http.StripPrefix(prefix, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = "/"
		next.ServeHTTP(w, r)
	})))
	root.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found")
	})
	return root
}

func (s *HTTPServer) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	s.mountCatalog(mux)
	s.mountOrders(mux)
	s.mountUsers(mux)
	s.mountMembers(mux)
	s.mountSchedule(mux)
	s.mountBookings(mux)

	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, domain.ErrNotFound.Error())
	})
	return mux
}

func (s *HTTPServer) handleIndex(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, messageBody{Message: "API funcionando"})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Store.PingContext(r.Context()); err != nil {
		s.logger.Error().Err(err).Msg("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
