package api

import (
	"crypto/subtle"
	"net"
	"net/http"
	"strings"

	"marehpilates/internal/config"
	"marehpilates/internal/domain"

	"github.com/rs/zerolog"
)

const (
	apiKeyHeaderDefault = "X-API-Key"
	clientKeyUnknown    = "unknown"
)

// HTTPAuth provides optional API-key auth and per-client rate limiting.
type HTTPAuth struct {
	cfg     config.APIConfig
	keys    []config.APIClientKey
	limiter domain.RateLimitStore
	logger  *zerolog.Logger
}

func NewHTTPAuth(cfg config.APIConfig, limiter domain.RateLimitStore, logger *zerolog.Logger) *HTTPAuth {
	return &HTTPAuth{cfg: cfg, keys: cfg.Auth.APIKeys, limiter: limiter, logger: logger}
}

func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		client := ""
		if a.cfg.Auth.Enabled {
			var ok bool
			if client, ok = a.authenticate(r); !ok {
				writeError(w, http.StatusUnauthorized, "api key inválida")
				return
			}
		}

		if !a.allow(r, client) {
			writeError(w, http.StatusTooManyRequests, "demasiadas solicitudes")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *HTTPAuth) header() string {
	if h := strings.TrimSpace(a.cfg.Auth.HeaderAPIKey); h != "" {
		return h
	}
	return apiKeyHeaderDefault
}

// authenticate returns the name of the client owning the presented key.
func (a *HTTPAuth) authenticate(r *http.Request) (string, bool) {
	presented := strings.TrimSpace(r.Header.Get(a.header()))
	if presented == "" {
		return "", false
	}
	for _, k := range a.keys {
		if subtle.ConstantTimeCompare([]byte(k.Key), []byte(presented)) == 1 {
			if k.Name != "" {
				return k.Name, true
			}
			return k.Key, true
		}
	}
	return "", false
}

// allow fails open when the limiter errors.
func (a *HTTPAuth) allow(r *http.Request, client string) bool {
	rl := a.cfg.RateLimit
	if a.limiter == nil || rl.Requests <= 0 {
		return true
	}
	if client == "" {
		client = clientKey(r)
	}
	allowed, err := a.limiter.Allow(r.Context(), client, rl.Requests, rl.Window)
	if err != nil {
		a.logger.Error().Err(err).Str("client", client).Msg("rate limit check failed")
		return true
	}
	return allowed
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return clientKeyUnknown
}
