// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

package api

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/harborwatch/internal/config"
	"github.com/tomtom215/harborwatch/internal/logging"
	"github.com/tomtom215/harborwatch/internal/metrics"
)

// ChiMiddleware bundles the Chi-compatible middleware stack configured
// from the security section of the runtime configuration.
type ChiMiddleware struct {
	corsOrigins     []string
	rateLimitPerMin int
}

// NewChiMiddleware creates the middleware stack from configuration.
func NewChiMiddleware(cfg *config.Config) *ChiMiddleware {
	origins := []string{"*"}
	perMin := 300
	if cfg != nil {
		if len(cfg.Security.CORSOrigins) > 0 {
			origins = cfg.Security.CORSOrigins
		}
		if cfg.Security.RateLimitPerMin > 0 {
			perMin = cfg.Security.RateLimitPerMin
		}
	}
	return &ChiMiddleware{
		corsOrigins:     origins,
		rateLimitPerMin: perMin,
	}
}

// CORS returns CORS middleware configured with the allowed origins.
// Applied globally so OPTIONS preflight requests are handled before routing.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   m.corsOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

// RateLimit returns per-IP rate limiting for data endpoints.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.rateLimit(m.rateLimitPerMin, "data")
}

// RateLimitHealth returns permissive per-IP rate limiting (1000/min) for
// health endpoints so monitoring probes are never starved.
func (m *ChiMiddleware) RateLimitHealth() func(http.Handler) http.Handler {
	return m.rateLimit(1000, "health")
}

func (m *ChiMiddleware) rateLimit(requestsPerMin int, endpoint string) func(http.Handler) http.Handler {
	return httprate.Limit(
		requestsPerMin,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.APIRateLimitHits.WithLabelValues(endpoint).Inc()
			logging.Warn().
				Str("remote_addr", r.RemoteAddr).
				Str("path", r.URL.Path).
				Msg("Rate limit exceeded")
			respondError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests", nil)
		}),
	)
}

// APISecurityHeaders adds standard security headers to API responses.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDWithLogging wraps Chi's RequestID middleware and attaches the
// generated ID to the request logging context and the X-Request-ID header.
func RequestIDWithLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := chimiddleware.GetReqID(r.Context())
			if requestID == "" {
				requestID = logging.GenerateRequestID()
			}

			ctx := logging.ContextWithRequestID(r.Context(), requestID)
			w.Header().Set("X-Request-ID", requestID)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
		return chimiddleware.RequestID(inner)
	}
}
