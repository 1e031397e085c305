// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/flickpulse/internal/config"
)

// RateLimitConfig defines rate limit parameters for a group of endpoints.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// Endpoint-specific rate limits. Login is strict to slow brute force,
// health is permissive for monitoring probes, reads are permissive since
// summary and analytics responses are cached.
var (
	RateLimitLogin  = RateLimitConfig{Requests: 5, Window: 5 * time.Minute}
	RateLimitWrite  = RateLimitConfig{Requests: 120, Window: time.Minute}
	RateLimitRead   = RateLimitConfig{Requests: 600, Window: time.Minute}
	RateLimitHealth = RateLimitConfig{Requests: 1000, Window: time.Minute}
)

// ChiMiddleware provides chi-compatible middleware factories built from the
// security configuration. CORS and rate limiting come from the chi
// ecosystem rather than hand-rolled implementations.
type ChiMiddleware struct {
	cfg  *config.SecurityConfig
	cors func(http.Handler) http.Handler
}

// NewChiMiddleware creates a middleware factory.
func NewChiMiddleware(cfg *config.SecurityConfig) *ChiMiddleware {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           86400,
	})

	return &ChiMiddleware{
		cfg:  cfg,
		cors: corsHandler,
	}
}

// CORS returns the CORS middleware. It must be applied globally so OPTIONS
// preflight requests reach it before routing.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns the default IP-based rate limiter from the security
// configuration.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	if m.cfg.RateLimitDisabled || m.cfg.RateLimitReqs <= 0 {
		return passthrough
	}

	window := m.cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}

	return httprate.LimitByIP(m.cfg.RateLimitReqs, window)
}

// RateLimitCustom returns an IP-based rate limiter with endpoint-specific
// parameters.
func (m *ChiMiddleware) RateLimitCustom(rl RateLimitConfig) func(http.Handler) http.Handler {
	if m.cfg.RateLimitDisabled {
		return passthrough
	}
	return httprate.LimitByIP(rl.Requests, rl.Window)
}

func passthrough(next http.Handler) http.Handler {
	return next
}

// SecurityHeaders adds standard browser security headers to API responses.
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}
