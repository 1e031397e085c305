// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/flickpulse/internal/auth"
	"github.com/tomtom215/flickpulse/internal/config"
	"github.com/tomtom215/flickpulse/internal/middleware"
)

// Router assembles the HTTP routing tree.
type Router struct {
	handler *Handler
	chimw   *ChiMiddleware
	authmw  func(http.Handler) http.Handler
}

// NewRouter creates a router. jwtManager is nil when admin authentication
// is not configured, which leaves the API open.
func NewRouter(cfg *config.Config, handler *Handler, jwtManager *auth.JWTManager) *Router {
	return &Router{
		handler: handler,
		chimw:   NewChiMiddleware(&cfg.Security),
		authmw:  auth.Middleware(jwtManager),
	}
}

// Setup configures all routes and returns the root handler.
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global stack, applied to every route in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.chimw.CORS())

	// Health endpoints stay unauthenticated so probes work before login.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(rt.chimw.RateLimitCustom(RateLimitHealth))
		r.Use(SecurityHeaders())
		r.Get("/", rt.handler.Health)
		r.Get("/live", rt.handler.HealthLive)
		r.Get("/ready", rt.handler.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(rt.chimw.RateLimitCustom(RateLimitLogin))
		r.Use(SecurityHeaders())
		r.Post("/login", rt.handler.Login)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(SecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(rt.authmw)

		r.With(rt.chimw.RateLimitCustom(RateLimitWrite)).
			Post("/interactions", rt.handler.LogInteraction)

		r.Group(func(r chi.Router) {
			r.Use(rt.chimw.RateLimitCustom(RateLimitRead))
			r.Use(middleware.Compression)
			r.Get("/users/{userID}/summary", rt.handler.GetSummary)
			r.Post("/users/{userID}/summary/refresh", rt.handler.RefreshSummary)
			r.Get("/users/{userID}/analytics", rt.handler.Analytics)
		})

		// Compression middleware must not wrap the upgrade.
		r.Get("/events/ws", rt.handler.WebSocket)
	})

	// Prometheus scrape endpoint, outside the API envelope.
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
