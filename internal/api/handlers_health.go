// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package api

import (
	"net/http"
	"time"
)

var startTime = time.Now()

// healthStatus is the payload for the health endpoint.
type healthStatus struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	FeedClients   int     `json:"feed_clients"`
}

// Version is the application version, set at build time via ldflags.
var Version = "dev"

// Health reports overall service health including dependent subsystems.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	status := "healthy"
	for _, check := range h.ready {
		if check != nil && !check() {
			status = "degraded"
			break
		}
	}

	clients := 0
	if h.hub != nil {
		clients = h.hub.ClientCount()
	}

	rw.Success(healthStatus{
		Status:        status,
		Version:       Version,
		UptimeSeconds: time.Since(startTime).Seconds(),
		FeedClients:   clients,
	})
}

// HealthLive is the Kubernetes-style liveness probe. It returns 200 as long
// as the process is serving, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// HealthReady is the readiness probe. It returns 503 until every registered
// subsystem check passes.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	for _, check := range h.ready {
		if check != nil && !check() {
			rw.ServiceUnavailable("not ready")
			return
		}
	}

	rw.Success(map[string]string{"status": "ready"})
}
