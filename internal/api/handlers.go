// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tomtom215/flickpulse/internal/auth"
	"github.com/tomtom215/flickpulse/internal/cache"
	"github.com/tomtom215/flickpulse/internal/config"
	"github.com/tomtom215/flickpulse/internal/logging"
	"github.com/tomtom215/flickpulse/internal/models"
	"github.com/tomtom215/flickpulse/internal/store"
	"github.com/tomtom215/flickpulse/internal/tracking"
	"github.com/tomtom215/flickpulse/internal/validation"
	"github.com/tomtom215/flickpulse/internal/websocket"
)

// maxRequestBody bounds request payload size at 1MB.
const maxRequestBody = 1 << 20

// Handler serves the HTTP API. All endpoints respond with the standard
// envelope written by ResponseWriter.
type Handler struct {
	cfg     *config.Config
	tracker *tracking.Tracker
	hub     *websocket.Hub
	creds   *auth.CredentialManager
	jwt     *auth.JWTManager

	analyticsCache *cache.LRUCache[*models.AnalyticsReport]

	// ready reports whether dependent subsystems accept traffic. Nil
	// checks are skipped.
	ready []func() bool
}

// NewHandler creates the API handler. creds and jwt are nil when admin
// authentication is not configured.
func NewHandler(cfg *config.Config, tracker *tracking.Tracker, hub *websocket.Hub, creds *auth.CredentialManager, jwt *auth.JWTManager) *Handler {
	return &Handler{
		cfg:            cfg,
		tracker:        tracker,
		hub:            hub,
		creds:          creds,
		jwt:            jwt,
		analyticsCache: cache.NewLRUCache[*models.AnalyticsReport]("analytics", 4096, cfg.API.AnalyticsCacheTTL),
	}
}

// AddReadinessCheck registers a check consulted by the readiness endpoint.
func (h *Handler) AddReadinessCheck(check func() bool) {
	h.ready = append(h.ready, check)
}

// logInteractionRequest is the payload for POST /api/v1/interactions.
type logInteractionRequest struct {
	UserID string `json:"user_id" validate:"required,max=128"`
	models.InteractionDraft
}

// LogInteraction records a single user interaction.
func (h *Handler) LogInteraction(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req logInteractionRequest
	if !h.decodeBody(rw, r, &req) {
		return
	}

	record, err := h.tracker.LogInteraction(r.Context(), req.UserID, &req.InteractionDraft)
	if err != nil {
		h.writeTrackingError(rw, err)
		return
	}

	// The stored aggregates changed, cached projections are stale.
	h.analyticsCache.Remove(req.UserID)

	rw.Created(record)
}

// GetSummary returns the user's current interaction summary. Freshness is
// maintained by the event pipeline and the refresh endpoint, not here.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "userID")
	summary, err := h.tracker.GetSummary(r.Context(), userID)
	if err != nil {
		h.writeTrackingError(rw, err)
		return
	}

	rw.Success(summary)
}

// RefreshSummary recomputes a stale summary through the refresh guard. A
// fresh summary comes back unchanged, and while another worker holds the
// refresh claim the stale summary is returned instead of blocking.
func (h *Handler) RefreshSummary(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "userID")
	summary, err := h.tracker.RefreshIfNeeded(r.Context(), userID)
	if err != nil {
		h.writeTrackingError(rw, err)
		return
	}

	h.analyticsCache.Remove(userID)

	rw.Success(summary)
}

// Analytics returns the user's engagement report, served from a short TTL
// cache when available.
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	userID := chi.URLParam(r, "userID")
	if userID == "" {
		rw.BadRequest("user id is required")
		return
	}

	if report, ok := h.analyticsCache.Get(userID); ok {
		rw.Cached().Success(report)
		return
	}

	report, err := h.tracker.Analytics(r.Context(), userID, h.cfg.API.AnalyticsRecentLimit)
	if err != nil {
		h.writeTrackingError(rw, err)
		return
	}

	h.analyticsCache.Add(userID, report)
	rw.Success(report)
}

// loginRequest is the payload for POST /api/v1/auth/login.
type loginRequest struct {
	Username string `json:"username" validate:"required,max=128"`
	Password string `json:"password" validate:"required,max=128"`
}

// loginResponse carries the issued session token.
type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Login verifies admin credentials and issues a session token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	if h.creds == nil || h.jwt == nil {
		rw.NotFound("authentication is not configured")
		return
	}

	var req loginRequest
	if !h.decodeBody(rw, r, &req) {
		return
	}

	if !h.creds.Verify(req.Username, req.Password) {
		logging.Ctx(r.Context()).Warn().
			Str("username", req.Username).
			Str("remote_addr", r.RemoteAddr).
			Msg("failed login attempt")
		rw.Unauthorized("invalid username or password")
		return
	}

	token, err := h.jwt.GenerateToken(req.Username, "admin")
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("failed to issue session token")
		rw.InternalError("failed to issue session token")
		return
	}

	rw.Success(loginResponse{
		Token:     token,
		ExpiresIn: int64(h.jwt.SessionTimeout().Seconds()),
	})
}

// WebSocket upgrades the connection and attaches it to the interaction feed.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.ServeWS(h.hub, w, r)
}

// decodeBody decodes and validates a JSON request body. It writes the error
// response and returns false when the payload is unusable.
func (h *Handler) decodeBody(rw *ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(nil, r.Body, maxRequestBody)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		rw.BadRequest("invalid request body: " + err.Error())
		return false
	}

	if verr := validation.ValidateStruct(dst); verr != nil {
		rw.ValidationError(toModelError(verr.ToAPIError()))
		return false
	}

	return true
}

// writeTrackingError maps tracking errors onto HTTP responses.
func (h *Handler) writeTrackingError(rw *ResponseWriter, err error) {
	var verr *validation.RequestValidationError
	switch {
	case errors.Is(err, tracking.ErrMissingUserID):
		rw.BadRequest("user id is required")
	case errors.Is(err, store.ErrSummaryNotFound):
		rw.NotFound("no summary exists for this user")
	case errors.As(err, &verr):
		rw.ValidationError(toModelError(verr.ToAPIError()))
	default:
		rw.StoreError(err)
	}
}

func toModelError(apiErr *validation.APIError) *models.APIError {
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}
