// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/flickpulse/internal/logging"
	"github.com/tomtom215/flickpulse/internal/models"
)

type claimsKey struct{}

// ClaimsFromContext returns the authenticated claims stored by Middleware,
// or nil when the request was not authenticated.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey{}).(*Claims)
	return claims
}

// Middleware returns a chi-compatible middleware that requires a valid
// Bearer token on every request. A nil manager disables enforcement, which
// is how the open (no admin configured) mode is wired.
func Middleware(manager *JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if manager == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := manager.ValidateToken(token)
			if err != nil {
				logging.Ctx(r.Context()).Warn().
					Err(err).
					Str("path", r.URL.Path).
					Msg("rejected request with invalid token")
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from the Authorization header, falling
// back to the access_token query parameter for WebSocket clients that
// cannot set headers.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("access_token")
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	resp := models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    models.ErrCodeAuthentication,
			Message: message,
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	}
	_ = json.NewEncoder(w).Encode(resp)
}
