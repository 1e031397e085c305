// FlickPulse - Interaction Tracking and Taste Profiling for Media Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/flickpulse

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/flickpulse/internal/logging"
	"github.com/tomtom215/flickpulse/internal/models"
)

// ResponseWriter writes the standardized response envelope. Every endpoint
// responds with models.APIResponse so clients handle one shape.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
	cached    bool
}

// NewResponseWriter creates a response writer for a request.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{
		w:         w,
		r:         r,
		startTime: time.Now(),
	}
}

// Cached marks the response as served from cache. Cached responses report
// a query time of zero.
func (rw *ResponseWriter) Cached() *ResponseWriter {
	rw.cached = true
	return rw
}

// Success writes a 200 response with data.
func (rw *ResponseWriter) Success(data interface{}) {
	rw.writeSuccess(http.StatusOK, data)
}

// Created writes a 201 response with data.
func (rw *ResponseWriter) Created(data interface{}) {
	rw.writeSuccess(http.StatusCreated, data)
}

// Accepted writes a 202 response with data.
func (rw *ResponseWriter) Accepted(data interface{}) {
	rw.writeSuccess(http.StatusAccepted, data)
}

func (rw *ResponseWriter) writeSuccess(statusCode int, data interface{}) {
	response := models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: rw.metadata(),
	}
	rw.writeJSON(statusCode, response)
}

// Error writes an error response with the given status code.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, code, message, nil)
}

// ErrorWithDetails writes an error response with structured details.
func (rw *ResponseWriter) ErrorWithDetails(statusCode int, code, message string, details map[string]interface{}) {
	response := models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Metadata: rw.metadata(),
	}
	rw.writeJSON(statusCode, response)
}

// BadRequest writes a 400 validation error.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, models.ErrCodeValidation, message)
}

// ValidationError writes a 400 error from a request validation failure.
func (rw *ResponseWriter) ValidationError(apiErr *models.APIError) {
	rw.ErrorWithDetails(http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details)
}

// Unauthorized writes a 401 authentication error.
func (rw *ResponseWriter) Unauthorized(message string) {
	rw.Error(http.StatusUnauthorized, models.ErrCodeAuthentication, message)
}

// NotFound writes a 404 error.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, models.ErrCodeNotFound, message)
}

// StoreError logs a persistence failure and writes a 500 without leaking
// internal details to the client.
func (rw *ResponseWriter) StoreError(err error) {
	logging.Ctx(rw.r.Context()).Error().Err(err).Msg("store operation failed")
	rw.Error(http.StatusInternalServerError, models.ErrCodeStore, "a storage error occurred")
}

// InternalError writes a 500 error.
func (rw *ResponseWriter) InternalError(message string) {
	rw.Error(http.StatusInternalServerError, models.ErrCodeInternal, message)
}

// ServiceUnavailable writes a 503 error.
func (rw *ResponseWriter) ServiceUnavailable(message string) {
	rw.Error(http.StatusServiceUnavailable, models.ErrCodeInternal, message)
}

func (rw *ResponseWriter) metadata() models.Metadata {
	meta := models.Metadata{
		Timestamp: time.Now().UTC(),
		Cached:    rw.cached,
	}
	if !rw.cached {
		meta.QueryTimeMS = time.Since(rw.startTime).Milliseconds()
	}
	return meta
}

func (rw *ResponseWriter) writeJSON(statusCode int, data interface{}) {
	rw.w.Header().Set("Content-Type", "application/json")
	rw.w.WriteHeader(statusCode)

	if err := json.NewEncoder(rw.w).Encode(data); err != nil {
		logging.Ctx(rw.r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
