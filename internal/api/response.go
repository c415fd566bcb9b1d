// Getaround - Rental Analytics and Pricing API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/getaround

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/getaround/internal/logging"
	"github.com/tomtom215/getaround/internal/models"
)

// Error codes used in the JSON envelope.
const (
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeTooManyRequests    = "TOO_MANY_REQUESTS"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeQueryError         = "QUERY_ERROR"
)

// ResponseWriter writes models.APIResponse envelopes and times the request.
type ResponseWriter struct {
	w         http.ResponseWriter
	r         *http.Request
	startTime time.Time
}

// NewResponseWriter creates a new response writer.
func NewResponseWriter(w http.ResponseWriter, r *http.Request) *ResponseWriter {
	return &ResponseWriter{w: w, r: r, startTime: time.Now()}
}

// Success writes a 200 envelope around data.
func (rw *ResponseWriter) Success(data any) {
	rw.SuccessCached(data, false)
}

// SuccessCached writes a 200 envelope and flags whether data came from cache.
func (rw *ResponseWriter) SuccessCached(data any, cached bool) {
	WriteJSON(rw.w, http.StatusOK, models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(rw.startTime).Milliseconds(),
			Cached:      cached,
		},
	})
}

// Error writes an error envelope.
func (rw *ResponseWriter) Error(statusCode int, code, message string) {
	rw.ErrorWithDetails(statusCode, code, message, nil)
}

// ErrorWithDetails writes an error envelope with details. The request ID is
// always included so clients can quote it.
func (rw *ResponseWriter) ErrorWithDetails(statusCode int, code, message string, details map[string]any) {
	if id := logging.RequestIDFromContext(rw.r.Context()); id != "" {
		if details == nil {
			details = map[string]any{}
		}
		details["request_id"] = id
	}
	WriteJSON(rw.w, statusCode, models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(rw.startTime).Milliseconds(),
		},
		Error: &models.APIError{Code: code, Message: message, Details: details},
	})
}

// NotFound writes a 404 envelope.
func (rw *ResponseWriter) NotFound(message string) {
	rw.Error(http.StatusNotFound, ErrCodeNotFound, message)
}

// BadRequest writes a 400 envelope.
func (rw *ResponseWriter) BadRequest(message string) {
	rw.Error(http.StatusBadRequest, ErrCodeBadRequest, message)
}

// QueryError logs err and writes a 500 envelope without leaking it.
func (rw *ResponseWriter) QueryError(err error) {
	logging.Ctx(rw.r.Context()).Error().Err(err).Msg("Query failed")
	rw.Error(http.StatusInternalServerError, ErrCodeQueryError, "A query error occurred")
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// WriteMessage writes the bare {"message": ...} body used by the public
// prediction endpoints.
func WriteMessage(w http.ResponseWriter, statusCode int, message string) {
	WriteJSON(w, statusCode, models.MessageResponse{Message: message})
}
