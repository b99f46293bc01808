// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"

	"github.com/tomtom215/animerec/internal/logging"
	"github.com/tomtom215/animerec/internal/models"
	"github.com/tomtom215/animerec/internal/recommend"
	"github.com/tomtom215/animerec/internal/validation"
)

// Error codes returned in models.APIError.
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNoConfidentMatch = "NO_CONFIDENT_MATCH"
	ErrCodeEmptyCorpus      = "EMPTY_CORPUS"
	ErrCodeFetchFailed      = "FETCH_FAILED"
	ErrCodeInternal         = "INTERNAL_ERROR"
	ErrCodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeRateLimited      = "RATE_LIMITED"
)

// sanitizeLogValue escapes control characters so user input cannot forge log lines.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// respondJSON writes response with an ETag. Handlers that want caching set
// Cache-Control before calling; everything else is no-store.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	if w.Header().Get("Cache-Control") == "" {
		w.Header().Set("Cache-Control", "no-store")
	}

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag returns a weak validator derived from the body hash.
func generateETag(data []byte) string {
	return `W/"` + strconv.FormatUint(xxhash.Sum64(data), 16) + `"`
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, data interface{}, start time.Time) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: time.Since(start).Milliseconds(),
			RequestID:   logging.RequestIDFromContext(r.Context()),
		},
	})
}

// respondError writes an error envelope. err, when set, is logged but never
// sent to the client.
func respondError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]interface{}, err error) {
	requestID := logging.RequestIDFromContext(r.Context())
	if err != nil {
		event := logging.Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Error()
		}
		event.Str("code", code).
			Str("request_id", requestID).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			RequestID: requestID,
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondEngineError maps engine errors to status codes and error codes.
func respondEngineError(w http.ResponseWriter, r *http.Request, err error) {
	var nm *recommend.NoConfidentMatchError
	switch {
	case errors.As(err, &nm):
		details := map[string]interface{}{
			"query":        nm.Query,
			"confidence":   nm.Confidence,
			"alternatives": matchesOrEmpty(nm.Alternatives),
		}
		if nm.Suggestion != "" {
			details["suggestion"] = nm.Suggestion
			details["suggestion_id"] = nm.SuggestionID
		}
		respondError(w, r, http.StatusNotFound, ErrCodeNoConfidentMatch, nm.Error(), details, nil)
	case errors.Is(err, recommend.ErrInvalidQuery):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(),
			map[string]interface{}{"field": "q", "tag": "notblank"}, nil)
	case errors.Is(err, recommend.ErrEmptyCorpus):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeEmptyCorpus,
			"No titles are available yet", nil, err)
	case errors.Is(err, recommend.ErrFetchFailed):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeFetchFailed,
			"The anime catalog could not be fetched and no cached corpus is available", nil, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeInternal, "Request timed out", nil, err)
	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternal, "Internal server error", nil, err)
	}
}

// validateRequest runs struct validation and converts failures to an APIError.
func validateRequest(v interface{}) *models.APIError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	apiErr := verr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}

// getIntParam parses an optional integer query parameter. A missing value
// yields defaultValue; a malformed one is an error.
func getIntParam(r *http.Request, key string, defaultValue int) (int, *models.APIError) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &models.APIError{
			Code:    ErrCodeValidation,
			Message: fmt.Sprintf("%s must be an integer", key),
			Details: map[string]interface{}{"field": key, "tag": "integer", "value": value},
		}
	}
	return n, nil
}

func matchesOrEmpty(m []recommend.Match) []recommend.Match {
	if m == nil {
		return []recommend.Match{}
	}
	return m
}
