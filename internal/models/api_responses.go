// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package models holds the JSON shapes shared by the HTTP API.
package models

import (
	"time"
)

// APIResponse is the envelope returned by every API endpoint.
//
// Status is "success" or "error". Error is set only for errors.
//
//	{
//	  "status": "success",
//	  "data": {"resolvedTitle": "Naruto", "results": [...]},
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "query_time_ms": 4}
//	}
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"},
//	  "error": {
//	    "code": "NO_CONFIDENT_MATCH",
//	    "message": "no close match for 'zzzz', did you mean 'Zoids'?",
//	    "details": {"suggestion": "Zoids", "confidence": 41.2}
//	  }
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries timing and tracing information for a response.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
}

// APIError is a machine-readable code plus a human message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is returned by the health endpoint.
type HealthStatus struct {
	// Status is "healthy" when a corpus is loaded, "degraded" otherwise.
	Status  string  `json:"status"`
	Version string  `json:"version"`
	Ready   bool    `json:"ready"`
	Titles  int     `json:"titles"`
	Stale   bool    `json:"stale"`
	Uptime  float64 `json:"uptime_seconds"`
}
