// AnimeRec - Content-Based Anime Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animerec

// Package metrics holds the Prometheus instruments for AnimeRec. All vectors
// are registered on the default registry via promauto and exposed at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animerec_recommend_requests_total",
			Help: "Total recommend calls by outcome",
		},
		[]string{"outcome"}, // ok, no_match, empty_corpus, fetch_failed, invalid, error
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "animerec_recommend_duration_seconds",
			Help:    "Duration of recommend calls including any corpus refresh",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1, 5, 30},
		},
	)

	ResolverConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "animerec_resolver_confidence",
			Help:    "Best title match confidence per resolved query (0-100)",
			Buckets: []float64{20, 40, 50, 60, 70, 80, 90, 95, 100},
		},
	)

	// Corpus Metrics
	CorpusFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "animerec_corpus_fetch_duration_seconds",
			Help:    "Duration of full catalog fetches",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
		},
	)

	CorpusFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animerec_corpus_fetches_total",
			Help: "Total catalog fetches by outcome",
		},
		[]string{"outcome"}, // success, failure
	)

	CorpusSkippedEntries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "animerec_corpus_skipped_entries_total",
			Help: "Catalog entries dropped for missing id or title",
		},
	)

	CorpusStoreOps = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animerec_corpus_store_operations_total",
			Help: "Corpus store loads and saves",
		},
		[]string{"backend", "operation", "result"}, // result: ok, stale, error
	)

	CorpusFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animerec_corpus_fallbacks_total",
			Help: "Times a failed fetch fell back to an older corpus",
		},
		[]string{"source"}, // store, memory
	)

	CorpusSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "animerec_corpus_titles",
			Help: "Number of titles in the active corpus",
		},
	)

	CorpusFetchedAt = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "animerec_corpus_fetched_timestamp_seconds",
			Help: "Unix time the active corpus was fetched",
		},
	)

	VectorBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "animerec_vector_build_duration_seconds",
			Help:    "Time to build the vector space for a corpus",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
		},
		[]string{"vectorizer"},
	)

	// Catalog API Metrics
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animerec_catalog_requests_total",
			Help: "Catalog API requests by status code",
		},
		[]string{"status"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordRecommend records one recommend call.
func RecordRecommend(outcome string, duration time.Duration) {
	RecommendRequests.WithLabelValues(outcome).Inc()
	RecommendDuration.Observe(duration.Seconds())
}

// RecordResolverConfidence observes the best match score of a resolved query.
func RecordResolverConfidence(score float64) {
	ResolverConfidence.Observe(score)
}

// RecordCorpusFetch records a catalog fetch and the number of entries skipped.
func RecordCorpusFetch(duration time.Duration, skipped int, err error) {
	CorpusFetchDuration.Observe(duration.Seconds())
	if skipped > 0 {
		CorpusSkippedEntries.Add(float64(skipped))
	}
	if err != nil {
		CorpusFetches.WithLabelValues("failure").Inc()
		return
	}
	CorpusFetches.WithLabelValues("success").Inc()
}

// RecordStoreOp records a corpus store load or save. result is ok, stale or error.
func RecordStoreOp(backend, operation, result string) {
	CorpusStoreOps.WithLabelValues(backend, operation, result).Inc()
}

// RecordFallback records serving an older corpus after a failed fetch.
func RecordFallback(source string) {
	CorpusFallbacks.WithLabelValues(source).Inc()
}

// SetActiveCorpus updates the corpus gauges after a snapshot swap.
func SetActiveCorpus(size int, fetchedAt time.Time) {
	CorpusSize.Set(float64(size))
	CorpusFetchedAt.Set(float64(fetchedAt.Unix()))
}

// RecordVectorBuild observes a vector space build.
func RecordVectorBuild(vectorizer string, duration time.Duration) {
	VectorBuildDuration.WithLabelValues(vectorizer).Observe(duration.Seconds())
}

// RecordCatalogRequest counts one catalog HTTP response (or "error" for transport failures).
func RecordCatalogRequest(status string) {
	CatalogRequests.WithLabelValues(status).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
