// Cinematch - Content-Based Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
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
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Store Metrics
	StoreQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of document store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	StoreQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_query_errors_total",
			Help: "Total number of failed document store queries",
		},
		[]string{"backend", "operation"},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// Recommendation Metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_total",
			Help: "Total number of recommendation responses by mode",
		},
		[]string{"mode"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "Time to produce a recommendation response",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"mode"},
	)

	RatingsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ratings_skipped_total",
			Help: "Ratings ignored because their movie could not be resolved",
		},
	)

	PopularityCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "popularity_cache_hits_total",
			Help: "Cold start lists served from cache",
		},
	)

	PopularityCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "popularity_cache_misses_total",
			Help: "Cold start lists computed from the store",
		},
	)

	// Ingestion Metrics
	IngestMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_messages_total",
			Help: "Rating submissions processed by outcome",
		},
		[]string{"outcome"}, // "stored", "invalid", "movie_not_found", "failed"
	)

	IngestPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_published_total",
			Help: "Rating submissions published to the message bus",
		},
		[]string{"status"}, // "success", "error"
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordStoreQuery records the duration and outcome of a store call.
func RecordStoreQuery(backend, operation string, duration time.Duration, err error) {
	StoreQueryDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		StoreQueryErrors.WithLabelValues(backend, operation).Inc()
	}
}

// RecordCircuitBreakerState exports a breaker state transition.
func RecordCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordRecommendation counts a served response and its latency.
func RecordRecommendation(mode string, duration time.Duration) {
	RecommendationsTotal.WithLabelValues(mode).Inc()
	RecommendationDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordRatingsSkipped counts ratings dropped during resolution.
func RecordRatingsSkipped(n int) {
	if n > 0 {
		RatingsSkipped.Add(float64(n))
	}
}

// RecordPopularityCache counts a cold start cache lookup.
func RecordPopularityCache(hit bool) {
	if hit {
		PopularityCacheHits.Inc()
		return
	}
	PopularityCacheMisses.Inc()
}

// RecordIngest counts a consumed rating submission by outcome.
func RecordIngest(outcome string) {
	IngestMessagesTotal.WithLabelValues(outcome).Inc()
}

// RecordPublish counts a rating submission sent to the bus.
func RecordPublish(err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	IngestPublishedTotal.WithLabelValues(status).Inc()
}
