// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics holds the Prometheus collectors exposed on /metrics.
// Every method is safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for bulk items and gateway calls.
const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	ContentMutations *prometheus.CounterVec
	BulkItems        *prometheus.CounterVec
	AIFailures       *prometheus.CounterVec
	ImageSearches    *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trivia_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "trivia_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		ContentMutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trivia_content_mutations_total",
			Help: "Successful content mutations by entity and action",
		}, []string{"entity", "action"}),
		BulkItems: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trivia_bulk_items_total",
			Help: "Items processed by bulk AI operations, by operation and outcome",
		}, []string{"operation", "outcome"}),
		AIFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trivia_ai_failures_total",
			Help: "Failed AI gateway calls by operation",
		}, []string{"operation"}),
		ImageSearches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "trivia_image_searches_total",
			Help: "Photo search requests by provider and outcome",
		}, []string{"provider", "outcome"}),
	}
}

// ObserveHTTP records one finished request.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(d.Seconds())
}

// IncrementMutation counts a successful create, update or delete.
func (m *Metrics) IncrementMutation(entity, action string) {
	if m == nil {
		return
	}
	m.ContentMutations.WithLabelValues(entity, action).Inc()
}

// IncrementBulkItem counts one item of a bulk run.
func (m *Metrics) IncrementBulkItem(operation, outcome string) {
	if m == nil {
		return
	}
	m.BulkItems.WithLabelValues(operation, outcome).Inc()
}

// AddBulkItems counts n items with the same outcome.
func (m *Metrics) AddBulkItems(operation, outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.BulkItems.WithLabelValues(operation, outcome).Add(float64(n))
}

// IncrementAIFailure counts a failed generation, classification or translation.
func (m *Metrics) IncrementAIFailure(operation string) {
	if m == nil {
		return
	}
	m.AIFailures.WithLabelValues(operation).Inc()
}

// IncrementImageSearch counts a photo search.
func (m *Metrics) IncrementImageSearch(provider, outcome string) {
	if m == nil {
		return
	}
	m.ImageSearches.WithLabelValues(provider, outcome).Inc()
}
