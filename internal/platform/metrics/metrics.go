// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics declares the Prometheus collectors exported on /metrics.
//
// Collectors register on the default registry at init through promauto, so
// callers only need the Record helpers.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// # HTTP

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "yamdb_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "yamdb_http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// # Authentication

	AuthEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yamdb_auth_events_total",
			Help: "Signup and token exchange outcomes",
		},
		[]string{"event", "result"},
	)

	// # Mail

	MailDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "yamdb_mail_deliveries_total",
			Help: "Outgoing mail attempts by result",
		},
		[]string{"result"},
	)

	MailBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "yamdb_mail_circuit_breaker_state",
			Help: "SMTP circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// RecordHTTPRequest observes one finished request. route is the chi route
// pattern, never the raw path, to keep label cardinality bounded.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// TrackInFlight adjusts the in-flight gauge.
func TrackInFlight(started bool) {
	if started {
		HTTPRequestsInFlight.Inc()
		return
	}
	HTTPRequestsInFlight.Dec()
}

// RecordAuthEvent counts a signup or token exchange outcome.
func RecordAuthEvent(event string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	AuthEvents.WithLabelValues(event, result).Inc()
}

// RecordMailDelivery counts a delivery attempt.
func RecordMailDelivery(result string) {
	MailDeliveries.WithLabelValues(result).Inc()
}
