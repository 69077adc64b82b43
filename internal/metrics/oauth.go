// Package metrics expone los contadores Prometheus del token endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GrantsTotal cuenta resoluciones de grants por resultado.
	// result: "success" o el error code OAuth2 (invalid_request, unauthorized...).
	GrantsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "littlejohn",
		Subsystem: "oauth",
		Name:      "grants_total",
		Help:      "Token grant attempts by grant_type and result.",
	}, []string{"grant_type", "result"})

	// GrantDuration mide la latencia del pipeline completo del grant.
	GrantDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "littlejohn",
		Subsystem: "oauth",
		Name:      "grant_duration_seconds",
		Help:      "Token grant handling latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"grant_type"})

	// RateLimited cuenta requests rechazados por rate limiting.
	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "littlejohn",
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	})
)
