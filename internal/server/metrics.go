package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skill_extractor",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"route", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "skill_extractor",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	extractedSkills = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "skill_extractor",
		Subsystem: "extraction",
		Name:      "skills_per_request",
		Help:      "Number of skills returned per extraction.",
		Buckets:   []float64{0, 1, 5, 10, 20, 40, 80},
	})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "skill_extractor",
		Subsystem: "http",
		Name:      "rate_limited_total",
		Help:      "Requests rejected by the rate limiter.",
	})
)
