package classifier

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	classificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skill_extractor",
		Subsystem: "classifier",
		Name:      "classifications_total",
		Help:      "Phrases classified, by resulting tier.",
	}, []string{"tier"})

	failOpenTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "skill_extractor",
		Subsystem: "classifier",
		Name:      "fail_open_total",
		Help:      "Phrases let through because encoding failed.",
	})

	batchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "skill_extractor",
		Subsystem: "classifier",
		Name:      "batch_duration_seconds",
		Help:      "Time to classify one batch of phrases.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
	})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "skill_extractor",
		Subsystem: "classifier",
		Name:      "exemplar_cache_lookups_total",
		Help:      "Exemplar vector cache lookups, by result.",
	}, []string{"result"})
)
