package emailing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var cacheEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "feedback360",
	Subsystem: "emailing_cache",
	Name:      "events_total",
	Help:      "Emailing list cache lookups and invalidations broken down by event.",
}, []string{"event"})

var buildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "feedback360",
	Subsystem: "emailing_cache",
	Name:      "build_duration_seconds",
	Help:      "Time spent computing an emailing list on a cache miss.",
	Buckets:   prometheus.DefBuckets,
})

const (
	eventHit             = "hit"
	eventMiss            = "miss"
	eventBypass          = "bypass"
	eventError           = "error"
	eventInvalidate      = "invalidate"
	eventInvalidateError = "invalidate_error"
)

func recordCacheEvent(event string) {
	cacheEvents.WithLabelValues(event).Inc()
}
