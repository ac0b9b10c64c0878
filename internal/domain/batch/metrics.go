package batch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var batchItems = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "feedback360",
	Subsystem: "batch",
	Name:      "items_total",
	Help:      "Total number of batch items processed broken down by operation and result.",
}, []string{"operation", "result"})

func recordOutcome(operation string, succeeded, failed int) {
	if operation == "" {
		operation = "other"
	}
	if succeeded > 0 {
		batchItems.WithLabelValues(operation, "success").Add(float64(succeeded))
	}
	if failed > 0 {
		batchItems.WithLabelValues(operation, "failure").Add(float64(failed))
	}
}
