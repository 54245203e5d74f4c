// Package metrics holds the domain counters of erp-service. They are
// registered on the default registry, which /metrics already serves.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stockAdjustments = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tesseract",
			Subsystem: "erp",
			Name:      "stock_adjustments_total",
			Help:      "Stock mutations committed, by move type.",
		},
		[]string{"move_type"},
	)

	insufficientStock = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tesseract",
			Subsystem: "erp",
			Name:      "insufficient_stock_rejections_total",
			Help:      "Stock mutations rejected because the balance would go negative.",
		},
	)

	aiRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tesseract",
			Subsystem: "erp",
			Name:      "ai_requests_total",
			Help:      "Assistant replies, by outcome (ok, error, fallback).",
		},
		[]string{"outcome"},
	)

	aiTokens = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tesseract",
			Subsystem: "erp",
			Name:      "ai_tokens_total",
			Help:      "Tokens consumed by the assistant.",
		},
		[]string{"kind"},
	)

	jobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tesseract",
			Subsystem: "erp",
			Name:      "job_duration_seconds",
			Help:      "Duration of scheduled job runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
		[]string{"job"},
	)
)

// RecordAdjustment counts a committed stock mutation
func RecordAdjustment(moveType string) {
	stockAdjustments.WithLabelValues(moveType).Inc()
}

// RecordInsufficientStock counts a rejected stock mutation
func RecordInsufficientStock() {
	insufficientStock.Inc()
}

// RecordAIRequest counts an assistant reply and the tokens it used
func RecordAIRequest(outcome string, promptTokens, completionTokens int) {
	aiRequests.WithLabelValues(outcome).Inc()
	aiTokens.WithLabelValues("prompt").Add(float64(promptTokens))
	aiTokens.WithLabelValues("completion").Add(float64(completionTokens))
}

// ObserveJob records how long a scheduled job run took
func ObserveJob(job string, started time.Time) {
	jobDuration.WithLabelValues(job).Observe(time.Since(started).Seconds())
}
