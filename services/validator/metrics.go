package validator

import (
	"sync"

	"github.com/bsv-blockchain/mineblock/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// prometheusTransactionAccepted counts transactions accepted for the candidate set
	prometheusTransactionAccepted prometheus.Counter

	// prometheusTransactionRejected counts rejections by reason
	prometheusTransactionRejected *prometheus.CounterVec

	// prometheusTransactionErrors counts hard validation errors
	prometheusTransactionErrors prometheus.Counter

	// prometheusTransactionValidate measures Validate
	prometheusTransactionValidate prometheus.Histogram
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusTransactionAccepted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mineblock",
			Subsystem: "validator",
			Name:      "transactions_accepted",
			Help:      "Number of transactions accepted for block inclusion",
		},
	)

	prometheusTransactionRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mineblock",
			Subsystem: "validator",
			Name:      "transactions_rejected",
			Help:      "Number of transactions rejected, by reason",
		},
		[]string{"reason"},
	)

	prometheusTransactionErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mineblock",
			Subsystem: "validator",
			Name:      "transaction_errors",
			Help:      "Number of transactions that failed validation with a hard error",
		},
	)

	prometheusTransactionValidate = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mineblock",
			Subsystem: "validator",
			Name:      "transaction_validate",
			Help:      "Histogram of transaction validation",
			Buckets:   util.MetricsBucketsMicroSeconds,
		},
	)
}
