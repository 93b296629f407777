package cpuminer

import (
	"sync"

	"github.com/bsv-blockchain/mineblock/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusMinerHashAttempts prometheus.Counter
	prometheusMinerHashRate     prometheus.Gauge
	prometheusMinerBlockMined   prometheus.Histogram
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusMinerHashAttempts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "mineblock",
			Subsystem: "cpuminer",
			Name:      "hash_attempts",
			Help:      "Number of block hashes computed",
		},
	)

	prometheusMinerHashRate = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mineblock",
			Subsystem: "cpuminer",
			Name:      "hash_rate",
			Help:      "Hashes per second at the last progress report",
		},
	)

	prometheusMinerBlockMined = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mineblock",
			Subsystem: "cpuminer",
			Name:      "block_mined",
			Help:      "Histogram of nonce searches that found a solution",
			Buckets:   util.MetricsBucketsMilliLongSeconds,
		},
	)
}
