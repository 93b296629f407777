package miner

import (
	"sync"

	"github.com/bsv-blockchain/mineblock/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusMinerRun          prometheus.Histogram
	prometheusMinerTransactions *prometheus.CounterVec
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusMinerRun = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mineblock",
			Subsystem: "miner",
			Name:      "run",
			Help:      "Histogram of complete mining runs",
			Buckets:   util.MetricsBucketsSeconds,
		},
	)

	prometheusMinerTransactions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mineblock",
			Subsystem: "miner",
			Name:      "transactions",
			Help:      "Number of mempool transactions by outcome",
		},
		[]string{"outcome"},
	)
}
