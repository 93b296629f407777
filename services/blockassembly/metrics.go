package blockassembly

import (
	"sync"

	"github.com/bsv-blockchain/mineblock/util"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	prometheusBlockAssemblerAssemble     prometheus.Histogram
	prometheusBlockAssemblerBlockSize    prometheus.Histogram
	prometheusBlockAssemblerTransactions prometheus.Gauge
)

var (
	prometheusMetricsInitOnce sync.Once
)

func initPrometheusMetrics() {
	prometheusMetricsInitOnce.Do(_initPrometheusMetrics)
}

func _initPrometheusMetrics() {
	prometheusBlockAssemblerAssemble = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mineblock",
			Subsystem: "blockassembly",
			Name:      "assemble",
			Help:      "Histogram of block assembly",
			Buckets:   util.MetricsBucketsMicroSeconds,
		},
	)

	prometheusBlockAssemblerBlockSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "mineblock",
			Subsystem: "blockassembly",
			Name:      "block_size",
			Help:      "Size in bytes of assembled blocks",
			Buckets:   util.MetricsBucketsSize,
		},
	)

	prometheusBlockAssemblerTransactions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "mineblock",
			Subsystem: "blockassembly",
			Name:      "transactions",
			Help:      "Number of candidate transactions in the last assembled block",
		},
	)
}
