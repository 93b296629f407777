// Package util holds small helpers shared by the services.
package util

// Histogram buckets shared by the services, all in exponential progression.
var (
	// MetricsBucketsMicroSeconds spans 128µs to 262ms.
	MetricsBucketsMicroSeconds = []float64{
		128e-6, 256e-6, 512e-6, 1024e-6, 2048e-6, 4096e-6, 8192e-6, 16384e-6, 32768e-6, 65536e-6, 131072e-6, 262144e-6,
	}

	// MetricsBucketsMilliLongSeconds spans 64ms to 131s, for nonce searches.
	MetricsBucketsMilliLongSeconds = []float64{
		64e-3, 128e-3, 256e-3, 512e-3, 1024e-3, 2048e-3, 4096e-3, 8192e-3, 16384e-3, 32768e-3, 65536e-3, 131072e-3,
	}

	// MetricsBucketsSeconds spans 1s to 2048s, for whole runs.
	MetricsBucketsSeconds = []float64{
		1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048,
	}

	// MetricsBucketsSize spans 128 bytes to 16MB, for block sizes.
	MetricsBucketsSize = []float64{
		128, 512, 2048, 8192, 32768, 131072, 524288, 2097152, 8388608, 16777216,
	}
)
