package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Storage operation metrics
var (
	StorageOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gzblob_storage_operations_total",
			Help: "Total number of remote storage operations",
		},
		[]string{"operation", "status"},
	)

	StorageOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gzblob_storage_operation_duration_seconds",
			Help:    "Duration of remote storage operations in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
		[]string{"operation"},
	)

	ListPagesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gzblob_list_pages_total",
			Help: "Total number of listing pages fetched",
		},
	)

	UploadedBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gzblob_uploaded_bytes_total",
			Help: "Total compressed bytes handed to the remote",
		},
	)
)
