// Package metrics implements Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsDecodedTotal counts records successfully decoded.
	RecordsDecodedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pcapscan_records_decoded_total",
			Help: "Total number of capture records decoded",
		},
	)

	// PayloadBytesTotal counts payload bytes delivered to consumers.
	PayloadBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pcapscan_payload_bytes_total",
			Help: "Total number of payload bytes decoded",
		},
	)

	// TruncatedStreamsTotal counts streams that ended on a truncated read.
	TruncatedStreamsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pcapscan_truncated_streams_total",
			Help: "Total number of capture streams stopped by truncation",
		},
		[]string{"reason"},
	)

	// BufferGrowthsTotal counts payload buffer reallocations.
	BufferGrowthsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pcapscan_buffer_growths_total",
			Help: "Total number of payload buffer reallocations",
		},
	)

	// OpenSessions tracks decoder sessions currently open.
	OpenSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pcapscan_open_sessions",
			Help: "Number of decoder sessions currently open",
		},
	)

	// BatchRows tracks the row count distribution of filled batches.
	BatchRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pcapscan_batch_rows",
			Help:    "Number of rows emitted per batch fill",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1, 2, 4, ..., 2048
		},
	)
)

// Truncation reasons used as the reason label.
const (
	ReasonRecordHeader = "record_header"
	ReasonPayload      = "payload"
	ReasonSink         = "sink"
)
