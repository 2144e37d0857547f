package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_vault_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_vault_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	StreamClientAborts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_vault_stream_client_aborts_total",
			Help: "Number of video streams terminated by client disconnect",
		},
	)

	StreamBytesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_vault_stream_bytes_sent_total",
			Help: "Total video bytes written to clients",
		},
	)
)

// Indexer metrics
var (
	IndexerRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_vault_indexer_runs_total",
			Help: "Total number of indexing passes",
		},
	)

	IndexerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_vault_indexer_last_run_timestamp",
			Help: "Timestamp of the last indexing pass",
		},
	)

	IndexerLastRunDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_vault_indexer_last_run_duration_seconds",
			Help: "Duration of the last indexing pass in seconds",
		},
	)

	IndexerIsRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "video_vault_indexer_running",
			Help: "Whether an indexing pass is currently running (1 = running, 0 = idle)",
		},
	)

	IndexerFilesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_vault_indexer_files_processed_total",
			Help: "Total number of video files processed by the indexer",
		},
	)

	IndexerFileFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_vault_indexer_file_failures_total",
			Help: "Total number of files whose probe or thumbnail step failed",
		},
	)

	IndexerRecordsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_vault_indexer_records_deleted_total",
			Help: "Total number of index records removed during reconciliation",
		},
	)
)

// Probe and thumbnail metrics
var (
	ProbeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "video_vault_probe_failures_total",
			Help: "Total number of failed duration probes",
		},
	)

	ThumbnailsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_vault_thumbnails_generated_total",
			Help: "Total number of thumbnails generated, by selection mode",
		},
		[]string{"mode"},
	)

	ThumbnailDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "video_vault_thumbnail_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
)

// Database metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "video_vault_db_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "video_vault_db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"operation"},
	)
)
