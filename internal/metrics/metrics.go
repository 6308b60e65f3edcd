package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banter_http_requests_total",
			Help: "Total number of HTTP requests to the ops server.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "banter_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	MessagesProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banter_messages_processed_total",
			Help: "Total number of units of work by terminal outcome.",
		},
		[]string{"outcome"},
	)

	BackendLatency = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "banter_backend_latency_seconds",
			Help:    "Generative backend call duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	SideEffectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banter_side_effects_total",
			Help: "Total number of dispatched side effects.",
		},
		[]string{"kind", "status"},
	)

	MediaIngestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "banter_media_ingest_total",
			Help: "Total number of media ingestion attempts.",
		},
		[]string{"result"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		MessagesProcessedTotal,
		BackendLatency,
		SideEffectsTotal,
		MediaIngestTotal,
	)
}
