package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RemoteRequestLatency records content-store request latency by method and status.
	RemoteRequestLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rigforge_remote_request_latency_seconds",
		Help:    "Remote content store request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})

	// CollectionPersistTotal counts full-document overwrites per collection path.
	CollectionPersistTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rigforge_collection_persist_total",
		Help: "Total number of collection document overwrites",
	}, []string{"path"})

	// CollectionSeedTotal counts collections seeded with defaults at startup.
	CollectionSeedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rigforge_collection_seed_total",
		Help: "Total number of collections seeded because the document was absent",
	}, []string{"path"})

	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rigforge_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ImageUploadsTotal counts processed image uploads by filename prefix.
	ImageUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rigforge_image_uploads_total",
		Help: "Total number of image uploads by kind",
	}, []string{"kind"})
)
