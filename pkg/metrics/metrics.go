package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry bundles the collectors the API server exposes on /metrics.
type Registry struct {
	httpDuration   *prometheus.HistogramVec
	comparisons    prometheus.Counter
	snapshotHits   prometheus.Counter
	snapshotMisses prometheus.Counter
	uploadRows     *prometheus.CounterVec
}

// New registers the service collectors on the provided registerer.
func New(reg prometheus.Registerer) *Registry {
	if reg == nil {
		return &Registry{}
	}

	httpDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
	comparisons := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "basket_comparisons_total",
		Help: "Basket comparison requests served.",
	})
	snapshotHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_snapshot_hits_total",
		Help: "Comparison catalog snapshots served from cache.",
	})
	snapshotMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_snapshot_misses_total",
		Help: "Comparison catalog snapshots rebuilt from the database.",
	})
	uploadRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "bulk_upload_rows_total",
		Help: "Bulk upload rows processed, by result.",
	}, []string{"result"})

	reg.MustRegister(httpDuration, comparisons, snapshotHits, snapshotMisses, uploadRows)
	return &Registry{
		httpDuration:   httpDuration,
		comparisons:    comparisons,
		snapshotHits:   snapshotHits,
		snapshotMisses: snapshotMisses,
		uploadRows:     uploadRows,
	}
}

// ObserveRequest records one handled HTTP request.
func (r *Registry) ObserveRequest(method string, status int, duration time.Duration) {
	if r == nil || r.httpDuration == nil {
		return
	}
	r.httpDuration.WithLabelValues(method, strconv.Itoa(status)).Observe(duration.Seconds())
}

// IncComparison counts one basket comparison.
func (r *Registry) IncComparison() {
	if r == nil || r.comparisons == nil {
		return
	}
	r.comparisons.Inc()
}

// IncSnapshotHit counts a catalog snapshot served from cache.
func (r *Registry) IncSnapshotHit() {
	if r == nil || r.snapshotHits == nil {
		return
	}
	r.snapshotHits.Inc()
}

// IncSnapshotMiss counts a catalog snapshot rebuilt from the database.
func (r *Registry) IncSnapshotMiss() {
	if r == nil || r.snapshotMisses == nil {
		return
	}
	r.snapshotMisses.Inc()
}

// AddUploadRows adds processed bulk upload rows for the given result label.
func (r *Registry) AddUploadRows(result string, count int) {
	if r == nil || r.uploadRows == nil || count <= 0 {
		return
	}
	r.uploadRows.WithLabelValues(result).Add(float64(count))
}
