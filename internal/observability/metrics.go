// Package observability exposes Prometheus counters and gauges for the
// direct-dispatch fast path: hits, misses, registry size, and metaobject
// cache growth.
package observability

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qimsg",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total admin HTTP requests.",
		},
		[]string{"node", "method", "path", "status"},
	)
	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "qimsg",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Admin HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"node", "method", "path", "status"},
	)

	dispatchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "qimsg",
			Subsystem: "dispatch",
			Name:      "attempts_total",
			Help:      "Direct-dispatch attempts by outcome.",
		},
		[]string{"stream", "outcome"},
	)
	registrySize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "qimsg",
			Subsystem: "registry",
			Name:      "endpoints",
			Help:      "Live endpoints registered per kind.",
		},
		[]string{"stream", "kind"},
	)
	metaObjectCacheSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "qimsg",
			Subsystem: "metaobject",
			Name:      "cache_entries",
			Help:      "Metaobject cache entries per stream and direction.",
		},
		[]string{"stream", "direction"},
	)
)

// Dispatch outcome labels recorded by RecordDispatch.
const (
	OutcomeHit      = "hit"
	OutcomeMiss     = "miss"
	OutcomeFallback = "fallback"
)

// RegisterMetrics registers this package's collectors with the default
// Prometheus registry. Safe to call more than once; only the first call
// takes effect.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(httpRequests, httpDuration, dispatchTotal, registrySize, metaObjectCacheSize)
	})
}

// RecordHTTPRequest records one completed admin HTTP request.
func RecordHTTPRequest(node, method, path string, status int, duration time.Duration) {
	RegisterMetrics()
	statusLabel := strconv.Itoa(status)
	httpRequests.WithLabelValues(node, method, path, statusLabel).Inc()
	httpDuration.WithLabelValues(node, method, path, statusLabel).Observe(duration.Seconds())
}

// RecordDispatch increments the dispatch-attempt counter for stream under
// the given outcome label.
func RecordDispatch(stream, outcome string) {
	RegisterMetrics()
	dispatchTotal.WithLabelValues(stream, outcome).Inc()
}

// SetRegistrySize reports the current live-endpoint count for stream/kind
// (kind is "bound" or "remote").
func SetRegistrySize(stream, kind string, size int) {
	RegisterMetrics()
	registrySize.WithLabelValues(stream, kind).Set(float64(size))
}

// SetMetaObjectCacheSize reports the current entry count for stream's
// send or receive metaobject cache (direction is "send" or "receive").
func SetMetaObjectCacheSize(stream, direction string, size int) {
	RegisterMetrics()
	metaObjectCacheSize.WithLabelValues(stream, direction).Set(float64(size))
}
