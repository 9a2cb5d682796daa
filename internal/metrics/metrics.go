// Package metrics exposes Prometheus instrumentation for the API and the
// projection workers. Mount Middleware on the router and Handler on
// GET /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "artisan_market"

var (
	// RequestDuration tracks HTTP request latency by method, route
	// pattern and status code.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts all HTTP requests.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// RequestInFlight tracks requests currently being served.
	RequestInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being served.",
	})

	// EventsProjected counts events folded into the read store, by
	// aggregate type.
	EventsProjected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "projection",
			Name:      "events_total",
			Help:      "Total events applied to the read store.",
		},
		[]string{"aggregate_type"},
	)

	// SearchCacheHits / SearchCacheMisses track the catalog search cache.
	SearchCacheHits = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "search_hits_total",
		Help:      "Catalog search cache hits.",
	})
	SearchCacheMisses = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "cache",
		Name:      "search_misses_total",
		Help:      "Catalog search cache misses.",
	})
)

// DefaultRegistry holds every collector the service registers.
var DefaultRegistry = prometheus.NewRegistry()

func init() {
	DefaultRegistry.MustRegister(collectors.NewGoCollector())
	DefaultRegistry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	DefaultRegistry.MustRegister(
		RequestDuration,
		RequestTotal,
		RequestInFlight,
		EventsProjected,
		SearchCacheHits,
		SearchCacheMisses,
	)
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records request duration, count and in-flight gauge for every
// request. The path label uses the chi route pattern, so /products/{id}
// stays one series regardless of how many products exist.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			RequestInFlight.Inc()
			defer RequestInFlight.Dec()

			rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rr, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}

			status := strconv.Itoa(rr.status)
			RequestDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
			RequestTotal.WithLabelValues(r.Method, path, status).Inc()
		})
	}
}

// Handler serves the metrics page for Prometheus scrapes.
func Handler() http.HandlerFunc {
	return promhttp.HandlerFor(DefaultRegistry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}).ServeHTTP
}
