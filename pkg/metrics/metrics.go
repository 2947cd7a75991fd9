package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eunoia"

var (
	// Registry holds the eunoia Prometheus collectors.
	Registry = prometheus.NewRegistry()

	simulatedRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "simulate",
			Name:      "requests_total",
			Help:      "Simulated backend requests by latency band and outcome.",
		},
		[]string{"band", "outcome"},
	)

	simulatedDelay = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "simulate",
			Name:      "delay_seconds",
			Help:      "Delay drawn for simulated backend requests.",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.5, 0.8, 1.2, 1.6, 2},
		},
		[]string{"band"},
	)

	invocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "invoke",
			Name:      "calls_total",
			Help:      "Service invocations by method and outcome.",
		},
		[]string{"method", "outcome"},
	)

	generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ai",
			Name:      "generations_total",
			Help:      "Text generations by kind and source (generated or fallback).",
		},
		[]string{"kind", "source"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)
)

func init() {
	Registry.MustRegister(
		simulatedRequests,
		simulatedDelay,
		invocations,
		generations,
		httpRequests,
		httpDuration,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordSimulatedRequest counts one simulated request and its drawn delay.
func RecordSimulatedRequest(band string, delay time.Duration, ok bool) {
	simulatedRequests.WithLabelValues(band, outcome(ok)).Inc()
	simulatedDelay.WithLabelValues(band).Observe(delay.Seconds())
}

// RecordInvocation counts a settled invocation of service.method.
func RecordInvocation(method string, ok bool) {
	invocations.WithLabelValues(method, outcome(ok)).Inc()
}

// RecordSupersededInvocation counts a call whose result was discarded because
// a newer call on the same invocation started first.
func RecordSupersededInvocation(method string) {
	invocations.WithLabelValues(method, "superseded").Inc()
}

// RecordGeneration counts a text generation and whether it fell back.
func RecordGeneration(kind, source string) {
	generations.WithLabelValues(kind, source).Inc()
}

// InstrumentHandler records request counts and latency keyed by the mux route template.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
