package api

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors. Each Server owns its
// registry so several servers can live in one process.
//
// Exposed:
//   - tilemap_http_request_duration_seconds{method,path,status}
//   - tilemap_http_requests_inflight
//   - tilemap_http_request_errors_total{method,path,status}
//   - tilemap_cell_edits_total{op}
//   - tilemap_sessions_created_total
type Metrics struct {
	registry        *prometheus.Registry
	reqDuration     *prometheus.HistogramVec
	reqInflight     prometheus.Gauge
	reqErrors       *prometheus.CounterVec
	cellEdits       *prometheus.CounterVec
	sessionsCreated prometheus.Counter
}

// NewMetrics creates and registers the collectors
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "tilemap",
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "path", "status"}),
		reqInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "tilemap",
			Name:      "http_requests_inflight",
			Help:      "HTTP requests currently being served.",
		}),
		reqErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tilemap",
			Name:      "http_request_errors_total",
			Help:      "HTTP requests that ended with a 4xx or 5xx status.",
		}, []string{"method", "path", "status"}),
		cellEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "tilemap",
			Name:      "cell_edits_total",
			Help:      "Cells painted or erased.",
		}, []string{"op"}),
		sessionsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "tilemap",
			Name:      "sessions_created_total",
			Help:      "Editing sessions created.",
		}),
	}

	m.registry.MustRegister(m.reqDuration, m.reqInflight, m.reqErrors, m.cellEdits, m.sessionsCreated)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records duration, in-flight count and errors per route
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.reqInflight.Inc()
		defer m.reqInflight.Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}
		status := strconv.Itoa(rec.status)

		m.reqDuration.WithLabelValues(r.Method, path, status).Observe(time.Since(start).Seconds())
		if rec.status >= 400 {
			m.reqErrors.WithLabelValues(r.Method, path, status).Inc()
		}
	})
}

// statusRecorder captures the response status for the middleware
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Hijack lets WebSocket upgrades pass through the middleware
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
