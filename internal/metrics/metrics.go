// Package metrics exposes Prometheus instrumentation for study sessions and
// the HTTP API. Each Collector owns its registry, so tests and multiple
// servers in one process never collide on registration.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "studygraph"

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// Session metrics
	DecksCompiled   prometheus.Counter
	CompileFailures *prometheus.CounterVec
	Responses       *prometheus.CounterVec
	LedgerWrites    *prometheus.CounterVec
	LayoutDuration  prometheus.Histogram
	DeckSize        *prometheus.GaugeVec

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// NewCollector creates a collector with a fresh registry. An empty
// namespace means DefaultNamespace.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		DecksCompiled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "decks_compiled_total",
			Help:      "Total number of note texts compiled into decks",
		}),
		CompileFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compile_failures_total",
			Help:      "Total number of failed compilations by reason",
		}, []string{"reason"}),
		Responses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responses_total",
			Help:      "Total number of flashcard responses by outcome",
		}, []string{"outcome"}),
		LedgerWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_writes_total",
			Help:      "Total number of ledger write-throughs by status",
		}, []string{"status"}),
		LayoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Graph layout duration in seconds",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
		}),
		DeckSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "deck_size",
			Help:      "Size of the current deck",
		}, []string{"kind"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		c.DecksCompiled,
		c.CompileFailures,
		c.Responses,
		c.LedgerWrites,
		c.LayoutDuration,
		c.DeckSize,
		c.HTTPRequests,
		c.HTTPDuration,
	)
	return c
}

// Registry returns the Prometheus registry for this collector
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// DeckCompiled records a successful compilation.
func (c *Collector) DeckCompiled(nodes, flashcards int) {
	c.DecksCompiled.Inc()
	c.DeckSize.WithLabelValues("nodes").Set(float64(nodes))
	c.DeckSize.WithLabelValues("flashcards").Set(float64(flashcards))
}

// CompileFailed records a failed compilation.
func (c *Collector) CompileFailed(reason string) {
	c.CompileFailures.WithLabelValues(reason).Inc()
}

// ResponseRecorded counts a study response.
func (c *Collector) ResponseRecorded(correct bool) {
	outcome := "incorrect"
	if correct {
		outcome = "correct"
	}
	c.Responses.WithLabelValues(outcome).Inc()
}

// LedgerWrite counts a write-through attempt.
func (c *Collector) LedgerWrite(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.LedgerWrites.WithLabelValues(status).Inc()
}

// LayoutObserved records how long a layout took.
func (c *Collector) LayoutObserved(d time.Duration) {
	c.LayoutDuration.Observe(d.Seconds())
}

// Middleware records request counts and durations labelled by chi route
// pattern, keeping label cardinality bounded.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		c.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
