// Package metrics exposes the Prometheus collectors of the service
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mapa"

type collectors struct {
	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	importBatches  *prometheus.CounterVec
	importRows     *prometheus.CounterVec
	importDuration prometheus.Histogram

	eventsPublished  *prometheus.CounterVec
	websocketClients prometheus.Gauge
}

var collectorsSingleton = sync.OnceValue(func() *collectors {
	return &collectors{
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		importBatches: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_batches_total",
			Help:      "Spreadsheet import batches by outcome.",
		}, []string{"result"}),
		importRows: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Spreadsheet rows by import outcome.",
		}, []string{"result"}),
		importDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Time spent importing one spreadsheet.",
			Buckets:   []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
		eventsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Change events handed to the websocket hub.",
		}, []string{"type"}),
		websocketClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_clients",
			Help:      "Currently connected websocket clients.",
		}),
	}
})

func get() *collectors {
	return collectorsSingleton()
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTP records one finished request
func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	c := get()
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ImportOutcome is what a finished batch reports
type ImportOutcome struct {
	DryRun   bool
	Rejected int
	Created  int
	Failed   int
	Elapsed  time.Duration
}

// RecordImport records a batch that got past parsing
func RecordImport(o ImportOutcome) {
	c := get()
	result := "completed"
	if o.DryRun {
		result = "dry_run"
	}
	c.importBatches.WithLabelValues(result).Inc()
	c.importRows.WithLabelValues("rejected").Add(float64(o.Rejected))
	c.importRows.WithLabelValues("created").Add(float64(o.Created))
	c.importRows.WithLabelValues("failed").Add(float64(o.Failed))
	c.importDuration.Observe(o.Elapsed.Seconds())
}

// RecordUnreadableImport records a batch rejected as a whole
func RecordUnreadableImport() {
	get().importBatches.WithLabelValues("unreadable").Inc()
}

// EventPublished counts one change event
func EventPublished(eventType string) {
	get().eventsPublished.WithLabelValues(eventType).Inc()
}

// SetWebsocketClients sets the connected client gauge
func SetWebsocketClients(n int) {
	get().websocketClients.Set(float64(n))
}
