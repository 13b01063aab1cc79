package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch kinds used as the "kind" label on origin fetch counters.
const (
	KindManifest = "manifest"
	KindSegment  = "segment"
)

// Metrics holds Prometheus counters and gauges for the HLS relay.
type Metrics struct {
	registry           *prometheus.Registry
	requestsTotal      prometheus.Counter
	errorsTotal        prometheus.Counter
	originFetchesTotal *prometheus.CounterVec
	originErrorsTotal  prometheus.Counter
	manifestsRewritten prometheus.Counter
	segmentBytesTotal  prometheus.Counter
	inflightFetches    prometheus.Gauge
}

// New creates and registers Prometheus metrics for the relay.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hls_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "hls_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	originFetchesTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_origin_fetches_total",
		Help: "Total number of fetches issued to the origin, by content kind",
	}, []string{"kind"})
	originErrorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_origin_errors_total",
		Help: "Total number of origin fetches that failed or returned an error status",
	})
	manifestsRewritten := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_manifests_rewritten_total",
		Help: "Total number of manifests rewritten and served",
	})
	segmentBytesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_segment_bytes_total",
		Help: "Total number of non-manifest bytes forwarded to clients",
	})
	inflightFetches := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "relay_inflight_fetches",
		Help: "Number of origin fetches currently in progress",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		originFetchesTotal,
		originErrorsTotal,
		manifestsRewritten,
		segmentBytesTotal,
		inflightFetches,
	)

	return &Metrics{
		registry:           registry,
		requestsTotal:      requestsTotal,
		errorsTotal:        errorsTotal,
		originFetchesTotal: originFetchesTotal,
		originErrorsTotal:  originErrorsTotal,
		manifestsRewritten: manifestsRewritten,
		segmentBytesTotal:  segmentBytesTotal,
		inflightFetches:    inflightFetches,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncOriginFetches counts one origin fetch of the given kind.
func (m *Metrics) IncOriginFetches(kind string) {
	m.originFetchesTotal.WithLabelValues(kind).Inc()
}

// IncOriginErrors increments the origin failure counter.
func (m *Metrics) IncOriginErrors() {
	m.originErrorsTotal.Inc()
}

// IncManifestsRewritten increments the rewritten manifest counter.
func (m *Metrics) IncManifestsRewritten() {
	m.manifestsRewritten.Inc()
}

// AddSegmentBytes adds n forwarded bytes.
func (m *Metrics) AddSegmentBytes(n int64) {
	m.segmentBytesTotal.Add(float64(n))
}

// FetchStarted and FetchDone track in-flight origin fetches.
func (m *Metrics) FetchStarted() {
	m.inflightFetches.Inc()
}

func (m *Metrics) FetchDone() {
	m.inflightFetches.Dec()
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
