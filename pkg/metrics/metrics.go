package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/sgl-project/dataset-viz/pkg/storage"
)

const namespace = "dataset_viz"

// Outcome labels.
const (
	OutcomeSuccess      = "success"
	OutcomeNotFound     = "not_found"
	OutcomeAccessDenied = "access_denied"
	OutcomeTooLarge     = "too_large"
	OutcomeError        = "error"
)

// Version check outcome labels.
const (
	VersionSupported    = "supported"
	VersionUnsupported  = "unsupported"
	VersionIncompatible = "incompatible"
)

// Metrics holds the service's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	storageRequestsTotal   *prometheus.CounterVec
	storageRequestDuration *prometheus.HistogramVec
	proxiedBytesTotal      prometheus.Counter
	versionChecksTotal     *prometheus.CounterVec
	httpRequestDuration    *prometheus.HistogramVec
}

// NewMetrics registers the collectors with registerer, or the default
// registerer when nil.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registerer)

	return &Metrics{
		storageRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "storage_requests_total",
				Help:      "The total number of object storage calls",
			},
			[]string{"provider", "operation", "outcome"},
		),
		storageRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "storage_request_duration_seconds",
				Help:      "The duration of object storage calls in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12), // From 5ms to ~10s
			},
			[]string{"provider", "operation"},
		),
		proxiedBytesTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proxied_bytes_total",
			Help:      "The total bytes returned by the storage proxy",
		}),
		versionChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "version_checks_total",
				Help:      "The total number of dataset version checks",
			},
			[]string{"result"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "The duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}
}

// Outcome classifies err into an outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case storage.IsNotFound(err):
		return OutcomeNotFound
	case storage.IsAccessDenied(err):
		return OutcomeAccessDenied
	case errors.Is(err, storage.ErrTooLarge):
		return OutcomeTooLarge
	default:
		return OutcomeError
	}
}

// ObserveStorageRequest records one object storage call.
func (m *Metrics) ObserveStorageRequest(provider storage.Provider, operation string, err error, duration time.Duration) {
	if m == nil {
		return
	}
	m.storageRequestsTotal.WithLabelValues(string(provider), operation, Outcome(err)).Inc()
	m.storageRequestDuration.WithLabelValues(string(provider), operation).Observe(duration.Seconds())
}

// RecordProxiedBytes adds n to the proxied byte count.
func (m *Metrics) RecordProxiedBytes(n int) {
	if m == nil {
		return
	}
	m.proxiedBytesTotal.Add(float64(n))
}

// RecordVersionCheck records a version check result.
func (m *Metrics) RecordVersionCheck(result string) {
	if m == nil {
		return
	}
	m.versionChecksTotal.WithLabelValues(result).Inc()
}

// ObserveHTTPRequest records a served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}

// NewRegistry returns a registry carrying the Go runtime and process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler serves the metrics gathered by gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Module provides a *prometheus.Registry and the *Metrics registered with it.
var Module = fx.Provide(
	NewRegistry,
	func(reg *prometheus.Registry) *Metrics { return NewMetrics(reg) },
)
