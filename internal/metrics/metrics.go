// Package metrics records gallery operations and HTTP traffic with Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"gallery/internal/port"
)

const (
	operationUpload = "upload"
	operationReload = "reload"
)

// Option configures a Prometheus recorder.
type Option func(*options)

type options struct {
	namespace string
	registry  prometheus.Registerer
	buckets   []float64
}

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

// WithRegistry sets the registry metrics are registered with.
// Default: prometheus.DefaultRegisterer
func WithRegistry(registry prometheus.Registerer) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) Option {
	return func(o *options) {
		o.buckets = buckets
	}
}

// Prometheus implements port.GalleryMetrics and also provides the HTTP
// request collectors used by the gin middleware.
type Prometheus struct {
	uploadsTotal      *prometheus.CounterVec
	reloadsTotal      *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	images            prometheus.Gauge

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

var _ port.GalleryMetrics = (*Prometheus)(nil)

// NewPrometheus registers the gallery collectors and returns the recorder.
// Registering twice on the same registry panics, so callers create one per
// process (or one per test registry).
func NewPrometheus(opts ...Option) *Prometheus {
	o := options{
		namespace: "gallery",
		registry:  prometheus.DefaultRegisterer,
		buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&o)
	}
	factory := promauto.With(o.registry)

	return &Prometheus{
		uploadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "uploads_total",
			Help:      "Total number of upload attempts by outcome",
		}, []string{"outcome"}),

		reloadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "reloads_total",
			Help:      "Total number of gallery reloads by outcome",
		}, []string{"outcome"}),

		operationDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of object store round trips in seconds",
			Buckets:   o.buckets,
		}, []string{"operation"}),

		images: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: o.namespace,
			Name:      "images",
			Help:      "Number of images currently shown in the gallery",
		}),

		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: o.namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),

		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: o.namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   o.buckets,
		}, []string{"route", "method"}),
	}
}

func (p *Prometheus) ObserveUpload(outcome string, d time.Duration) {
	p.uploadsTotal.WithLabelValues(outcome).Inc()
	// Skipped uploads never reach the store.
	if outcome != port.OutcomeSkipped {
		p.operationDuration.WithLabelValues(operationUpload).Observe(d.Seconds())
	}
}

func (p *Prometheus) ObserveReload(outcome string, d time.Duration) {
	p.reloadsTotal.WithLabelValues(outcome).Inc()
	p.operationDuration.WithLabelValues(operationReload).Observe(d.Seconds())
}

func (p *Prometheus) SetImageCount(n int) {
	p.images.Set(float64(n))
}

// Noop discards every observation. Used when metrics are disabled and by the CLI.
type Noop struct{}

var _ port.GalleryMetrics = Noop{}

func (Noop) ObserveUpload(string, time.Duration) {}
func (Noop) ObserveReload(string, time.Duration) {}
func (Noop) SetImageCount(int)                   {}
