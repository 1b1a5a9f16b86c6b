package middleware

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/wayfare-dev/wayfare/pkg/router"
)

// MetricsConfig configures the Prometheus transition metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "wayfare").
	Namespace string

	// Subsystem is the metrics subsystem (default: "router").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for transition duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to register with.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus transition metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) { c.Subsystem = subsystem }
}

// WithConstLabels sets constant labels on all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithBuckets sets the duration histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "wayfare",
		Subsystem: "router",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

type metrics struct {
	transitionsTotal   *prometheus.CounterVec
	transitionDuration *prometheus.HistogramVec
	inFlight           prometheus.Gauge

	mu     sync.Mutex
	starts map[int64]time.Time
}

func newMetrics(cfg MetricsConfig) *metrics {
	factory := promauto.With(cfg.Registry)
	return &metrics{
		transitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "transitions_total",
			Help:        "Transitions by target route and outcome",
			ConstLabels: cfg.ConstLabels,
		}, []string{"route", "status"}),

		transitionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "transition_duration_seconds",
			Help:        "Time from transition start to commit or failure",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"route"}),

		inFlight: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "transitions_in_flight",
			Help:        "Transition attempts currently running",
			ConstLabels: cfg.ConstLabels,
		}),

		starts: make(map[int64]time.Time),
	}
}

func (m *metrics) begin(ev router.TransitionEvent) {
	if ev.ToState == nil || ev.ToState.Meta == nil {
		return
	}
	m.mu.Lock()
	m.starts[ev.ToState.Meta.ID] = time.Now()
	m.mu.Unlock()
	m.inFlight.Inc()
}

func (m *metrics) end(ev router.TransitionEvent, status string) {
	route := "unknown"
	if ev.ToState != nil {
		route = ev.ToState.Name
	}
	m.transitionsTotal.WithLabelValues(route, status).Inc()

	if ev.ToState == nil || ev.ToState.Meta == nil {
		return
	}
	m.mu.Lock()
	started, ok := m.starts[ev.ToState.Meta.ID]
	if ok {
		delete(m.starts, ev.ToState.Meta.ID)
	}
	m.mu.Unlock()
	if !ok {
		// Attempt failed before its start event, nothing in flight.
		return
	}
	m.inFlight.Dec()
	m.transitionDuration.WithLabelValues(route).Observe(time.Since(started).Seconds())
}

// Metrics attaches Prometheus collectors to the router's transition
// events and returns a detach function. Metrics cover every attempt,
// including cancellations that never reach middleware.
func Metrics(r *router.Router, opts ...MetricsOption) func() {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	m := newMetrics(cfg)

	unsubs := []func(){
		r.AddEventListener(router.EventTransitionStart, m.begin),
		r.AddEventListener(router.EventTransitionSuccess, func(ev router.TransitionEvent) {
			m.end(ev, "success")
		}),
		r.AddEventListener(router.EventTransitionError, func(ev router.TransitionEvent) {
			m.end(ev, "error")
		}),
		r.AddEventListener(router.EventTransitionCancel, func(ev router.TransitionEvent) {
			m.end(ev, "cancelled")
		}),
	}
	return func() {
		for _, u := range unsubs {
			u()
		}
	}
}

// Prometheus returns middleware counting transitions as they pass the
// pipeline. Lighter than Metrics: no duration or outcome tracking, one
// counter incremented per attempt that reaches middleware.
func Prometheus(opts ...MetricsOption) router.MiddlewareFactory {
	cfg := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	counter := promauto.With(cfg.Registry).NewCounterVec(prometheus.CounterOpts{
		Namespace:   cfg.Namespace,
		Subsystem:   cfg.Subsystem,
		Name:        "pipeline_transitions_total",
		Help:        "Transitions that reached the middleware pipeline",
		ConstLabels: cfg.ConstLabels,
	}, []string{"route"})

	return func(r *router.Router, deps router.Dependencies) router.Middleware {
		return func(to, from *router.State, done router.CompletionFn) {
			if to != nil {
				counter.WithLabelValues(to.Name).Inc()
			}
			done(nil)
		}
	}
}
