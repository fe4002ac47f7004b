// Package metrics provides Prometheus instrumentation for reactflow components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for reactflow components.
type Registry struct {
	// Stream Metrics
	Subscriptions       *prometheus.CounterVec
	ActiveSubscriptions *prometheus.GaugeVec
	Items               *prometheus.CounterVec
	Errors              *prometheus.CounterVec
	Completions         *prometheus.CounterVec
	Cancellations       *prometheus.CounterVec

	// Observable Metrics
	ObservableUpdates *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by reactflow components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithConfig(Config{Enabled: true, Registry: reg})
}

// NewRegistryWithConfig creates a metrics registry honoring the namespace and
// constant labels of config. A nil config.Registry means prometheus.DefaultRegisterer.
// When config.Enabled is false the collectors still count but are never
// registered, so nothing is exported.
func NewRegistryWithConfig(config Config) *Registry {
	reg := config.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if !config.Enabled {
		reg = nil
	}
	namespace := config.Namespace
	if namespace == "" {
		namespace = DefaultConfig().Namespace
	}
	factory := promauto.With(reg)

	return &Registry{
		Subscriptions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "stream",
				Name:        "subscriptions_total",
				Help:        "Total number of subscriptions opened",
				ConstLabels: config.Labels,
			},
			[]string{"stream_name"},
		),

		ActiveSubscriptions: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace:   namespace,
				Subsystem:   "stream",
				Name:        "active_subscriptions",
				Help:        "Number of subscriptions that have not yet terminated",
				ConstLabels: config.Labels,
			},
			[]string{"stream_name"},
		),

		Items: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "stream",
				Name:        "items_total",
				Help:        "Total number of items delivered to subscribers",
				ConstLabels: config.Labels,
			},
			[]string{"stream_name"},
		),

		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "stream",
				Name:        "errors_total",
				Help:        "Total number of subscriptions terminated by an error",
				ConstLabels: config.Labels,
			},
			[]string{"stream_name"},
		),

		Completions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "stream",
				Name:        "completions_total",
				Help:        "Total number of subscriptions that completed",
				ConstLabels: config.Labels,
			},
			[]string{"stream_name"},
		),

		Cancellations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "stream",
				Name:        "cancellations_total",
				Help:        "Total number of subscriptions cancelled before terminating",
				ConstLabels: config.Labels,
			},
			[]string{"stream_name"},
		),

		ObservableUpdates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   namespace,
				Subsystem:   "observable",
				Name:        "updates_total",
				Help:        "Total number of current-value updates applied by observables",
				ConstLabels: config.Labels,
			},
			[]string{"observable_name"},
		),
	}
}
