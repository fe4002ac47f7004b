// Package metrics provides Prometheus instrumentation for reactflow components.
//
// # Overview
//
// The metrics package provides instrumentation for:
//   - Stream subscriptions (opened, active, cancelled)
//   - Stream events (items delivered, errors, completions)
//   - Observables (current-value updates)
//
// # Quick Start
//
// Wrap any stream with stream.Instrument and expose the default registry:
//
//	prices := stream.Instrument(stream.Debounce(raw, 50*time.Millisecond), "prices", metrics.DefaultRegistry)
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # Custom Registries
//
// Tests and multi-tenant processes should use their own Prometheus registry
// so collectors do not collide:
//
//	reg := prometheus.NewRegistry()
//	m := metrics.NewRegistryWithConfig(metrics.Config{
//		Enabled:   true,
//		Registry:  reg,
//		Namespace: "myapp",
//	})
//
// # Metric Names
//
// With the default namespace the collectors are:
//
//	reactflow_stream_subscriptions_total{stream_name}
//	reactflow_stream_active_subscriptions{stream_name}
//	reactflow_stream_items_total{stream_name}
//	reactflow_stream_errors_total{stream_name}
//	reactflow_stream_completions_total{stream_name}
//	reactflow_stream_cancellations_total{stream_name}
//	reactflow_observable_updates_total{observable_name}
package metrics
