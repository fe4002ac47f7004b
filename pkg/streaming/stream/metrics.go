package stream

import (
	"sync/atomic"

	"github.com/vnykmshr/reactflow/pkg/metrics"
)

// Instrument records subscription lifecycle and item counts of s under
// name. A nil registry uses metrics.DefaultRegistry.
func Instrument[T any](s Stream[T], name string, registry *metrics.Registry) Stream[T] {
	mustStream(s, "stream")
	if registry == nil {
		registry = metrics.DefaultRegistry
	}

	return Create(func(sink Sink[T]) func() {
		items := registry.Items.WithLabelValues(name)
		active := registry.ActiveSubscriptions.WithLabelValues(name)
		registry.Subscriptions.WithLabelValues(name).Inc()
		active.Inc()

		var terminated atomic.Bool
		sub := s.Subscribe(sink.Context(), Observer[T]{
			Next: func(v T) {
				items.Inc()
				sink.Next(v)
			},
			Error: func(err error) {
				terminated.Store(true)
				registry.Errors.WithLabelValues(name).Inc()
				sink.Error(err)
			},
			Complete: func() {
				terminated.Store(true)
				registry.Completions.WithLabelValues(name).Inc()
				sink.Complete()
			},
		})

		return func() {
			if !terminated.Load() {
				registry.Cancellations.WithLabelValues(name).Inc()
			}
			active.Dec()
			sub.Unsubscribe()
		}
	})
}
