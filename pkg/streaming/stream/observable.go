package stream

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/vnykmshr/reactflow/pkg/metrics"
)

// Observable tracks the latest item of a source stream for as long as its
// construction context lives. Each subscriber first receives the current
// value and then every item that differs from the one before it.
//
// Subscribing to an Observable opens a new subscription to the source, so
// cold sources are activated again for every subscriber.
type Observable[T any] struct {
	source Stream[T]
	sub    Subscription

	mu      sync.RWMutex
	current T
	updates prometheus.Counter
}

// NewObservable subscribes to source immediately and keeps that
// subscription until ctx is done. initial is the value reported before the
// source emits.
func NewObservable[T any](ctx context.Context, initial T, source Stream[T]) *Observable[T] {
	mustStream(source, "source")

	o := &Observable[T]{source: source, current: initial}
	o.sub = source.Subscribe(ctx, Observer[T]{
		Next: o.set,
		Error: func(err error) {
			logger().Warn("observable source failed", zap.Error(err))
		},
	})
	return o
}

// Value returns the most recent item seen, or the initial value.
func (o *Observable[T]) Value() T {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.current
}

// Subscribe implements Stream. Errors of the source are not delivered to
// obs; obs.Error is ignored.
func (o *Observable[T]) Subscribe(ctx context.Context, obs Observer[T]) Subscription {
	view := Changes(StartWith(o.Value(), o.source))
	return view.Subscribe(ctx, Observer[T]{
		Next: obs.Next,
		Error: func(err error) {
			logger().Debug("observable subscriber source failed", zap.Error(err))
		},
		Complete: obs.Complete,
	})
}

func (o *Observable[T]) subscribeAny(ctx context.Context, obs Observer[any]) Subscription {
	return o.Subscribe(ctx, eraseObserver[T](obs))
}

// Done is closed once the tracking subscription has ended, because the
// source terminated or the construction context was cancelled.
func (o *Observable[T]) Done() <-chan struct{} {
	return o.sub.Done()
}

// EnableMetrics counts every tracked update under name in registry.
// A nil registry uses metrics.DefaultRegistry.
func (o *Observable[T]) EnableMetrics(name string, registry *metrics.Registry) {
	if registry == nil {
		registry = metrics.DefaultRegistry
	}
	o.mu.Lock()
	o.updates = registry.ObservableUpdates.WithLabelValues(name)
	o.mu.Unlock()
}

// DisableMetrics stops counting updates.
func (o *Observable[T]) DisableMetrics() {
	o.mu.Lock()
	o.updates = nil
	o.mu.Unlock()
}

func (o *Observable[T]) set(v T) {
	o.mu.Lock()
	o.current = v
	updates := o.updates
	o.mu.Unlock()

	if updates != nil {
		updates.Inc()
	}
}
