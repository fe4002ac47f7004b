package stream

import (
	"context"
	"sync"
)

// Deferred is a single value that becomes available later.
type Deferred[T any] interface {
	// Await blocks until the value settles or ctx is done.
	Await(ctx context.Context) (T, error)
}

// awaiter is the untyped form of Deferred used by Resolve.
type awaiter interface {
	awaitAny(ctx context.Context) (any, error)
}

// Future is a write-once Deferred value.
type Future[T any] struct {
	done  chan struct{}
	once  sync.Once
	value T
	err   error
}

// NewPromise returns an unsettled Future together with the functions that
// settle it. Only the first settle call has an effect.
func NewPromise[T any]() (f *Future[T], resolve func(T), reject func(error)) {
	f = &Future[T]{done: make(chan struct{})}
	resolve = func(v T) { f.settle(v, nil) }
	reject = func(err error) {
		var zero T
		f.settle(zero, err)
	}
	return f, resolve, reject
}

// Async runs fn on its own goroutine and returns a Future of its result.
func Async[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	f, _, _ := NewPromise[T]()
	go func() {
		v, err := fn(ctx)
		f.settle(v, err)
	}()
	return f
}

// Resolved returns a Future already settled with v.
func Resolved[T any](v T) *Future[T] {
	f, resolve, _ := NewPromise[T]()
	resolve(v)
	return f
}

// Rejected returns a Future already settled with err.
func Rejected[T any](err error) *Future[T] {
	f, _, reject := NewPromise[T]()
	reject(err)
	return f
}

// Await implements Deferred.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Done is closed once the future has settled.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

func (f *Future[T]) awaitAny(ctx context.Context) (any, error) {
	v, err := f.Await(ctx)
	return v, err
}

func (f *Future[T]) settle(v T, err error) {
	f.once.Do(func() {
		f.value = v
		f.err = err
		close(f.done)
	})
}

type deferredAny[T any] struct {
	Deferred[T]
}

func (d deferredAny[T]) awaitAny(ctx context.Context) (any, error) {
	v, err := d.Await(ctx)
	return v, err
}

func awaiterOf(v any) (awaiter, bool) {
	switch d := v.(type) {
	case awaiter:
		return d, true
	case Deferred[any]:
		return deferredAny[any]{d}, true
	}
	return nil, false
}
