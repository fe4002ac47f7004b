package stream

import (
	"context"
	"sync"
)

// ToSlice subscribes to s and blocks until it terminates, returning every
// emitted item. It returns the stream's error, or ctx.Err() when ctx ends
// before the stream completes.
func ToSlice[T any](ctx context.Context, s Stream[T]) ([]T, error) {
	mustStream(s, "stream")
	var (
		mu    sync.Mutex
		items []T
	)
	err := run(ctx, s, func(v T) {
		mu.Lock()
		items = append(items, v)
		mu.Unlock()
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return items, nil
}

// ForEach calls fn for every item of s and blocks until s terminates.
func ForEach[T any](ctx context.Context, s Stream[T], fn func(T)) error {
	mustStream(s, "stream")
	return run(ctx, s, fn)
}

// First returns the first item of s. The boolean is false when s completed
// without emitting.
func First[T any](ctx context.Context, s Stream[T]) (T, bool, error) {
	var zero T
	items, err := ToSlice(ctx, Head(s))
	if err != nil {
		return zero, false, err
	}
	if len(items) == 0 {
		return zero, false, nil
	}
	return items[0], true, nil
}

// Each subscribes the given callbacks to s. Only next is required.
func Each[T any](ctx context.Context, s Stream[T], next func(T), onError func(error), onComplete func()) Subscription {
	mustStream(s, "stream")
	return s.Subscribe(ctx, Observer[T]{Next: next, Error: onError, Complete: onComplete})
}

func run[T any](ctx context.Context, s Stream[T], next func(T)) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var (
		mu        sync.Mutex
		failed    error
		completed bool
	)
	sub := s.Subscribe(ctx, Observer[T]{
		Next: next,
		Error: func(err error) {
			mu.Lock()
			failed = err
			mu.Unlock()
		},
		Complete: func() {
			mu.Lock()
			completed = true
			mu.Unlock()
		},
	})
	<-sub.Done()

	mu.Lock()
	defer mu.Unlock()
	switch {
	case failed != nil:
		return failed
	case completed:
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		return context.Canceled
	}
}
