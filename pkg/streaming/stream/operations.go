package stream

import (
	"context"
	"reflect"

	"github.com/vnykmshr/reactflow/pkg/common/validation"
)

// Map emits fn(v) for every item v of s.
func Map[T, U any](s Stream[T], fn func(T) U) Stream[U] {
	mustStream(s, "stream")
	must(validation.ValidateNotNil(module, "fn", fn == nil))

	return Create(func(sink Sink[U]) func() {
		return s.Subscribe(sink.Context(), Observer[T]{
			Next:     func(v T) { sink.Next(fn(v)) },
			Error:    sink.Error,
			Complete: sink.Complete,
		}).Unsubscribe
	})
}

// Erase converts s into a Stream[any].
func Erase[T any](s Stream[T]) Stream[any] {
	if a, ok := any(s).(Stream[any]); ok {
		return a
	}
	return Map(s, func(v T) any { return v })
}

// Filter emits the items of s for which predicate returns true.
func Filter[T any](s Stream[T], predicate func(T) bool) Stream[T] {
	mustStream(s, "stream")
	must(validation.ValidateNotNil(module, "predicate", predicate == nil))

	return Create(func(sink Sink[T]) func() {
		return s.Subscribe(sink.Context(), Observer[T]{
			Next: func(v T) {
				if predicate(v) {
					sink.Next(v)
				}
			},
			Error:    sink.Error,
			Complete: sink.Complete,
		}).Unsubscribe
	})
}

// Take emits the first n items of s and then completes, releasing the
// upstream subscription. Take(s, 0) completes without subscribing.
func Take[T any](s Stream[T], n int) Stream[T] {
	mustStream(s, "stream")
	must(validation.ValidateNonNegative(module, "n", n))

	return Create(func(sink Sink[T]) func() {
		if n == 0 {
			sink.Complete()
			return nil
		}

		// upstream gets its own context so it can be released before the
		// downstream completion is delivered
		ctx, cancel := context.WithCancel(sink.Context())
		var ser serializer
		count := 0

		sub := s.Subscribe(ctx, Observer[T]{
			Next: func(v T) {
				ser.run(func() {
					if count >= n {
						return
					}
					count++
					sink.Next(v)
					if count == n {
						cancel()
						sink.Complete()
					}
				})
			},
			Error:    sink.Error,
			Complete: sink.Complete,
		})
		return func() {
			cancel()
			sub.Unsubscribe()
		}
	})
}

// Skip drops the first n items of s and emits the rest.
func Skip[T any](s Stream[T], n int) Stream[T] {
	mustStream(s, "stream")
	must(validation.ValidateNonNegative(module, "n", n))

	return Create(func(sink Sink[T]) func() {
		skipped := 0
		return s.Subscribe(sink.Context(), Observer[T]{
			Next: func(v T) {
				if skipped < n {
					skipped++
					return
				}
				sink.Next(v)
			},
			Error:    sink.Error,
			Complete: sink.Complete,
		}).Unsubscribe
	})
}

// Head emits the first item of s and completes.
func Head[T any](s Stream[T]) Stream[T] {
	return Take(s, 1)
}

// Tail emits every item of s except the first.
func Tail[T any](s Stream[T]) Stream[T] {
	return Skip(s, 1)
}

// StartWith emits seed on subscription and then the items of s.
func StartWith[T any](seed T, s Stream[T]) Stream[T] {
	mustStream(s, "stream")

	return Create(func(sink Sink[T]) func() {
		sink.Next(seed)
		if sink.Context().Err() != nil {
			return nil
		}
		return s.Subscribe(sink.Context(), forward(sink)).Unsubscribe
	})
}

// Changes drops items that are deeply equal to the previously emitted one.
// The first item is always emitted.
func Changes[T any](s Stream[T]) Stream[T] {
	return ChangesFunc(s, func(a, b T) bool { return reflect.DeepEqual(a, b) })
}

// ChangesFunc is Changes with a caller supplied equality.
func ChangesFunc[T any](s Stream[T], equal func(a, b T) bool) Stream[T] {
	mustStream(s, "stream")
	must(validation.ValidateNotNil(module, "equal", equal == nil))

	return Create(func(sink Sink[T]) func() {
		var last T
		seen := false
		return s.Subscribe(sink.Context(), Observer[T]{
			Next: func(v T) {
				if seen && equal(last, v) {
					return
				}
				last, seen = v, true
				sink.Next(v)
			},
			Error:    sink.Error,
			Complete: sink.Complete,
		}).Unsubscribe
	})
}
