package stream

import (
	"context"

	rferrors "github.com/vnykmshr/reactflow/pkg/common/errors"
)

var errNilDeferred = rferrors.NewValidationError(module, "deferred", nil, "cannot be nil")

type subscribeFunc[T any] func(ctx context.Context, obs Observer[T]) Subscription

// Flatten subscribes to every stream item of s and emits the items of those
// inner streams as they arrive. Items that are not streams pass through
// unchanged. The result completes once s and every inner stream have
// completed; any error fails it.
func Flatten(s Stream[any]) Stream[any] {
	mustStream(s, "stream")
	return join(s, func(item any) (subscribeFunc[any], any) {
		if u, ok := untypedOf(item); ok {
			return u.subscribeAny, nil
		}
		return nil, item
	})
}

// Join is the typed form of Flatten for a stream of streams.
func Join[T any](s Stream[Stream[T]]) Stream[T] {
	mustStream(s, "stream")
	return join(s, func(inner Stream[T]) (subscribeFunc[T], T) {
		var zero T
		if inner == nil {
			return Empty[T]().Subscribe, zero
		}
		return inner.Subscribe, zero
	})
}

func join[In, Out any](s Stream[In], split func(In) (subscribeFunc[Out], Out)) Stream[Out] {
	return Create(func(sink Sink[Out]) func() {
		var ser serializer
		open := 0
		outerDone := false
		maybeComplete := func() {
			if outerDone && open == 0 {
				sink.Complete()
			}
		}

		return s.Subscribe(sink.Context(), Observer[In]{
			Next: func(item In) {
				subscribe, v := split(item)
				if subscribe == nil {
					ser.run(func() { sink.Next(v) })
					return
				}

				ser.run(func() { open++ })
				subscribe(sink.Context(), Observer[Out]{
					Next: func(v Out) {
						ser.run(func() { sink.Next(v) })
					},
					Error: func(err error) {
						ser.run(func() { sink.Error(err) })
					},
					Complete: func() {
						ser.run(func() {
							open--
							maybeComplete()
						})
					},
				})
			},
			Error: func(err error) {
				ser.run(func() { sink.Error(err) })
			},
			Complete: func() {
				ser.run(func() {
					outerDone = true
					maybeComplete()
				})
			},
		}).Unsubscribe
	})
}

// Resolve awaits every Deferred item of s and emits its value once settled,
// in settlement order. Other items pass through immediately. A rejected
// item fails the result. Completion waits for every pending item.
func Resolve(s Stream[any]) Stream[any] {
	mustStream(s, "stream")

	return Create(func(sink Sink[any]) func() {
		ctx := sink.Context()
		var ser serializer
		pending := 0
		upstreamDone := false

		return s.Subscribe(ctx, Observer[any]{
			Next: func(item any) {
				d, ok := awaiterOf(item)
				if !ok {
					ser.run(func() { sink.Next(item) })
					return
				}

				ser.run(func() { pending++ })
				go func() {
					v, err := d.awaitAny(ctx)
					ser.run(func() {
						pending--
						if err != nil {
							sink.Error(err)
							return
						}
						sink.Next(v)
						if upstreamDone && pending == 0 {
							sink.Complete()
						}
					})
				}()
			},
			Error: func(err error) {
				ser.run(func() { sink.Error(err) })
			},
			Complete: func() {
				ser.run(func() {
					upstreamDone = true
					if pending == 0 {
						sink.Complete()
					}
				})
			},
		}).Unsubscribe
	})
}

// ResolveFutures is the typed form of Resolve.
func ResolveFutures[T any](s Stream[Deferred[T]]) Stream[T] {
	mustStream(s, "stream")

	items := Map(s, func(d Deferred[T]) any {
		if d == nil {
			return Rejected[T](errNilDeferred)
		}
		return deferredAny[T]{d}
	})
	return Map(Resolve(items), func(v any) T {
		out, _ := v.(T)
		return out
	})
}
