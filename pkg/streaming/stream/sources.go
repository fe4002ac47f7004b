package stream

import (
	"context"

	rferrors "github.com/vnykmshr/reactflow/pkg/common/errors"
	"github.com/vnykmshr/reactflow/pkg/common/validation"
)

// Emitter is a named-event source. On registers listener for event and
// returns a function that removes it again.
type Emitter[T any] interface {
	On(event string, listener func(T)) (off func())
}

// Holder is a current-value cell that announces its changes.
type Holder[T any] interface {
	Value() T
	OnChange(listener func(T)) (off func())
}

// FromSlice emits the items of values in order and then completes. Every
// subscription replays the whole slice.
func FromSlice[T any](values []T) Stream[T] {
	return Create(func(sink Sink[T]) func() {
		ctx := sink.Context()
		for _, v := range values {
			if ctx.Err() != nil {
				return nil
			}
			sink.Next(v)
		}
		sink.Complete()
		return nil
	})
}

// Of emits the given values and completes.
func Of[T any](values ...T) Stream[T] {
	return FromSlice(values)
}

// Empty completes without emitting.
func Empty[T any]() Stream[T] {
	return Create(func(sink Sink[T]) func() {
		sink.Complete()
		return nil
	})
}

// Never neither emits nor terminates.
func Never[T any]() Stream[T] {
	return Create(func(Sink[T]) func() { return nil })
}

// Fail terminates every subscription with err.
func Fail[T any](err error) Stream[T] {
	return Create(func(sink Sink[T]) func() {
		sink.Error(err)
		return nil
	})
}

// FromFuture emits the settled value of d and completes, or fails with its
// error. The wait is abandoned when the subscription ends.
func FromFuture[T any](d Deferred[T]) Stream[T] {
	must(validation.ValidateNotNil(module, "deferred", d == nil))
	return Create(func(sink Sink[T]) func() {
		ctx := sink.Context()
		go func() {
			v, err := d.Await(ctx)
			if ctx.Err() != nil {
				return
			}
			if err != nil {
				sink.Error(err)
				return
			}
			sink.Next(v)
			sink.Complete()
		}()
		return nil
	})
}

// FromStream wraps s so that only its Stream behaviour is exposed.
func FromStream[T any](s Stream[T]) Stream[T] {
	mustStream(s, "stream")
	return Create(func(sink Sink[T]) func() {
		return s.Subscribe(sink.Context(), forward(sink)).Unsubscribe
	})
}

// FromEmitter emits every payload em fires for event. The listener is
// removed when the subscription ends. The stream never completes by itself.
func FromEmitter[T any](em Emitter[T], event string) Stream[T] {
	must(validation.ValidateNotNil(module, "emitter", em == nil))
	must(validation.ValidateNotEmpty(module, "event", event))
	return Create(func(sink Sink[T]) func() {
		return em.On(event, sink.Next)
	})
}

// FromHolder emits the holder's current value on subscription and then
// every change it announces.
func FromHolder[T any](h Holder[T]) Stream[T] {
	must(validation.ValidateNotNil(module, "holder", h == nil))
	return Create(func(sink Sink[T]) func() {
		sink.Next(h.Value())
		return h.OnChange(sink.Next)
	})
}

// FromChannel emits values received from ch and completes when ch is
// closed. Concurrent subscriptions compete for the channel's values.
func FromChannel[T any](ch <-chan T) Stream[T] {
	must(validation.ValidateNotNil(module, "channel", ch == nil))
	return Create(func(sink Sink[T]) func() {
		ctx := sink.Context()
		go pump(ctx, ch, sink)
		return nil
	})
}

func pump[T any](ctx context.Context, ch <-chan T, sink Sink[T]) {
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				sink.Complete()
				return
			}
			sink.Next(v)
		case <-ctx.Done():
			return
		}
	}
}

// From builds a stream from any supported source shape:
//
//   - nil yields a new *Subject[T]
//   - []T is emitted in order
//   - Emitter[T] requires the event name as the first argument
//   - Deferred[T] emits its settled value
//   - Stream[T] is wrapped as is
//   - Producer[T] or func(Sink[T]) func() becomes a cold stream
//   - Holder[T] emits its current value and its changes
//   - <-chan T and chan T are drained until closed
//
// Anything else returns a *errors.SourceKindError.
func From[T any](src any, args ...any) (Stream[T], error) {
	switch v := src.(type) {
	case nil:
		return NewSubject[T](), nil
	case []T:
		return FromSlice(v), nil
	case Emitter[T]:
		event, ok := firstString(args)
		if !ok {
			return nil, rferrors.NewValidationError(module, "event", args, "emitter sources need an event name").
				WithHint("pass the event name after the emitter")
		}
		return FromEmitter(v, event), nil
	case Deferred[T]:
		return FromFuture(v), nil
	case Stream[T]:
		return FromStream(v), nil
	case Producer[T]:
		return Create(v), nil
	case func(Sink[T]) func():
		return Create(Producer[T](v)), nil
	case Holder[T]:
		return FromHolder(v), nil
	case <-chan T:
		return FromChannel(v), nil
	case chan T:
		return FromChannel((<-chan T)(v)), nil
	}
	return nil, rferrors.NewSourceKindError(src)
}

func firstString(args []any) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	s, ok := args[0].(string)
	return s, ok && s != ""
}
