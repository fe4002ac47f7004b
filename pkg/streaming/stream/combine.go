package stream

import (
	"fmt"
	"sort"

	rferrors "github.com/vnykmshr/reactflow/pkg/common/errors"
	"github.com/vnykmshr/reactflow/pkg/common/validation"
)

// Adjoin combines the latest item of every stream in strs into a slice,
// emitted each time any input emits. With nil defaults nothing is emitted
// until every input has produced an item. Non-nil defaults must have one
// entry per input and seed every slot, so the first item of any input
// already yields a full slice.
//
// The result completes once every input has completed and fails as soon
// as any input fails. Every emitted slice is a fresh copy.
func Adjoin[T any](strs []Stream[T], defaults []T) Stream[[]T] {
	for i, s := range strs {
		mustStream(s, fmt.Sprintf("strs[%d]", i))
	}
	if defaults != nil && len(defaults) != len(strs) {
		panic(rferrors.NewValidationError(module, "defaults", len(defaults), "length must match the number of streams").
			WithHint(fmt.Sprintf("pass nil or %d defaults", len(strs))))
	}

	seeded := make([]bool, len(strs))
	if defaults != nil {
		for i := range seeded {
			seeded[i] = true
		}
	}
	return combineLatest(append([]Stream[T](nil), strs...), append([]T(nil), defaults...), seeded)
}

// AdjoinProps combines a map of streams into a stream of maps holding the
// latest item of each key. Values of strs may themselves be maps of the
// same shape, which are combined recursively and emitted as nested maps.
//
// defaults seeds individual keys; keys without a default hold back
// emission until their stream has produced an item. A nested map takes its
// defaults from the map stored under the same key in defaults.
func AdjoinProps(strs map[string]any, defaults map[string]any) Stream[map[string]any] {
	keys := make([]string, 0, len(strs))
	for k := range strs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	inputs := make([]Stream[any], len(keys))
	initial := make([]any, len(keys))
	seeded := make([]bool, len(keys))
	for i, key := range keys {
		switch v := strs[key].(type) {
		case map[string]any:
			nested, _ := defaults[key].(map[string]any)
			inputs[i] = Erase(AdjoinProps(v, nested))
		default:
			u, ok := untypedOf(v)
			if !ok {
				panic(rferrors.NewValidationError(module, "strs["+key+"]", v, "must be a stream or a map of streams"))
			}
			inputs[i] = fromUntyped(u)
			if d, ok := defaults[key]; ok {
				initial[i], seeded[i] = d, true
			}
		}
	}

	return Map(combineLatest(inputs, initial, seeded), func(values []any) map[string]any {
		out := make(map[string]any, len(keys))
		for i, key := range keys {
			out[key] = values[i]
		}
		return out
	})
}

func combineLatest[T any](strs []Stream[T], initial []T, seeded []bool) Stream[[]T] {
	return Create(func(sink Sink[[]T]) func() {
		n := len(strs)
		if n == 0 {
			sink.Complete()
			return nil
		}

		var ser serializer
		values := make([]T, n)
		copy(values, initial)
		has := append([]bool(nil), seeded...)
		ready := allTrue(has)
		remaining := n

		subs := make([]Subscription, 0, n)
		for i, s := range strs {
			if sink.Context().Err() != nil {
				break
			}
			completed := false
			subs = append(subs, s.Subscribe(sink.Context(), Observer[T]{
				Next: func(v T) {
					ser.run(func() {
						values[i] = v
						if !ready {
							has[i] = true
							ready = allTrue(has)
						}
						if ready {
							sink.Next(append([]T(nil), values...))
						}
					})
				},
				Error: func(err error) {
					ser.run(func() { sink.Error(err) })
				},
				Complete: func() {
					ser.run(func() {
						if completed {
							return
						}
						completed = true
						remaining--
						if remaining == 0 {
							sink.Complete()
						}
					})
				},
			}))
		}
		return unsubscribeAll(subs)
	})
}

// Merge emits the items of every input as they arrive. It completes once
// all inputs have completed and fails as soon as any input fails.
func Merge[T any](strs ...Stream[T]) Stream[T] {
	for i, s := range strs {
		mustStream(s, fmt.Sprintf("strs[%d]", i))
	}
	strs = append([]Stream[T](nil), strs...)

	return Create(func(sink Sink[T]) func() {
		if len(strs) == 0 {
			sink.Complete()
			return nil
		}

		var ser serializer
		remaining := len(strs)
		subs := make([]Subscription, 0, len(strs))
		for _, s := range strs {
			if sink.Context().Err() != nil {
				break
			}
			subs = append(subs, s.Subscribe(sink.Context(), Observer[T]{
				Next:  sink.Next,
				Error: sink.Error,
				Complete: func() {
					ser.run(func() {
						remaining--
						if remaining == 0 {
							sink.Complete()
						}
					})
				},
			}))
		}
		return unsubscribeAll(subs)
	})
}

// Lift applies fn to the latest values of inputs each time any of them
// changes. Inputs that are not streams are treated as constant streams.
func Lift[R any](fn func(args ...any) R, inputs ...any) Stream[R] {
	must(validation.ValidateNotNil(module, "fn", fn == nil))

	strs := make([]Stream[any], len(inputs))
	for i, in := range inputs {
		if u, ok := untypedOf(in); ok {
			strs[i] = fromUntyped(u)
		} else {
			strs[i] = Of[any](in)
		}
	}
	return Map(Adjoin(strs, nil), func(args []any) R { return fn(args...) })
}

func allTrue(flags []bool) bool {
	for _, f := range flags {
		if !f {
			return false
		}
	}
	return true
}

func unsubscribeAll(subs []Subscription) func() {
	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}
