package stream

import (
	"time"

	"github.com/vnykmshr/reactflow/pkg/common/validation"
)

// Debounce emits an item of s only after wait has passed without a newer
// item arriving. Errors are forwarded at once. When s completes while an
// item is pending, that item is emitted when its timer fires and the
// result completes right after it.
func Debounce[T any](s Stream[T], wait time.Duration) Stream[T] {
	mustStream(s, "stream")
	must(validation.ValidateNonNegativeDuration(module, "wait", wait))

	return Create(func(sink Sink[T]) func() {
		var ser serializer
		var timer *time.Timer
		var generation uint64
		upstreamDone := false

		stop := func() {
			if timer != nil {
				timer.Stop()
				timer = nil
			}
		}

		sub := s.Subscribe(sink.Context(), Observer[T]{
			Next: func(v T) {
				ser.run(func() {
					stop()
					generation++
					mine := generation
					timer = time.AfterFunc(wait, func() {
						ser.run(func() {
							if mine != generation || timer == nil {
								return
							}
							timer = nil
							sink.Next(v)
							if upstreamDone {
								sink.Complete()
							}
						})
					})
				})
			},
			Error: func(err error) {
				ser.run(func() {
					stop()
					sink.Error(err)
				})
			},
			Complete: func() {
				ser.run(func() {
					upstreamDone = true
					if timer == nil {
						sink.Complete()
					}
				})
			},
		})

		return func() {
			sub.Unsubscribe()
			ser.run(stop)
		}
	})
}
