/*
Package stream provides push-based reactive streams with a small algebra of
composition operators.

A Stream delivers items to an Observer through a subscription. Each
subscription receives zero or more items followed by at most one terminal
signal, either an error or a completion. Nothing reaches the observer after
the terminal signal or after the subscription was cancelled.

Core Concepts:

  - Cold streams (Create, FromSlice, Of, operators) run their producer once
    per subscription; two subscribers see independent runs.
  - Hot streams (Subject) fan out pushes to the observers present at the
    time of the push and replay nothing.
  - Subscriptions are cancelled through their context or Unsubscribe.
    Operators subscribe upstream with the subscription's own context, so
    cancellation and termination propagate through a whole pipeline.
  - Delivery within one subscription is serialized even when producers emit
    from several goroutines or from inside a callback.

Basic Usage:

	s := stream.Map(stream.Of(1, 2, 3), func(x int) int { return x * 10 })

	items, err := stream.ToSlice(ctx, s)
	if err != nil {
		return err
	}
	fmt.Println(items) // [10 20 30]

Sources:

	stream.FromSlice([]string{"a", "b"})
	stream.FromFuture(stream.Async(ctx, fetch))
	stream.FromEmitter[Event](bus, "updated")
	stream.FromHolder[Config](cfg)
	stream.FromChannel(ch)
	stream.Create(func(sink stream.Sink[int]) func() {
		sink.Next(1)
		sink.Complete()
		return nil
	})

From dispatches on the dynamic type of its argument and returns a
*errors.SourceKindError for unsupported shapes. From(nil) returns a Subject.

Combining:

	// latest value of every input, once all inputs have emitted
	stream.Adjoin([]stream.Stream[int]{a, b}, nil)

	// the same, keyed and optionally nested
	stream.AdjoinProps(map[string]any{"user": users, "page": pages}, nil)

	stream.Merge(a, b)
	stream.Lift(func(args ...any) int { return args[0].(int) + args[1].(int) }, a, 1)

Flatten and Join subscribe to inner streams, Resolve emits the settled
values of Deferred items, Debounce waits for quiet periods, and Take, Skip,
Head, Tail, StartWith, Changes and Filter shape a single stream.

Observable:

	obs := stream.NewObservable(ctx, 0, counter)
	obs.Value()                  // latest value seen
	stream.Each(ctx, obs, render, nil, nil) // current value, then changes

Errors:

Operators validate their arguments when the stream is built and panic with
an *errors.ValidationError on misuse (negative counts, nil functions or
streams). Stream failures are delivered through Observer.Error; a failure
with no Error callback is logged at warn level through the package logger.

Metrics:

Instrument wraps a stream with Prometheus counters from the metrics package.

	s = stream.Instrument(s, "orders", metrics.DefaultRegistry)
*/
package stream
