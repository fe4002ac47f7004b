/*
Package streaming groups the reactive stream packages of reactflow.

This package provides the following components:

  - stream: Push-based streams with cold and hot variants, source adapters,
    combinators (map, adjoin, merge, flatten, debounce, resolve, take, skip,
    changes) and an Observable that tracks the latest value
  - emitter: Named-event emitter satisfying stream.Emitter
  - sources: Adapters for cron schedules, Redis Pub/Sub and watched files

Basic usage:

	ticker := crontick.New(crontick.DefaultConfig())
	defer ticker.Close()

	ticks, _ := ticker.Stream("@every 10s")
	latest := stream.NewObservable(ctx, time.Time{}, ticks)

	fmt.Println(latest.Value())

All streams deliver items and terminal signals in order per subscription
and stop delivering once the subscription's context is cancelled.
*/
package streaming
