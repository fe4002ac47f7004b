/*
Package reactflow provides push-based reactive streams for Go applications.

Streaming (pkg/streaming):
  - stream: Stream core, source adapters, combinators and Observable
  - emitter: Typed in-process named-event emitter
  - sources/crontick: Cron schedules as tick streams
  - sources/redispubsub: Redis Pub/Sub channels as streams
  - sources/filewatch: File contents as a watched value

Instrumentation (pkg/metrics):
  - Prometheus counters for subscriptions, items and terminal signals

Example usage:

	import (
		"github.com/vnykmshr/reactflow/pkg/streaming/stream"
	)

	width, height := stream.NewSubject[int](), stream.NewSubject[int]()
	area := stream.Lift(func(args ...any) int {
		return args[0].(int) * args[1].(int)
	}, width, height)

	sub := stream.Each(ctx, area, render, nil, nil)
	defer sub.Unsubscribe()
*/
package reactflow
