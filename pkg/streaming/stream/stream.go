package stream

import (
	"context"
	"sync"

	"go.uber.org/zap"

	rferrors "github.com/vnykmshr/reactflow/pkg/common/errors"
	"github.com/vnykmshr/reactflow/pkg/common/logging"
	"github.com/vnykmshr/reactflow/pkg/common/validation"
)

const module = "stream"

// Stream is a push-based source of items. Every call to Subscribe opens an
// independent subscription that receives zero or more items followed by at
// most one terminal signal (error or completion).
type Stream[T any] interface {
	// Subscribe activates the stream for obs. Cancelling ctx is equivalent
	// to calling Unsubscribe on the returned Subscription.
	Subscribe(ctx context.Context, obs Observer[T]) Subscription
}

// Observer holds the callbacks of one subscription. Next is required;
// Error and Complete are optional.
type Observer[T any] struct {
	Next     func(T)
	Error    func(error)
	Complete func()
}

// Subscription is the handle of one active subscription.
type Subscription interface {
	// Unsubscribe stops delivery. After it returns no callback of any kind
	// reaches the observer.
	Unsubscribe()

	// Done is closed once the subscription has terminated or was cancelled.
	Done() <-chan struct{}

	// Err returns the error the subscription terminated with, if any.
	Err() error
}

// Sink is the producer side of a subscription. Calls made after a terminal
// signal, or after the subscription was cancelled, are ignored.
type Sink[T any] interface {
	Next(v T)
	Error(err error)
	Complete()

	// Context is cancelled when the subscription ends for any reason.
	// Producers that start goroutines or register listeners watch it.
	Context() context.Context
}

// Producer drives one subscription. It may emit synchronously before
// returning or keep the sink and emit later. The returned teardown, if not
// nil, runs exactly once when the subscription ends.
type Producer[T any] func(sink Sink[T]) (teardown func())

// ColdStream re-invokes its producer for every subscription.
type ColdStream[T any] struct {
	produce Producer[T]
}

// Create returns a cold stream driven by produce.
func Create[T any](produce Producer[T]) Stream[T] {
	must(validation.ValidateNotNil(module, "producer", produce == nil))
	return &ColdStream[T]{produce: produce}
}

// Subscribe implements Stream. The subscription and its cancellation
// context exist before the producer runs, so operators can cancel upstream
// from inside a synchronous emission.
func (s *ColdStream[T]) Subscribe(ctx context.Context, obs Observer[T]) Subscription {
	sub := newSubscription(ctx, obs)
	if sub.ctx.Err() != nil {
		sub.finish()
		return sub
	}
	sub.setTeardown(s.produce(sub))
	return sub
}

func (s *ColdStream[T]) subscribeAny(ctx context.Context, obs Observer[any]) Subscription {
	return s.Subscribe(ctx, eraseObserver[T](obs))
}

// subscription is both the Subscription handed to the observer and the
// Sink handed to the producer.
type subscription[T any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	obs    Observer[T]
	done   chan struct{}

	// delivery state, only touched from inside ser
	ser       serializer
	delivered bool

	mu        sync.Mutex
	err       error
	ended     bool
	teardown  func()
	stopWatch func() bool
}

func newSubscription[T any](parent context.Context, obs Observer[T]) *subscription[T] {
	must(validation.ValidateNotNil(module, "observer.Next", obs.Next == nil))
	if parent == nil {
		parent = context.Background()
	}

	ctx, cancel := context.WithCancel(parent)
	sub := &subscription[T]{
		ctx:    ctx,
		cancel: cancel,
		obs:    obs,
		done:   make(chan struct{}),
	}
	stop := context.AfterFunc(ctx, sub.finish)
	sub.mu.Lock()
	sub.stopWatch = stop
	sub.mu.Unlock()
	return sub
}

func (s *subscription[T]) Next(v T) {
	s.ser.run(func() {
		if s.closed() {
			if s.delivered {
				logger().Debug("dropped item after terminal signal")
			}
			return
		}
		s.obs.Next(v)
	})
}

func (s *subscription[T]) Error(err error) {
	s.ser.run(func() {
		if s.closed() {
			logger().Debug("dropped error after subscription ended", zap.Error(err))
			return
		}
		s.delivered = true
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()

		if s.obs.Error != nil {
			s.obs.Error(err)
		} else {
			logger().Warn("unhandled stream error", zap.Error(err))
		}
		s.finish()
	})
}

func (s *subscription[T]) Complete() {
	s.ser.run(func() {
		if s.closed() {
			return
		}
		s.delivered = true
		if s.obs.Complete != nil {
			s.obs.Complete()
		}
		s.finish()
	})
}

func (s *subscription[T]) Context() context.Context {
	return s.ctx
}

func (s *subscription[T]) Unsubscribe() {
	s.finish()
}

func (s *subscription[T]) Done() <-chan struct{} {
	return s.done
}

func (s *subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *subscription[T]) closed() bool {
	return s.delivered || s.ctx.Err() != nil
}

// setTeardown stores fn, or runs it at once if the subscription already
// ended while the producer was still running.
func (s *subscription[T]) setTeardown(fn func()) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		fn()
		return
	}
	s.teardown = fn
	s.mu.Unlock()
}

// finish ends the subscription exactly once.
func (s *subscription[T]) finish() {
	s.mu.Lock()
	if s.ended {
		s.mu.Unlock()
		return
	}
	s.ended = true
	teardown := s.teardown
	s.teardown = nil
	stop := s.stopWatch
	s.mu.Unlock()

	if stop != nil {
		stop()
	}
	// upstream subscriptions are released before the context is cancelled
	// so their own watchers find them already ended
	if teardown != nil {
		teardown()
	}
	s.cancel()
	close(s.done)
}

// serializer runs queued functions one at a time, in order, without holding
// a lock while they run. A function queued from inside a running function
// (same goroutine) or from another goroutine is run by whichever caller
// currently owns the drain loop.
type serializer struct {
	mu      sync.Mutex
	queue   []func()
	running bool
}

func (s *serializer) run(fn func()) {
	s.mu.Lock()
	s.queue = append(s.queue, fn)
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	drained := false
	defer func() {
		// a panicking callback releases the drain loop and discards the backlog
		if !drained {
			s.mu.Lock()
			s.running = false
			s.queue = nil
			s.mu.Unlock()
		}
	}()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.running = false
			drained = true
			s.mu.Unlock()
			return
		}
		next := s.queue[0]
		s.queue[0] = nil
		s.queue = s.queue[1:]
		s.mu.Unlock()

		next()
	}
}

// untyped is implemented by streams of this package so that operators over
// Stream[any] (Flatten, AdjoinProps, Lift) can subscribe to a nested stream
// of any element type.
type untyped interface {
	subscribeAny(ctx context.Context, obs Observer[any]) Subscription
}

type anyStream struct {
	Stream[any]
}

func (a anyStream) subscribeAny(ctx context.Context, obs Observer[any]) Subscription {
	return a.Subscribe(ctx, obs)
}

func untypedOf(v any) (untyped, bool) {
	switch s := v.(type) {
	case untyped:
		return s, true
	case Stream[any]:
		return anyStream{s}, true
	}
	return nil, false
}

func fromUntyped(u untyped) Stream[any] {
	if a, ok := u.(anyStream); ok {
		return a.Stream
	}
	return Create(func(sink Sink[any]) func() {
		return u.subscribeAny(sink.Context(), forward(sink)).Unsubscribe
	})
}

func eraseObserver[T any](obs Observer[any]) Observer[T] {
	return Observer[T]{
		Next:     func(v T) { obs.Next(v) },
		Error:    obs.Error,
		Complete: obs.Complete,
	}
}

func forward[T any](sink Sink[T]) Observer[T] {
	return Observer[T]{
		Next:     sink.Next,
		Error:    sink.Error,
		Complete: sink.Complete,
	}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustStream[T any](s Stream[T], field string) {
	must(validation.ValidateNotNil(module, field, s == nil))
}

func logger() *zap.Logger {
	return logging.Named(module)
}

// IsPreconditionPanic reports whether a recovered panic value is a
// precondition violation raised while building a stream.
func IsPreconditionPanic(recovered any) bool {
	err, ok := recovered.(error)
	return ok && rferrors.IsValidationError(err)
}
