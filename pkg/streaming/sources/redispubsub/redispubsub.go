// Package redispubsub exposes Redis Pub/Sub channels as streams.
//
// An Emitter is a stream.Emitter[string] whose event names are Redis
// channel names and whose payloads are message payloads. Each channel is
// subscribed once, when it gains its first listener, and unsubscribed when
// its last listener leaves.
//
//	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
//	em, err := redispubsub.New(redispubsub.Config{Client: rdb})
//	if err != nil {
//		return err
//	}
//	defer em.Close()
//
//	orders := em.Stream("orders")
package redispubsub

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	rferrors "github.com/vnykmshr/reactflow/pkg/common/errors"
	"github.com/vnykmshr/reactflow/pkg/common/logging"
	"github.com/vnykmshr/reactflow/pkg/common/validation"
	"github.com/vnykmshr/reactflow/pkg/streaming/emitter"
	"github.com/vnykmshr/reactflow/pkg/streaming/stream"
)

const module = "redispubsub"

// Config holds configuration for a Redis Pub/Sub emitter.
type Config struct {
	// Client is the Redis client used for subscribing and publishing.
	Client redis.UniversalClient

	// SubscribeTimeout bounds the wait for Redis to confirm a channel
	// subscription. Defaults to 5 seconds.
	SubscribeTimeout time.Duration

	// PublishTimeout bounds Publish calls whose context has no deadline.
	// Defaults to 1 second.
	PublishTimeout time.Duration
}

// DefaultConfig returns a default configuration without a client.
func DefaultConfig() Config {
	return Config{
		SubscribeTimeout: 5 * time.Second,
		PublishTimeout:   time.Second,
	}
}

// Emitter fans Redis Pub/Sub messages out to in-process listeners.
type Emitter struct {
	config Config
	events *emitter.Emitter[string]

	mu     sync.Mutex
	subs   map[string]*redis.PubSub
	wg     sync.WaitGroup
	closed bool
}

// New creates an Emitter. The client is not contacted until the first
// listener registers.
func New(config Config) (*Emitter, error) {
	if err := validateConfig(config); err != nil {
		return nil, err
	}
	config = applyConfigDefaults(config)

	e := &Emitter{
		config: config,
		subs:   make(map[string]*redis.PubSub),
	}
	e.events = emitter.NewWithHooks[string](emitter.Hooks{
		Activate:   e.subscribe,
		Deactivate: e.unsubscribe,
	})
	return e, nil
}

func validateConfig(config Config) error {
	if err := validation.ValidateNotNil(module, "Client", config.Client == nil); err != nil {
		return err
	}
	if err := validation.ValidateNonNegativeDuration(module, "SubscribeTimeout", config.SubscribeTimeout); err != nil {
		return err
	}
	return validation.ValidateNonNegativeDuration(module, "PublishTimeout", config.PublishTimeout)
}

func applyConfigDefaults(config Config) Config {
	defaults := DefaultConfig()
	if config.SubscribeTimeout == 0 {
		config.SubscribeTimeout = defaults.SubscribeTimeout
	}
	if config.PublishTimeout == 0 {
		config.PublishTimeout = defaults.PublishTimeout
	}
	return config
}

// On implements stream.Emitter. Subscription failures are logged and the
// listener is not registered; Stream reports them as stream errors instead.
func (e *Emitter) On(channel string, listener func(string)) (off func()) {
	return e.events.On(channel, listener)
}

// Stream returns the messages published to channel. A failed subscription
// terminates the stream with an *errors.OperationError.
func (e *Emitter) Stream(channel string) stream.Stream[string] {
	return stream.Create(func(sink stream.Sink[string]) func() {
		off, err := e.events.Listen(channel, sink.Next)
		if err != nil {
			sink.Error(err)
			return nil
		}
		return off
	})
}

// Publish sends payload to channel and returns the number of Redis
// clients that received it.
func (e *Emitter) Publish(ctx context.Context, channel, payload string) (int64, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.PublishTimeout)
		defer cancel()
	}

	n, err := e.config.Client.Publish(ctx, channel, payload).Result()
	if err != nil {
		return 0, rferrors.NewOperationError(module, "publish", err).WithContext(channel)
	}
	return n, nil
}

// Channels returns the channels currently subscribed.
func (e *Emitter) Channels() []string {
	return e.events.Events()
}

// Close unsubscribes every channel and waits for the delivery goroutines
// to exit. The Redis client itself is left open.
func (e *Emitter) Close() error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	e.events.Close()
	e.wg.Wait()
	return nil
}

func (e *Emitter) subscribe(channel string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return rferrors.NewOperationError(module, "subscribe", rferrors.ErrClosed).WithContext(channel)
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.config.SubscribeTimeout)
	defer cancel()

	ps := e.config.Client.Subscribe(ctx, channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return rferrors.NewOperationError(module, "subscribe", err).WithContext(channel)
	}

	e.subs[channel] = ps
	e.wg.Add(1)
	go e.deliver(channel, ps.Channel())
	logging.Named(module).Debug("subscribed", zap.String("channel", channel))
	return nil
}

func (e *Emitter) deliver(channel string, messages <-chan *redis.Message) {
	defer e.wg.Done()
	for msg := range messages {
		e.events.Emit(channel, msg.Payload)
	}
}

func (e *Emitter) unsubscribe(channel string) {
	e.mu.Lock()
	ps, ok := e.subs[channel]
	delete(e.subs, channel)
	e.mu.Unlock()

	if !ok {
		return
	}
	if err := ps.Close(); err != nil {
		logging.Named(module).Error("unsubscribe failed", zap.String("channel", channel), zap.Error(err))
	}
}
