package stream

import (
	"context"
	"sync"
)

// Subject is a hot stream with push methods. Items pushed with Next reach
// only the observers subscribed at the time of the push; nothing is
// replayed. Once the subject terminates, later subscribers receive the same
// terminal signal immediately.
//
// A Subject is safe for concurrent use.
type Subject[T any] struct {
	mu         sync.Mutex
	sinks      []*subscription[T]
	terminated bool
	err        error
}

// NewSubject returns an active Subject with no observers.
func NewSubject[T any]() *Subject[T] {
	return &Subject[T]{}
}

// Subscribe implements Stream.
func (s *Subject[T]) Subscribe(ctx context.Context, obs Observer[T]) Subscription {
	sub := newSubscription(ctx, obs)
	if sub.ctx.Err() != nil {
		sub.finish()
		return sub
	}

	s.mu.Lock()
	if s.terminated {
		err := s.err
		s.mu.Unlock()
		if err != nil {
			sub.Error(err)
		} else {
			sub.Complete()
		}
		return sub
	}
	s.sinks = append(s.sinks, sub)
	s.mu.Unlock()

	sub.setTeardown(func() { s.remove(sub) })
	return sub
}

func (s *Subject[T]) subscribeAny(ctx context.Context, obs Observer[any]) Subscription {
	return s.Subscribe(ctx, eraseObserver[T](obs))
}

// Next pushes v to every current observer.
func (s *Subject[T]) Next(v T) {
	for _, sub := range s.snapshot(false, nil) {
		sub.Next(v)
	}
}

// Error terminates the subject with err.
func (s *Subject[T]) Error(err error) {
	for _, sub := range s.snapshot(true, err) {
		sub.Error(err)
	}
}

// Complete terminates the subject normally.
func (s *Subject[T]) Complete() {
	for _, sub := range s.snapshot(true, nil) {
		sub.Complete()
	}
}

// ObserverCount returns the number of active observers.
func (s *Subject[T]) ObserverCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sinks)
}

func (s *Subject[T]) snapshot(terminate bool, err error) []*subscription[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.terminated {
		return nil
	}
	sinks := make([]*subscription[T], len(s.sinks))
	copy(sinks, s.sinks)
	if terminate {
		s.terminated = true
		s.err = err
		s.sinks = nil
	}
	return sinks
}

func (s *Subject[T]) remove(sub *subscription[T]) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.sinks {
		if existing == sub {
			s.sinks = append(s.sinks[:i], s.sinks[i+1:]...)
			return
		}
	}
}
