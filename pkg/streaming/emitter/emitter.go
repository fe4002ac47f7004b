// Package emitter provides a typed in-process named-event emitter that
// satisfies stream.Emitter. Adapters use its activation hooks to acquire an
// external resource when an event gains its first listener and to release
// it when the last listener leaves.
package emitter

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	rferrors "github.com/vnykmshr/reactflow/pkg/common/errors"
	"github.com/vnykmshr/reactflow/pkg/common/logging"
	"github.com/vnykmshr/reactflow/pkg/common/validation"
)

const module = "emitter"

// Hooks are called while the emitter's registration lock is held, so calls
// for the same emitter never overlap.
type Hooks struct {
	// Activate runs before the first listener of event is registered.
	// A non-nil error rejects the registration.
	Activate func(event string) error

	// Deactivate runs after the last listener of event was removed.
	Deactivate func(event string)
}

// Emitter delivers payloads to the listeners of a named event. It is safe
// for concurrent use.
type Emitter[T any] struct {
	hooks Hooks

	mu        sync.RWMutex
	listeners map[string][]*listener[T]
	closed    bool
}

type listener[T any] struct {
	fn func(T)
}

// New returns an emitter without hooks.
func New[T any]() *Emitter[T] {
	return NewWithHooks[T](Hooks{})
}

// NewWithHooks returns an emitter that reports activation changes to hooks.
func NewWithHooks[T any](hooks Hooks) *Emitter[T] {
	return &Emitter[T]{
		hooks:     hooks,
		listeners: make(map[string][]*listener[T]),
	}
}

// On registers fn for event. Registration failures are logged and yield a
// no-op off function; use Listen to observe them.
func (e *Emitter[T]) On(event string, fn func(T)) (off func()) {
	off, err := e.Listen(event, fn)
	if err != nil {
		logging.Named(module).Error("listener registration failed",
			zap.String("event", event), zap.Error(err))
		return func() {}
	}
	return off
}

// Listen registers fn for event and returns the function that removes it.
// Calling off more than once has no further effect.
func (e *Emitter[T]) Listen(event string, fn func(T)) (off func(), err error) {
	if err := validation.ValidateNotEmpty(module, "event", event); err != nil {
		return nil, err
	}
	if err := validation.ValidateNotNil(module, "listener", fn == nil); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, rferrors.NewOperationError(module, "listen", rferrors.ErrClosed).WithContext(event)
	}
	if len(e.listeners[event]) == 0 && e.hooks.Activate != nil {
		if err := e.hooks.Activate(event); err != nil {
			return nil, err
		}
	}

	l := &listener[T]{fn: fn}
	e.listeners[event] = append(e.listeners[event], l)

	var once sync.Once
	return func() { once.Do(func() { e.remove(event, l) }) }, nil
}

// Once registers fn for the next occurrence of event only.
func (e *Emitter[T]) Once(event string, fn func(T)) (off func(), err error) {
	var (
		mu     sync.Mutex
		remove func()
		fired  bool
	)
	r, err := e.Listen(event, func(v T) {
		mu.Lock()
		if fired {
			mu.Unlock()
			return
		}
		fired = true
		rm := remove
		mu.Unlock()

		if rm != nil {
			rm()
		}
		fn(v)
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	remove = r
	alreadyFired := fired
	mu.Unlock()
	if alreadyFired {
		r()
	}
	return r, nil
}

// Emit calls every listener of event with v, in registration order, and
// returns how many were called.
func (e *Emitter[T]) Emit(event string, v T) int {
	e.mu.RLock()
	ls := make([]*listener[T], len(e.listeners[event]))
	copy(ls, e.listeners[event])
	e.mu.RUnlock()

	for _, l := range ls {
		l.fn(v)
	}
	return len(ls)
}

// ListenerCount returns the number of listeners registered for event.
func (e *Emitter[T]) ListenerCount(event string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners[event])
}

// Events returns the names of events with at least one listener, sorted.
func (e *Emitter[T]) Events() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	events := make([]string, 0, len(e.listeners))
	for event := range e.listeners {
		events = append(events, event)
	}
	sort.Strings(events)
	return events
}

// Close removes every listener, deactivating their events, and rejects
// further registrations.
func (e *Emitter[T]) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	for event := range e.listeners {
		delete(e.listeners, event)
		if e.hooks.Deactivate != nil {
			e.hooks.Deactivate(event)
		}
	}
}

func (e *Emitter[T]) remove(event string, l *listener[T]) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ls := e.listeners[event]
	for i, existing := range ls {
		if existing != l {
			continue
		}
		ls = append(ls[:i:i], ls[i+1:]...)
		if len(ls) == 0 {
			delete(e.listeners, event)
			if e.hooks.Deactivate != nil {
				e.hooks.Deactivate(event)
			}
			return
		}
		e.listeners[event] = ls
		return
	}
}
