package testutil

import (
	"sync"
)

// MockEmitter is a synchronous named-event emitter for adapter tests.
type MockEmitter[T any] struct {
	mu        sync.Mutex
	listeners map[string]map[int]func(T)
	nextID    int
	removed   int
}

// NewMockEmitter creates a MockEmitter with no listeners.
func NewMockEmitter[T any]() *MockEmitter[T] {
	return &MockEmitter[T]{listeners: make(map[string]map[int]func(T))}
}

// On registers fn for event and returns a function that removes it.
func (m *MockEmitter[T]) On(event string, fn func(T)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.listeners[event] == nil {
		m.listeners[event] = make(map[int]func(T))
	}
	id := m.nextID
	m.nextID++
	m.listeners[event][id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.listeners[event], id)
			m.removed++
		})
	}
}

// Emit calls every listener registered for event.
func (m *MockEmitter[T]) Emit(event string, v T) {
	m.mu.Lock()
	fns := make([]func(T), 0, len(m.listeners[event]))
	for _, fn := range m.listeners[event] {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// ListenerCount returns the number of listeners for event.
func (m *MockEmitter[T]) ListenerCount(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners[event])
}

// Removed returns how many listeners have been removed.
func (m *MockEmitter[T]) Removed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.removed
}

// MockHolder is a settable value holder with change notification.
type MockHolder[T any] struct {
	mu        sync.Mutex
	value     T
	listeners map[int]func(T)
	nextID    int
}

// NewMockHolder creates a MockHolder holding initial.
func NewMockHolder[T any](initial T) *MockHolder[T] {
	return &MockHolder[T]{value: initial, listeners: make(map[int]func(T))}
}

// Value returns the current value.
func (h *MockHolder[T]) Value() T {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.value
}

// OnChange registers fn and returns a function that removes it.
func (h *MockHolder[T]) OnChange(fn func(T)) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

// Set stores v and notifies listeners.
func (h *MockHolder[T]) Set(v T) {
	h.mu.Lock()
	h.value = v
	fns := make([]func(T), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}

// ListenerCount returns the number of registered listeners.
func (h *MockHolder[T]) ListenerCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.listeners)
}
