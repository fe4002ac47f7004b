package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// TestTimeout is the default timeout for tests
const TestTimeout = 5 * time.Second

// WithTimeout creates a context with the default test timeout
func WithTimeout(t *testing.T) (context.Context, context.CancelFunc) {
	t.Helper()
	return context.WithTimeout(context.Background(), TestTimeout)
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertEqual fails the test if got != want
func AssertEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// AssertNotEqual fails the test if got == want
func AssertNotEqual[T comparable](t *testing.T, got, want T) {
	t.Helper()
	if got == want {
		t.Fatalf("got %v, want anything else", got)
	}
}

// AssertDeepEqual fails the test with a diff if got and want differ structurally
func AssertDeepEqual(t *testing.T, got, want interface{}) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

// Eventually polls condition every interval until it holds or timeout elapses.
func Eventually(t *testing.T, condition func() bool, timeout, interval time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if condition() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("condition not met within %v", timeout)
		}
		time.Sleep(interval)
	}
}

// AssertEventually is Eventually with the default test timeout.
func AssertEventually(t *testing.T, condition func() bool) {
	t.Helper()
	Eventually(t, condition, TestTimeout, 5*time.Millisecond)
}

// Recorder captures the events of one subscription. Its methods have the
// shapes of observer callbacks so they can be plugged in directly.
type Recorder[T any] struct {
	mu        sync.Mutex
	items     []T
	err       error
	errors    int
	completes int
	done      chan struct{}
	doneOnce  sync.Once
}

// NewRecorder creates an empty Recorder.
func NewRecorder[T any]() *Recorder[T] {
	return &Recorder[T]{done: make(chan struct{})}
}

// Next records an item.
func (r *Recorder[T]) Next(v T) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, v)
}

// Error records a terminal error.
func (r *Recorder[T]) Error(err error) {
	r.mu.Lock()
	r.err = err
	r.errors++
	r.mu.Unlock()
	r.doneOnce.Do(func() { close(r.done) })
}

// Complete records completion.
func (r *Recorder[T]) Complete() {
	r.mu.Lock()
	r.completes++
	r.mu.Unlock()
	r.doneOnce.Do(func() { close(r.done) })
}

// Items returns a copy of the recorded items.
func (r *Recorder[T]) Items() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of recorded items.
func (r *Recorder[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Err returns the recorded terminal error, if any.
func (r *Recorder[T]) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Completions returns how many times Complete was called.
func (r *Recorder[T]) Completions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.completes
}

// Errors returns how many times Error was called.
func (r *Recorder[T]) Errors() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errors
}

// Terminated reports whether Error or Complete has been called.
func (r *Recorder[T]) Terminated() bool {
	select {
	case <-r.done:
		return true
	default:
		return false
	}
}

// Wait blocks until a terminal event is recorded, failing the test after TestTimeout.
func (r *Recorder[T]) Wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(TestTimeout):
		t.Fatalf("no terminal event within %v (items so far: %v)", TestTimeout, r.Items())
	}
}

// AssertCompleted fails unless exactly one completion and no error were recorded.
func (r *Recorder[T]) AssertCompleted(t *testing.T) {
	t.Helper()
	if got := r.Completions(); got != 1 {
		t.Fatalf("completions = %d, want 1", got)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertItems fails with a diff unless the recorded items equal want.
func (r *Recorder[T]) AssertItems(t *testing.T, want ...T) {
	t.Helper()
	got := r.Items()
	if len(want) == 0 && len(got) == 0 {
		return
	}
	AssertDeepEqual(t, got, want)
}
