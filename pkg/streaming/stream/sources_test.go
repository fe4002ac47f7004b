package stream

import (
	"context"
	"errors"
	"testing"

	"github.com/vnykmshr/reactflow/internal/testutil"
	rferrors "github.com/vnykmshr/reactflow/pkg/common/errors"
)

func TestFromSlice(t *testing.T) {
	tests := []struct {
		name  string
		input []int
	}{
		{"empty", nil},
		{"single", []int{42}},
		{"many", []int{5, 4, 3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder[int]()
			subscribe(FromSlice(tt.input), rec)

			rec.AssertItems(t, tt.input...)
			rec.AssertCompleted(t)
			testutil.AssertEqual(t, rec.Errors(), 0)
		})
	}
}

func TestFromSliceStopsWhenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var seen []int
	FromSlice([]int{1, 2, 3, 4}).Subscribe(ctx, Observer[int]{
		Next: func(v int) {
			seen = append(seen, v)
			if v == 2 {
				cancel()
			}
		},
	})

	testutil.AssertDeepEqual(t, seen, []int{1, 2})
}

func TestEmptyNeverFail(t *testing.T) {
	rec := testutil.NewRecorder[int]()
	subscribe(Empty[int](), rec)
	rec.AssertItems(t)
	rec.AssertCompleted(t)

	never := testutil.NewRecorder[int]()
	sub := subscribe(Never[int](), never)
	testutil.AssertEqual(t, never.Terminated(), false)
	sub.Unsubscribe()

	boom := errors.New("boom")
	failed := testutil.NewRecorder[int]()
	subscribe(Fail[int](boom), failed)
	if !errors.Is(failed.Err(), boom) {
		t.Fatalf("err = %v, want %v", failed.Err(), boom)
	}
}

func TestFromFuture(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		rec := testutil.NewRecorder[string]()
		subscribe(FromFuture[string](Resolved("ok")), rec)
		rec.Wait(t)
		rec.AssertItems(t, "ok")
		rec.AssertCompleted(t)
	})

	t.Run("rejected", func(t *testing.T) {
		boom := errors.New("boom")
		rec := testutil.NewRecorder[string]()
		subscribe(FromFuture[string](Rejected[string](boom)), rec)
		rec.Wait(t)
		rec.AssertItems(t)
		if !errors.Is(rec.Err(), boom) {
			t.Fatalf("err = %v, want %v", rec.Err(), boom)
		}
	})

	t.Run("settles later", func(t *testing.T) {
		f, resolve, _ := NewPromise[int]()
		rec := testutil.NewRecorder[int]()
		subscribe(FromFuture[int](f), rec)
		testutil.AssertEqual(t, rec.Len(), 0)

		resolve(9)
		rec.Wait(t)
		rec.AssertItems(t, 9)
	})

	t.Run("cancelled before settlement", func(t *testing.T) {
		f, _, _ := NewPromise[int]()
		rec := testutil.NewRecorder[int]()
		sub := subscribe(FromFuture[int](f), rec)
		sub.Unsubscribe()
		<-sub.Done()
		testutil.AssertEqual(t, rec.Terminated(), false)
	})
}

func TestAsync(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	f := Async(ctx, func(context.Context) (int, error) { return 3, nil })
	v, err := f.Await(ctx)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v, 3)

	pending, _, _ := NewPromise[int]()
	short, stop := context.WithCancel(ctx)
	stop()
	_, err = pending.Await(short)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestPromiseSettlesOnce(t *testing.T) {
	f, resolve, reject := NewPromise[int]()
	resolve(1)
	resolve(2)
	reject(errors.New("late"))

	v, err := f.Await(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, v, 1)
}

func TestFromStreamDelegates(t *testing.T) {
	subj := NewSubject[int]()
	wrapped := FromStream[int](subj)
	if _, ok := wrapped.(*Subject[int]); ok {
		t.Fatal("FromStream should not expose the subject")
	}

	rec := testutil.NewRecorder[int]()
	sub := subscribe(wrapped, rec)
	subj.Next(1)
	subj.Next(2)
	sub.Unsubscribe()
	subj.Next(3)

	rec.AssertItems(t, 1, 2)
	testutil.AssertEqual(t, subj.ObserverCount(), 0)
}

func TestFromEmitter(t *testing.T) {
	em := testutil.NewMockEmitter[string]()
	rec := testutil.NewRecorder[string]()
	sub := subscribe(FromEmitter[string](em, "message"), rec)

	testutil.AssertEqual(t, em.ListenerCount("message"), 1)
	em.Emit("message", "hello")
	em.Emit("other", "ignored")
	em.Emit("message", "world")
	sub.Unsubscribe()
	em.Emit("message", "late")

	rec.AssertItems(t, "hello", "world")
	testutil.AssertEqual(t, rec.Terminated(), false)
	testutil.AssertEqual(t, em.ListenerCount("message"), 0)
	testutil.AssertEqual(t, em.Removed(), 1)
}

func TestFromEmitterValidation(t *testing.T) {
	assertPanicsWithValidation(t, func() { FromEmitter[int](nil, "x") })
	assertPanicsWithValidation(t, func() { FromEmitter[int](testutil.NewMockEmitter[int](), "") })
}

func TestFromHolder(t *testing.T) {
	h := testutil.NewMockHolder("initial")
	rec := testutil.NewRecorder[string]()
	sub := subscribe(FromHolder[string](h), rec)

	h.Set("changed")
	sub.Unsubscribe()
	h.Set("ignored")

	rec.AssertItems(t, "initial", "changed")
	testutil.AssertEqual(t, rec.Terminated(), false)
	testutil.AssertEqual(t, h.ListenerCount(), 0)
}

func TestFromChannel(t *testing.T) {
	ch := make(chan string, 3)
	ch <- "hello"
	ch <- "world"
	ch <- "test"
	close(ch)

	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()
	result, err := ToSlice(ctx, FromChannel(ch))
	testutil.AssertNoError(t, err)
	testutil.AssertDeepEqual(t, result, []string{"hello", "world", "test"})
}

func TestFromChannelReleasesOnCancel(t *testing.T) {
	ch := make(chan int)
	rec := testutil.NewRecorder[int]()
	sub := subscribe(FromChannel(ch), rec)

	ch <- 1
	testutil.AssertEventually(t, func() bool { return rec.Len() == 1 })
	sub.Unsubscribe()
	<-sub.Done()
}

func TestFrom(t *testing.T) {
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	collect := func(t *testing.T, src any, args ...any) []int {
		t.Helper()
		s, err := From[int](src, args...)
		testutil.AssertNoError(t, err)
		items, err := ToSlice(ctx, Take(s, 2))
		testutil.AssertNoError(t, err)
		return items
	}

	t.Run("slice", func(t *testing.T) {
		testutil.AssertDeepEqual(t, collect(t, []int{1, 2}), []int{1, 2})
	})

	t.Run("future", func(t *testing.T) {
		testutil.AssertDeepEqual(t, collect(t, Resolved(4)), []int{4})
	})

	t.Run("stream", func(t *testing.T) {
		testutil.AssertDeepEqual(t, collect(t, Of(5, 6, 7)), []int{5, 6})
	})

	t.Run("producer", func(t *testing.T) {
		fn := func(sink Sink[int]) func() {
			sink.Next(8)
			sink.Complete()
			return nil
		}
		testutil.AssertDeepEqual(t, collect(t, fn), []int{8})
		testutil.AssertDeepEqual(t, collect(t, Producer[int](fn)), []int{8})
	})

	t.Run("holder", func(t *testing.T) {
		h := testutil.NewMockHolder(1)
		s, err := From[int](h)
		testutil.AssertNoError(t, err)
		rec := testutil.NewRecorder[int]()
		sub := subscribe(s, rec)
		h.Set(2)
		sub.Unsubscribe()
		rec.AssertItems(t, 1, 2)
	})

	t.Run("emitter", func(t *testing.T) {
		em := testutil.NewMockEmitter[int]()
		s, err := From[int](em, "tick")
		testutil.AssertNoError(t, err)
		rec := testutil.NewRecorder[int]()
		sub := subscribe(s, rec)
		em.Emit("tick", 3)
		sub.Unsubscribe()
		rec.AssertItems(t, 3)
	})

	t.Run("emitter without event", func(t *testing.T) {
		_, err := From[int](testutil.NewMockEmitter[int]())
		if !rferrors.IsValidationError(err) {
			t.Fatalf("err = %v, want ValidationError", err)
		}
	})

	t.Run("channel", func(t *testing.T) {
		ch := make(chan int, 1)
		ch <- 11
		close(ch)
		testutil.AssertDeepEqual(t, collect(t, ch), []int{11})
	})

	t.Run("nil yields subject", func(t *testing.T) {
		s, err := From[int](nil)
		testutil.AssertNoError(t, err)
		subj, ok := s.(*Subject[int])
		if !ok {
			t.Fatalf("From(nil) = %T, want *Subject[int]", s)
		}
		rec := testutil.NewRecorder[int]()
		subscribe[int](subj, rec)
		subj.Next(1)
		subj.Complete()
		rec.AssertItems(t, 1)
		rec.AssertCompleted(t)
	})

	t.Run("unsupported", func(t *testing.T) {
		_, err := From[int](struct{ X int }{1})
		if !rferrors.IsUnsupportedSource(err) {
			t.Fatalf("err = %v, want unsupported source", err)
		}
		var kindErr *rferrors.SourceKindError
		if !errors.As(err, &kindErr) {
			t.Fatalf("err = %T, want *SourceKindError", err)
		}
		testutil.AssertEqual(t, kindErr.Description, "struct { X int } struct { X int }{X:1}")
	})

	t.Run("wrong element type", func(t *testing.T) {
		_, err := From[int]([]string{"a"})
		if !rferrors.IsUnsupportedSource(err) {
			t.Fatalf("err = %v, want unsupported source", err)
		}
	})
}
