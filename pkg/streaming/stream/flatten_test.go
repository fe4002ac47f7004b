package stream

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/vnykmshr/reactflow/internal/testutil"
)

func TestFlatten(t *testing.T) {
	outer := Of[any](1, Of("a", "b"), 2, Of(3.5))
	got := collect(t, Flatten(outer))
	testutil.AssertDeepEqual(t, got, []any{1, "a", "b", 2, 3.5})
}

func TestFlattenWaitsForInnerStreams(t *testing.T) {
	outer := NewSubject[any]()
	inner := NewSubject[int]()
	rec := testutil.NewRecorder[any]()
	subscribe(Flatten(outer), rec)

	outer.Next(inner)
	outer.Next("x")
	outer.Complete()
	testutil.AssertEqual(t, rec.Terminated(), false)

	inner.Next(1)
	inner.Complete()

	rec.AssertItems(t, "x", 1)
	rec.AssertCompleted(t)
}

func TestFlattenInnerError(t *testing.T) {
	boom := errors.New("boom")
	rec := testutil.NewRecorder[any]()
	subscribe(Flatten(Of[any](Fail[int](boom), 1)), rec)

	if !errors.Is(rec.Err(), boom) {
		t.Fatalf("err = %v, want %v", rec.Err(), boom)
	}
	rec.AssertItems(t)
}

func TestFlattenObservableItems(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs := NewObservable(ctx, "seed", Never[string]())
	rec := testutil.NewRecorder[any]()
	sub := subscribe(Flatten(Of[any](obs)), rec)
	defer sub.Unsubscribe()

	rec.AssertItems(t, "seed")
}

func TestJoin(t *testing.T) {
	got := collect(t, Join(Of(Of(1, 2), Empty[int](), Of(3))))
	testutil.AssertDeepEqual(t, got, []int{1, 2, 3})
}

func TestResolve(t *testing.T) {
	f, resolve, _ := NewPromise[int]()
	rec := testutil.NewRecorder[any]()
	subscribe(Resolve(Of[any](5, f)), rec)

	rec.AssertItems(t, 5)
	testutil.AssertEqual(t, rec.Terminated(), false)

	resolve(7)
	rec.Wait(t)
	rec.AssertItems(t, 5, 7)
	rec.AssertCompleted(t)
}

func TestResolveConcurrent(t *testing.T) {
	futures := make([]any, 0, 10)
	for i := 0; i < 10; i++ {
		futures = append(futures, Async(context.Background(), func(context.Context) (int, error) {
			return i, nil
		}))
	}

	got := collect(t, Resolve(FromSlice(futures)))
	ints := make([]int, len(got))
	for i, v := range got {
		ints[i] = v.(int)
	}
	sort.Ints(ints)
	testutil.AssertDeepEqual(t, ints, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
}

func TestResolveRejection(t *testing.T) {
	boom := errors.New("boom")
	rec := testutil.NewRecorder[any]()
	subscribe(Resolve(Of[any](Rejected[int](boom))), rec)
	rec.Wait(t)

	if !errors.Is(rec.Err(), boom) {
		t.Fatalf("err = %v, want %v", rec.Err(), boom)
	}
	testutil.AssertEqual(t, rec.Completions(), 0)
}

func TestResolveCancelReleasesWaiters(t *testing.T) {
	pending, _, _ := NewPromise[int]()
	rec := testutil.NewRecorder[any]()
	sub := subscribe(Resolve(Of[any](pending)), rec)

	sub.Unsubscribe()
	<-sub.Done()
	testutil.AssertEqual(t, rec.Terminated(), false)
}

func TestResolveFutures(t *testing.T) {
	s := Of[Deferred[string]](Resolved("a"), Resolved("b"))
	got := collect(t, ResolveFutures(s))
	sort.Strings(got)
	testutil.AssertDeepEqual(t, got, []string{"a", "b"})
}
