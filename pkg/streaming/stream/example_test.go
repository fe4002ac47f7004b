package stream

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Example demonstrates basic stream usage.
func Example() {
	// Keep even numbers, double them, take the first 3
	s := Take(
		Map(
			Filter(FromSlice([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}), func(x int) bool { return x%2 == 0 }),
			func(x int) int { return x * 2 },
		),
		3,
	)

	result, err := ToSlice(context.Background(), s)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Printf("Result: %v\n", result)
	// Output: Result: [4 8 12]
}

// Example_dataProcessing demonstrates a data processing pipeline.
func Example_dataProcessing() {
	users := FromSlice([]string{"john.doe", "jane.smith", "bob.wilson", "alice.brown"})

	emails := Map(users, func(name string) string {
		return strings.ToLower(name) + "@company.com"
	})

	err := ForEach(context.Background(), Skip(emails, 2), func(email string) {
		fmt.Println(email)
	})
	if err != nil {
		fmt.Printf("Error: %v\n", err)
	}
	// Output:
	// bob.wilson@company.com
	// alice.brown@company.com
}

// ExampleAdjoin demonstrates combine-latest over two inputs.
func ExampleAdjoin() {
	width, height := NewSubject[int](), NewSubject[int]()
	area := Map(Adjoin([]Stream[int]{width, height}, nil), func(v []int) int { return v[0] * v[1] })

	sub := Each(context.Background(), area, func(a int) { fmt.Println("area:", a) }, nil, nil)
	defer sub.Unsubscribe()

	width.Next(2)
	height.Next(3)
	width.Next(4)
	// Output:
	// area: 6
	// area: 12
}

// ExampleSubject demonstrates pushing values to live observers.
func ExampleSubject() {
	subj := NewSubject[string]()
	Each(context.Background(), subj, func(s string) { fmt.Println("got", s) }, nil, func() { fmt.Println("done") })

	subj.Next("hello")
	subj.Next("world")
	subj.Complete()
	// Output:
	// got hello
	// got world
	// done
}

// ExampleObservable demonstrates current value tracking.
func ExampleObservable() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	temperature := NewSubject[int]()
	obs := NewObservable[int](ctx, 20, temperature)

	temperature.Next(21)
	fmt.Println("current:", obs.Value())

	sub := Each[int](ctx, obs, func(v int) { fmt.Println("seen:", v) }, nil, nil)
	defer sub.Unsubscribe()

	temperature.Next(21)
	temperature.Next(23)
	// Output:
	// current: 21
	// seen: 21
	// seen: 23
}

// ExampleResolve demonstrates waiting for deferred items.
func ExampleResolve() {
	ctx := context.Background()
	lookup := Async(ctx, func(context.Context) (any, error) {
		time.Sleep(10 * time.Millisecond)
		return "resolved", nil
	})

	items, err := ToSlice(ctx, Resolve(Of[any]("immediate", lookup)))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Println(items)
	// Output: [immediate resolved]
}

// ExampleLift demonstrates applying a function across mixed inputs.
func ExampleLift() {
	greeting := Lift(func(args ...any) string {
		return fmt.Sprintf("%s, %s!", args[0], args[1])
	}, "Hello", Of("gopher"))

	first, _, _ := First(context.Background(), greeting)
	fmt.Println(first)
	// Output: Hello, gopher!
}
