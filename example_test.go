package chainz_test

import (
	"fmt"
	"strconv"

	"github.com/jagill/chainz"
)

// =============================================================================
// Example: Basic Chain
// =============================================================================

func ExampleChain_reduce() {
	total, err := chainz.FromSlice([]int{1, 2, 3, 4}).
		Filter(func(x int) bool { return x%2 == 0 }).
		Map(func(x int) (int, error) { return x * 10, nil }).
		Reduce(func(acc, x int) (int, error) { return acc + x, nil })
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println("total:", total)

	// Output:
	// total: 60
}

// =============================================================================
// Example: Error Handling
// =============================================================================

func ExampleChain_OnError() {
	err := chainz.FromSlice([]string{"1", "oops", "3"}).
		OnError(func(err error, item any) {
			fmt.Printf("skipping %v\n", item)
		}).
		Map(func(s string) (string, error) {
			if _, err := strconv.Atoi(s); err != nil {
				return "", err
			}
			return s, nil
		}).
		ForEach(func(s string) error {
			fmt.Println("ok:", s)
			return nil
		})
	if err != nil {
		fmt.Println("error:", err)
	}

	// Output:
	// ok: 1
	// skipping oops
	// ok: 3
}

// =============================================================================
// Example: Key Operations
// =============================================================================

func ExampleChain_keyOperations() {
	rows := []chainz.Record{
		{"uid": 1, "name": "Alice", "internal": true},
		{"uid": 2, "name": "Bob", "internal": false},
	}

	err := chainz.FromRecords(rows).
		RenameKey("uid", "id", true).
		KeepKeys("id", "name").
		ForEach(func(rec chainz.Record) error {
			fmt.Printf("%v %v\n", rec["id"], rec["name"])
			return nil
		})
	if err != nil {
		fmt.Println("error:", err)
	}

	// Output:
	// 1 Alice
	// 2 Bob
}

// =============================================================================
// Example: Streaming Join
// =============================================================================

func ExampleChain_JoinOnKey() {
	users := chainz.FromRecords([]chainz.Record{
		{"id": 1, "name": "Alice"},
		{"id": 2, "name": "Bob"},
	})
	scores := chainz.FromRecords([]chainz.Record{
		{"id": 1, "score": 95},
		{"id": 2, "score": 80},
	})

	err := users.JoinOnKey("id", scores).
		ForEach(func(rec chainz.Record) error {
			fmt.Printf("%v: %v\n", rec["name"], rec["score"])
			return nil
		})
	if err != nil {
		fmt.Println("error:", err)
	}

	// Output:
	// Alice: 95
	// Bob: 80
}

// =============================================================================
// Example: Type-Changing Transforms
// =============================================================================

func ExampleMap() {
	words := chainz.Map(chainz.FromSlice([]int{1, 2, 3}),
		func(x int) (string, error) { return strconv.Itoa(x), nil })

	for w, err := range words.All() {
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println(w)
	}

	// Output:
	// 1
	// 2
	// 3
}
