// Package chainz provides a lazy, chaining wrapper around sequences.
//
// A Chain wraps an iter.Seq2[T, error] and offers methods such as Map or
// Filter that act lazily on it. Each stage method installs one more
// transformation layer and returns the chain itself, so pipelines read
// top-to-bottom as a single chained expression. Nothing executes until a
// terminal method (Sink, Reduce, Count, ForEach) or external iteration
// drives the sequence; at that point all installed stages run element by
// element, in installation order.
//
// # Quick Start
//
//	total, err := chainz.FromSlice([]int{1, 2, 3, 4}).
//	    Filter(func(x int) bool { return x%2 == 0 }).
//	    Map(func(x int) (int, error) { return x * 10, nil }).
//	    Reduce(func(acc, x int) (int, error) { return acc + x, nil })
//	// total == 60
//
// Type-changing stages are package-level functions, since Go methods cannot
// introduce type parameters:
//
//	lines := chainz.New(utils.ReadFile("events.log"))
//	events := chainz.Map(lines, ParseEvent)
//	batches := chainz.Chunk(events, 20)
//
// # Records
//
// The key operations (MapKey, SetKey, DropKey, RenameKey, KeepKeys) and
// JoinOnKey work on chains of Record, an ordinary map[string]any:
//
//	out := chainz.FromRecords(rows).
//	    RenameKey("uid", "id", true).
//	    DropKey("internal").
//	    KeepKeys("id", "name", "score")
//
// # Error Handling
//
// Every item-wise and expansion stage wraps its per-element call in a
// uniform failure boundary. Without a handler, the first failure terminates
// iteration and is returned by the consuming terminal with the original
// error intact. With a handler installed via OnError, the handler is invoked
// with the failure and the offending element, the element contributes no
// output, and iteration continues with the next element:
//
//	err := chainz.FromSlice(rows).
//	    Map(parse).
//	    OnError(func(err error, item any) {
//	        slog.Warn("skipping malformed row", "error", err, "row", item)
//	    }).
//	    Sink()
//
// The handler consulted is the one in effect when an element is driven
// through a stage, not the one in effect when the stage was installed, so
// OnError may be called anywhere in the chained expression.
//
// # Joining
//
// JoinOnKey merges two chains of records on a shared key, yielding each
// merged record the moment both sides have produced its key. Neither side is
// materialized; only as-yet-unmatched records are buffered.
//
//	users := chainz.New(utils.ReadJSONLFile("users.jsonl"))
//	scores := chainz.New(utils.ReadJSONLFile("scores.jsonl"))
//	joined := users.JoinOnKey("id", scores)
//
// # Laziness and Single-Pass Consumption
//
// Chains are single-pass: a terminal, Next, and external iteration via All
// share one traversal, and an exhausted chain yields nothing. Copy splits a
// chain into two independently advancing chains over the one shared source,
// buffering only the gap between them. Evaluation is single-threaded and
// pull-based; there is no background execution, and a chain instance must
// not be driven from multiple goroutines.
//
// The utils subpackage provides sequence sources (files, JSONL, CSV, YAML,
// directory walks) and writer transforms that re-yield what they write, for
// use with the Transform escape hatch.
package chainz
