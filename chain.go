package chainz

import (
	"fmt"
	"iter"
)

// ErrorFunc is invoked when a stage function fails and a handler is
// installed. It receives the failure and the item that caused it. Its return
// is deliberately absent: handlers report or record, they never resume the
// failed item. After the handler returns, iteration continues with the next
// item and the failed item contributes no output.
//
// Handlers run synchronously on the goroutine driving the chain and must not
// re-enter the same chain's iteration.
type ErrorFunc func(err error, item any)

// chainState carries everything a stage consults at drive time rather than
// install time. Chains derived by the type-changing package functions share
// the state of the chain they were built from, so OnError on any handle in
// the lineage affects every stage, including stages installed before the
// handler was set.
type chainState struct {
	handler ErrorFunc
	debug   bool
	stats   *Stats
	stages  int
}

// instrument assigns the next stage index and, in debug mode, returns a
// counter bumped once per item the stage emits.
func (st *chainState) instrument(name string) func() {
	idx := st.stages
	st.stages++
	if !st.debug {
		return nil
	}
	return st.stats.register(fmt.Sprintf("%d:%s", idx, name))
}

// Chain is a lightweight, chaining wrapper around a sequence.
//
// It provides methods such as Map or Filter that act lazily on the sequence.
// Each of these methods installs one more transformation layer and returns
// the chain itself so that calls can be chained (hence the name).
//
// It also includes terminal methods, which consume the sequence: Sink drains
// it, Reduce folds it, ForEach applies a function to each element. It bears
// repeating that all stage operations are lazy. If no terminal is called and
// the chain is not otherwise iterated, nothing happens and the underlying
// sequence is not consumed.
//
// The element stream is an iter.Seq2[T, error]. A nil error accompanies a
// live item; a non-nil error is a stream failure and is subject to the error
// protocol (see OnError). Chains are single-pass and single-threaded: one
// consumer, one traversal, no concurrent pulls.
type Chain[T any] struct {
	seq iter.Seq2[T, error]
	st  *chainState

	// Pull state, established on first consumption. External iteration,
	// Next, and the terminals all share this one pass.
	next func() (T, error, bool)
	stop func()
}

// New creates a chain over a fallible sequence. Error pairs produced by the
// source go through the error protocol like stage failures, with a nil
// offending item.
func New[T any](seq iter.Seq2[T, error]) *Chain[T] {
	return &Chain[T]{seq: seq, st: &chainState{}}
}

// From creates a chain over an infallible sequence.
func From[T any](seq iter.Seq[T]) *Chain[T] {
	return New(func(yield func(T, error) bool) {
		for x := range seq {
			if !yield(x, nil) {
				return
			}
		}
	})
}

// FromSlice creates a chain over the elements of a slice.
func FromSlice[T any](items []T) *Chain[T] {
	return New(func(yield func(T, error) bool) {
		for _, x := range items {
			if !yield(x, nil) {
				return
			}
		}
	})
}

// FromRecords creates a chain of records, the element type required by the
// key operations and JoinOnKey.
func FromRecords(recs []Record) *Chain[Record] {
	return FromSlice(recs)
}

// OnError sets the error handler for the chain.
//
// If a stage function fails, the handler is invoked with the failure and the
// offending item instead of iteration terminating. After the handler
// returns, iteration continues with the next item.
//
// If no handler is set, a failure halts iteration: external iteration sees a
// single error pair and ends, terminals return the error. Successive calls
// replace (not append to) the previous handler. The handler in effect is the
// one installed when an item is actually driven through a stage, not the one
// installed when the stage was; setting a handler after building the whole
// chain covers every stage.
func (c *Chain[T]) OnError(h ErrorFunc) *Chain[T] {
	c.st.handler = h
	return c
}

// WithDebug enables per-stage counting. Stages installed after this call
// record how many items they emit, keyed "<index>:<name>"; see Counts.
func (c *Chain[T]) WithDebug() *Chain[T] {
	c.st.debug = true
	if c.st.stats == nil {
		c.st.stats = newStats()
	}
	return c
}

// Counts returns the per-stage emission counters recorded in debug mode, or
// nil if WithDebug was never called.
func (c *Chain[T]) Counts() *Stats {
	return c.st.stats
}

// step is the unit of item-wise transformation: at most one output per
// input. skip elides the output without error; err routes through the error
// protocol.
type step[In, Out any] func(in In) (out Out, skip bool, err error)

// wrapStep layers an item-wise stage over upstream. This is the single
// failure boundary shared by every item-wise operation: upstream error pairs
// and step failures are either handed to the current handler (item dropped,
// iteration continues) or emitted once, terminating the sequence.
func wrapStep[In, Out any](upstream iter.Seq2[In, error], st *chainState, count func(), fn step[In, Out]) iter.Seq2[Out, error] {
	return func(yield func(Out, error) bool) {
		for x, err := range upstream {
			if err != nil {
				if h := st.handler; h != nil {
					h(err, nil)
					continue
				}
				var zero Out
				yield(zero, err)
				return
			}
			out, skip, err := fn(x)
			if err != nil {
				if h := st.handler; h != nil {
					h(err, x)
					continue
				}
				var zero Out
				yield(zero, err)
				return
			}
			if skip {
				continue
			}
			if count != nil {
				count()
			}
			if !yield(out, nil) {
				return
			}
		}
	}
}

// wrapExpand layers an expansion stage (zero or more outputs per input) over
// upstream. A failure while draining one item's subsequence abandons the
// remainder of that subsequence only; later items are unaffected.
func wrapExpand[In, Out any](upstream iter.Seq2[In, error], st *chainState, count func(), gen func(In) iter.Seq2[Out, error]) iter.Seq2[Out, error] {
	return func(yield func(Out, error) bool) {
		for x, err := range upstream {
			if err != nil {
				if h := st.handler; h != nil {
					h(err, nil)
					continue
				}
				var zero Out
				yield(zero, err)
				return
			}
			fatal := false
			for out, gerr := range gen(x) {
				if gerr != nil {
					if h := st.handler; h != nil {
						h(gerr, x)
						break
					}
					var zero Out
					yield(zero, gerr)
					fatal = true
					break
				}
				if count != nil {
					count()
				}
				if !yield(out, nil) {
					return
				}
			}
			if fatal {
				return
			}
		}
	}
}

// install replaces the chain's sequence with a wrapped one. Every
// type-preserving stage method funnels through here.
func (c *Chain[T]) install(name string, fn step[T, T]) *Chain[T] {
	c.seq = wrapStep(c.seq, c.st, c.st.instrument(name), fn)
	return c
}

func (c *Chain[T]) installExpand(name string, gen func(T) iter.Seq2[T, error]) *Chain[T] {
	c.seq = wrapExpand(c.seq, c.st, c.st.instrument(name), gen)
	return c
}

// Map transforms each element through f. A failure from f goes through the
// error protocol; the failed element is not emitted.
func (c *Chain[T]) Map(f func(T) (T, error)) *Chain[T] {
	return c.install("map", func(x T) (T, bool, error) {
		out, err := f(x)
		return out, false, err
	})
}

// Filter keeps only elements for which pred returns true. Elements failing
// the predicate are elided, never treated as errors.
func (c *Chain[T]) Filter(pred func(T) bool) *Chain[T] {
	return c.install("filter", func(x T) (T, bool, error) {
		return x, !pred(x), nil
	})
}

// Omit keeps only elements for which pred returns false. It is the dual of
// Filter: Omit(p) and Filter(not p) yield the same elements.
func (c *Chain[T]) Omit(pred func(T) bool) *Chain[T] {
	return c.install("omit", func(x T) (T, bool, error) {
		return x, pred(x), nil
	})
}

// Do invokes f on each element for its side effect and re-emits the original
// element unchanged. Unlike ForEach this is not a terminal; it installs a
// lazy stage. Note that f may mutate the element in place.
func (c *Chain[T]) Do(f func(T) error) *Chain[T] {
	return c.install("do", func(x T) (T, bool, error) {
		return x, false, f(x)
	})
}

// Slice restricts the chain to a positional sub-range. Arguments follow
// slice conventions:
//
//	Slice(stop)              first stop elements
//	Slice(start, stop)       elements in [start, stop)
//	Slice(start, stop, step) every step-th element in [start, stop)
//
// All arguments must be non-negative and step must be at least 1; Slice
// panics otherwise, since a malformed range is a programming error, not a
// data error. Pulling from upstream ceases once stop is reached.
func (c *Chain[T]) Slice(args ...int) *Chain[T] {
	start, stop, stride := sliceBounds(args)
	upstream := c.seq
	st := c.st
	count := st.instrument("slice")
	c.seq = func(yield func(T, error) bool) {
		if stop <= start {
			return
		}
		idx := 0
		for x, err := range upstream {
			if err != nil {
				if h := st.handler; h != nil {
					h(err, nil)
					continue
				}
				var zero T
				yield(zero, err)
				return
			}
			if idx >= start && (idx-start)%stride == 0 {
				if count != nil {
					count()
				}
				if !yield(x, nil) {
					return
				}
			}
			idx++
			if idx >= stop {
				return
			}
		}
	}
	return c
}

func sliceBounds(args []int) (start, stop, stride int) {
	switch len(args) {
	case 1:
		start, stop, stride = 0, args[0], 1
	case 2:
		start, stop, stride = args[0], args[1], 1
	case 3:
		start, stop, stride = args[0], args[1], args[2]
	default:
		panic("chainz: Slice requires 1 to 3 arguments")
	}
	if start < 0 || stop < 0 {
		panic("chainz: Slice bounds must be non-negative")
	}
	if stride < 1 {
		panic("chainz: Slice step must be at least 1")
	}
	return start, stop, stride
}

// Mapcat replaces each element with the elements produced by gen, preserving
// order within and across elements. An error pair produced while draining
// one element's subsequence is routed through the error protocol and
// abandons the remainder of that subsequence; subsequent elements are
// unaffected.
func (c *Chain[T]) Mapcat(gen func(T) iter.Seq2[T, error]) *Chain[T] {
	return c.installExpand("mapcat", gen)
}

// Transform passes the entire current sequence through trans. This is a
// lower-level escape hatch: trans does not receive individual elements, it
// receives the sequence itself and must return a new one. It is the hook for
// stages that hold a resource across the whole traversal, such as the writer
// transforms in the utils package.
//
// Upstream error pairs flow into trans unrouted; trans decides whether to
// inspect, forward, or swallow them. Error pairs trans emits are subject to
// the error protocol when they reach the consumer.
func (c *Chain[T]) Transform(trans func(iter.Seq2[T, error]) iter.Seq2[T, error]) *Chain[T] {
	c.seq = trans(c.seq)
	return c
}

// All returns the chain's elements for external iteration. The returned
// sequence shares the chain's single pass with Next and the terminals;
// ranging over it twice resumes where the first range stopped, and after
// exhaustion it yields nothing.
func (c *Chain[T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			x, err, ok := c.pull()
			if !ok {
				return
			}
			if !yield(x, err) {
				return
			}
		}
	}
}

// Next pulls the next element. ok is false once the chain is exhausted. An
// unrecovered failure surfaces as a non-nil err; the chain is exhausted
// afterwards.
func (c *Chain[T]) Next() (x T, err error, ok bool) {
	return c.pull()
}

// Stop releases the chain's underlying source without draining it. It is
// safe to call whether or not consumption started.
func (c *Chain[T]) Stop() {
	if c.stop != nil {
		c.stop()
	}
}

// pull advances the shared pass one element. Error pairs that reach the
// consumer unrouted (from a stage-less chain or a Transform stage) still get
// the error protocol here.
func (c *Chain[T]) pull() (T, error, bool) {
	if c.next == nil {
		c.next, c.stop = iter.Pull2(c.seq)
	}
	for {
		x, err, ok := c.next()
		if !ok || err == nil {
			return x, err, ok
		}
		if h := c.st.handler; h != nil {
			h(err, nil)
			continue
		}
		return x, err, true
	}
}
