package utils

import (
	"iter"

	"golang.org/x/sync/errgroup"
)

// CallRepeatedly makes an infinite sequence that calls f for every pull,
// yielding the result. Bound it with Slice, or stop pulling.
func CallRepeatedly[T any](f func() (T, error)) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			if !yield(f()) {
				return
			}
		}
	}
}

// Counter is a pass-through transform that counts the live elements flowing
// by and reports the count to callback when the sequence is exhausted. If
// the consumer stops early the callback is never invoked, matching the
// sequence never having ended.
//
//	chainz.FromSlice(rows).
//	    Transform(utils.Counter[Row](func(n int64) { slog.Info("rows in", "count", n) })).
//	    Filter(keep).
//	    Transform(utils.Counter[Row](func(n int64) { slog.Info("rows kept", "count", n) })).
//	    Sink()
func Counter[T any](callback func(count int64)) Transform[T] {
	return func(in iter.Seq2[T, error]) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			var n int64
			for x, err := range in {
				if err == nil {
					n++
				}
				if !yield(x, err) {
					return
				}
			}
			callback(n)
		}
	}
}

// Merge combines multiple sequences into one that yields all their elements.
// Each input is drained on its own goroutine, so elements from different
// inputs interleave in arrival order; error pairs are forwarded like
// elements. Merge produces a source for a chain; the chain consuming it
// remains single-threaded.
func Merge[T any](seqs ...iter.Seq2[T, error]) iter.Seq2[T, error] {
	if len(seqs) == 1 {
		return seqs[0]
	}
	return func(yield func(T, error) bool) {
		if len(seqs) == 0 {
			return
		}

		type item struct {
			val T
			err error
		}
		merged := make(chan item)
		done := make(chan struct{})

		var g errgroup.Group
		for _, seq := range seqs {
			g.Go(func() error {
				for x, err := range seq {
					select {
					case merged <- item{val: x, err: err}:
					case <-done:
						return nil
					}
				}
				return nil
			})
		}
		go func() {
			g.Wait() //nolint:errcheck // producers only return nil
			close(merged)
		}()

		for it := range merged {
			if !yield(it.val, it.err) {
				// Stop producers, then drain what they already sent.
				close(done)
				go func() {
					for range merged {
					}
				}()
				return
			}
		}
	}
}
