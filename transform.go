package chainz

import "iter"

// Type-changing transformations. Go methods cannot introduce type
// parameters, so stages whose output type differs from their input type are
// package-level functions. Each returns a new chain that shares the input
// chain's error handler and debug state; the input chain should not be used
// afterwards.

// Map transforms each element of c through f into a chain of a different
// element type. Failures from f go through the error protocol like every
// item-wise stage.
func Map[In, Out any](c *Chain[In], f func(In) (Out, error)) *Chain[Out] {
	return &Chain[Out]{
		st: c.st,
		seq: wrapStep(c.seq, c.st, c.st.instrument("map"), func(x In) (Out, bool, error) {
			out, err := f(x)
			return out, false, err
		}),
	}
}

// Mapcat replaces each element of c with the elements produced by gen,
// preserving order within and across elements. An error pair produced while
// draining one element's subsequence is routed through the error protocol
// and abandons the remainder of that subsequence only.
func Mapcat[In, Out any](c *Chain[In], gen func(In) iter.Seq2[Out, error]) *Chain[Out] {
	return &Chain[Out]{
		st:  c.st,
		seq: wrapExpand(c.seq, c.st, c.st.instrument("mapcat"), gen),
	}
}

// FlattenSlices converts a chain of slices into a chain of their elements,
// emitting the elements of each slice in order. Unlike the Flatten method it
// is statically typed and cannot fail.
func FlattenSlices[T any](c *Chain[[]T]) *Chain[T] {
	return Mapcat(c, func(xs []T) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			for _, x := range xs {
				if !yield(x, nil) {
					return
				}
			}
		}
	})
}

// Chunk groups consecutive elements into slices of at most size elements;
// the final chunk may be smaller. Each chunk has its own backing slice, so
// retaining one is always safe. Chunk panics if size is not positive.
func Chunk[T any](c *Chain[T], size int) *Chain[[]T] {
	if size <= 0 {
		panic("chainz: Chunk size must be positive")
	}
	upstream := c.seq
	st := c.st
	count := st.instrument("chunk")
	return &Chain[[]T]{
		st: st,
		seq: func(yield func([]T, error) bool) {
			batch := make([]T, 0, size)
			flush := func() bool {
				if count != nil {
					count()
				}
				out := batch
				batch = make([]T, 0, size)
				return yield(out, nil)
			}
			for x, err := range upstream {
				if err != nil {
					if h := st.handler; h != nil {
						h(err, nil)
						continue
					}
					yield(nil, err)
					return
				}
				batch = append(batch, x)
				if len(batch) == size && !flush() {
					return
				}
			}
			if len(batch) > 0 {
				flush()
			}
		},
	}
}

// Fold reduces the chain left-to-right into an accumulator seeded by seed.
// An empty chain returns seed unchanged. Failures from f go through the
// error protocol: with a handler installed the element is skipped and the
// accumulator is left as it was, without one Fold returns the failure.
//
// Fold is a terminal; it entirely consumes the chain.
func Fold[T, A any](c *Chain[T], seed A, f func(acc A, x T) (A, error)) (A, error) {
	defer c.Stop()
	acc := seed
	for x, err := range c.All() {
		if err != nil {
			var zero A
			return zero, err
		}
		next, ferr := f(acc, x)
		if ferr != nil {
			if h := c.st.handler; h != nil {
				h(ferr, x)
				continue
			}
			var zero A
			return zero, ferr
		}
		acc = next
	}
	return acc, nil
}
