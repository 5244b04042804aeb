package chainz

// Terminal operations. Each of these entirely consumes the chain; afterwards
// further pulls yield nothing. Any failure not recovered by an installed
// error handler aborts the terminal and is returned with the original error
// intact. No partial result is returned; a caller wanting partial results
// should drive the chain with Next and decide per step.
//
// Every terminal releases the underlying source on its way out, aborted or
// not, so resource-holding Transform stages run their cleanup even when a
// failure cuts the traversal short.

// Sink drains the chain, doing nothing with the elements.
func (c *Chain[T]) Sink() error {
	defer c.Stop()
	for _, err := range c.All() {
		if err != nil {
			return err
		}
	}
	return nil
}

// Reduce folds the chain left-to-right through f, seeding the accumulator
// with the chain's first element. An empty chain yields the zero value of T
// and no error. Failures from f go through the error protocol: with a
// handler installed the element is skipped, without one Reduce returns the
// failure.
//
// To seed the accumulator explicitly, or to fold into a different type, use
// the package-level Fold.
func (c *Chain[T]) Reduce(f func(acc, x T) (T, error)) (T, error) {
	defer c.Stop()
	var acc T
	seeded := false
	for x, err := range c.All() {
		if err != nil {
			var zero T
			return zero, err
		}
		if !seeded {
			acc = x
			seeded = true
			continue
		}
		next, ferr := f(acc, x)
		if ferr != nil {
			if h := c.st.handler; h != nil {
				h(ferr, x)
				continue
			}
			var zero T
			return zero, ferr
		}
		acc = next
	}
	return acc, nil
}

// Count drains the chain and returns the number of elements it produced.
func (c *Chain[T]) Count() (int64, error) {
	return Fold(c, int64(0), func(n int64, _ T) (int64, error) {
		return n + 1, nil
	})
}

// ForEach drains the chain, applying f to each element for its side effect.
// Failures from f go through the error protocol.
func (c *Chain[T]) ForEach(f func(x T) error) error {
	_, err := Fold(c, struct{}{}, func(acc struct{}, x T) (struct{}, error) {
		return acc, f(x)
	})
	return err
}
