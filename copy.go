package chainz

import "iter"

// tee splits one single-pass sequence between two consumers. Whichever side
// pulls ahead appends a duplicate of each element to the other side's replay
// buffer; a lagging side drains its buffer before touching the shared
// source, so the buffer holds only the gap between the two and is released
// as the slow side catches up. Alternation must be sequential; concurrent
// pulls from the two branches are not supported.
type tee[T any] struct {
	next func() (T, error, bool)
	stop func()
	done bool

	// bufs[i] holds elements already taken from the source by the other
	// branch but not yet seen by branch i.
	bufs [2][]teeItem[T]
}

type teeItem[T any] struct {
	val T
	err error
}

func (t *tee[T]) branch(i int) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			if len(t.bufs[i]) > 0 {
				it := t.bufs[i][0]
				t.bufs[i] = t.bufs[i][1:]
				if !yield(it.val, it.err) {
					return
				}
				continue
			}
			if t.done {
				return
			}
			v, err, ok := t.next()
			if !ok {
				t.done = true
				t.stop()
				return
			}
			t.bufs[1-i] = append(t.bufs[1-i], teeItem[T]{val: v, err: err})
			if !yield(v, err) {
				return
			}
		}
	}
}

// Copy splits the chain into two independently advancing chains over the one
// shared source. This chain keeps its stages and handler; the returned chain
// starts fresh, with no stages and no error handler of its own. Consuming
// one does not affect what the other yields: elements consumed by the
// leading side are buffered for the lagging side and released once both have
// passed them.
//
// The pair supports only single-threaded, one-at-a-time alternation, as fits
// the chain's single-consumer model.
func (c *Chain[T]) Copy() *Chain[T] {
	next, stop := iter.Pull2(c.seq)
	t := &tee[T]{next: next, stop: stop}
	c.seq = t.branch(0)
	return &Chain[T]{seq: t.branch(1), st: &chainState{}}
}
