package chainz

import (
	"fmt"
	"iter"
)

// JoinOnKey replaces the chain's sequence with the streaming join of it and
// other's sequence on the given key. Both sides must produce records; the
// key value must be present in every record and unique within each side.
//
// The join advances both sides incrementally, buffering records that have
// not yet found their mate. The moment a key has appeared on both sides, the
// buffered record is removed and the merged record is emitted, so output
// order is the order in which matches resolve, not the key order of either
// input. On field collisions other's fields win. Records from this chain are
// shallow-copied before merging; neither side's original records are
// mutated. Records still unmatched when both sides are exhausted are
// discarded, never emitted.
//
// Memory grows with the number of as-yet-unmatched keys; with no matches at
// all it reaches the full size of both inputs.
//
// A record that is not a Record, lacks the key, or repeats a key already
// buffered on its own side is a failure routed through the error protocol
// (ErrNotRecord, ErrMissingKey, ErrDuplicateKey). Under a handler the
// offending record is dropped; for a duplicate, the earlier buffered record
// is the one kept. Key values must be comparable.
//
// After this call, other must not be consumed independently.
func (c *Chain[T]) JoinOnKey(key string, other *Chain[T]) *Chain[T] {
	upstream := c.seq
	theirs := other.seq
	st := c.st
	count := st.instrument("join")
	c.seq = func(yield func(T, error) bool) {
		aNext, aStop := iter.Pull2(upstream)
		defer aStop()
		bNext, bStop := iter.Pull2(theirs)
		defer bStop()

		aStore := make(map[any]Record)
		bStore := make(map[any]Record)
		aActive, bActive := true, true

		// fail applies the error protocol; it reports whether iteration may
		// continue.
		fail := func(err error, item any) bool {
			if h := st.handler; h != nil {
				h(err, item)
				return true
			}
			var zero T
			yield(zero, err)
			return false
		}

		emit := func(rec Record) bool {
			out, err := toElem[T](rec)
			if err != nil {
				return fail(fmt.Errorf("join_on_key: %w", err), rec)
			}
			if count != nil {
				count()
			}
			return yield(out, nil)
		}

		// takeA pulls one record from this chain's side: match against
		// bStore or buffer a copy in aStore.
		takeA := func() bool {
			x, err, ok := aNext()
			if !ok {
				aActive = false
				return true
			}
			if err != nil {
				return fail(err, nil)
			}
			rec, rerr := asRecord(x)
			if rerr != nil {
				return fail(fmt.Errorf("join_on_key: %w", rerr), x)
			}
			k, ok := rec[key]
			if !ok {
				return fail(fmt.Errorf("join_on_key %q: %w", key, ErrMissingKey), x)
			}
			merged := cloneRecord(rec)
			if mate, ok := bStore[k]; ok {
				delete(bStore, k)
				for f, v := range mate {
					merged[f] = v
				}
				return emit(merged)
			}
			if _, dup := aStore[k]; dup {
				return fail(fmt.Errorf("join_on_key %q=%v: %w", key, k, ErrDuplicateKey), x)
			}
			aStore[k] = merged
			return true
		}

		// takeB pulls one record from the other side: match against aStore
		// or buffer in bStore. The stored aStore record is already a copy,
		// so the merge writes into it; the b record is never mutated.
		takeB := func() bool {
			y, err, ok := bNext()
			if !ok {
				bActive = false
				return true
			}
			if err != nil {
				return fail(err, nil)
			}
			rec, rerr := asRecord(y)
			if rerr != nil {
				return fail(fmt.Errorf("join_on_key: %w", rerr), y)
			}
			k, ok := rec[key]
			if !ok {
				return fail(fmt.Errorf("join_on_key %q: %w", key, ErrMissingKey), y)
			}
			if mate, ok := aStore[k]; ok {
				delete(aStore, k)
				for f, v := range rec {
					mate[f] = v
				}
				return emit(mate)
			}
			if _, dup := bStore[k]; dup {
				return fail(fmt.Errorf("join_on_key %q=%v: %w", key, k, ErrDuplicateKey), y)
			}
			bStore[k] = rec
			return true
		}

		for aActive || bActive {
			if aActive && !takeA() {
				return
			}
			if bActive && !takeB() {
				return
			}
		}
	}
	return c
}
