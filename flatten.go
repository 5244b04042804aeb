package chainz

import (
	"fmt"
	"iter"
	"reflect"
)

// Flatten attempts to iterate each element as a nested sequence (a slice or
// array) and re-emits its elements in order. When strict, a non-iterable
// element is an ErrNotIterable failure routed through the error protocol;
// otherwise the element passes through unchanged.
//
// Flatten inspects elements at drive time and is intended for chains of any.
// For chains with a statically known slice element type, prefer the
// package-level FlattenSlices, which cannot fail.
func (c *Chain[T]) Flatten(strict bool) *Chain[T] {
	return c.installExpand("flatten", func(x T) iter.Seq2[T, error] {
		return func(yield func(T, error) bool) {
			rv := reflect.ValueOf(any(x))
			switch rv.Kind() {
			case reflect.Slice, reflect.Array:
				for i := range rv.Len() {
					el, ok := rv.Index(i).Interface().(T)
					if !ok {
						var zero T
						yield(zero, fmt.Errorf("flatten: element %T does not fit the chain", rv.Index(i).Interface()))
						return
					}
					if !yield(el, nil) {
						return
					}
				}
			default:
				if strict {
					var zero T
					yield(zero, fmt.Errorf("flatten: %w: %T", ErrNotIterable, x))
					return
				}
				yield(x, nil)
			}
		}
	})
}
