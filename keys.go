package chainz

import (
	"fmt"
	"maps"
)

// Record is the associative element type required by the key operations
// (MapKey, SetKey, DropKey, RenameKey, KeepKeys) and by JoinOnKey. Chains of
// any element type may carry records; the key operations assert each element
// at drive time and route non-records through the error protocol as
// ErrNotRecord.
type Record = map[string]any

// asRecord asserts an element to Record.
func asRecord[T any](x T) (Record, error) {
	if r, ok := any(x).(Record); ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrNotRecord, x)
}

// toElem converts a record back to the chain's element type. It cannot fail
// on chains whose elements came through asRecord.
func toElem[T any](r Record) (T, error) {
	if v, ok := any(r).(T); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("%w: cannot carry %T as record output", ErrNotRecord, zero)
}

// MapKey maps the value of one or more keys through f, in the order given,
// mutating and re-emitting the same record. A record missing one of the keys
// is an ErrMissingKey failure routed through the error protocol.
func (c *Chain[T]) MapKey(f func(value any) (any, error), keys ...string) *Chain[T] {
	return c.install("map_key", func(x T) (T, bool, error) {
		rec, err := asRecord(x)
		if err != nil {
			return x, false, fmt.Errorf("map_key: %w", err)
		}
		for _, k := range keys {
			v, ok := rec[k]
			if !ok {
				return x, false, fmt.Errorf("map_key %q: %w", k, ErrMissingKey)
			}
			out, err := f(v)
			if err != nil {
				return x, false, fmt.Errorf("map_key %q: %w", k, err)
			}
			rec[k] = out
		}
		return x, false, nil
	})
}

// SetKey sets key to a constant value on each record.
func (c *Chain[T]) SetKey(key string, value any) *Chain[T] {
	return c.install("set_key", func(x T) (T, bool, error) {
		rec, err := asRecord(x)
		if err != nil {
			return x, false, fmt.Errorf("set_key: %w", err)
		}
		rec[key] = value
		return x, false, nil
	})
}

// SetKeyFunc sets key on each record to the result of calling f with the
// record itself.
func (c *Chain[T]) SetKeyFunc(key string, f func(rec Record) (any, error)) *Chain[T] {
	return c.install("set_key", func(x T) (T, bool, error) {
		rec, err := asRecord(x)
		if err != nil {
			return x, false, fmt.Errorf("set_key: %w", err)
		}
		v, err := f(rec)
		if err != nil {
			return x, false, fmt.Errorf("set_key %q: %w", key, err)
		}
		rec[key] = v
		return x, false, nil
	})
}

// DropKey removes key from each record. A record without the key is an
// ErrMissingKey failure routed through the error protocol.
func (c *Chain[T]) DropKey(key string) *Chain[T] {
	return c.install("drop_key", func(x T) (T, bool, error) {
		rec, err := asRecord(x)
		if err != nil {
			return x, false, fmt.Errorf("drop_key: %w", err)
		}
		if _, ok := rec[key]; !ok {
			return x, false, fmt.Errorf("drop_key %q: %w", key, ErrMissingKey)
		}
		delete(rec, key)
		return x, false, nil
	})
}

// RenameKey moves the value of oldKey to newKey. When strict, a record
// without oldKey is an ErrMissingKey failure routed through the error
// protocol; otherwise such records pass through unchanged.
func (c *Chain[T]) RenameKey(oldKey, newKey string, strict bool) *Chain[T] {
	return c.install("rename_key", func(x T) (T, bool, error) {
		rec, err := asRecord(x)
		if err != nil {
			return x, false, fmt.Errorf("rename_key: %w", err)
		}
		v, ok := rec[oldKey]
		if !ok {
			if strict {
				return x, false, fmt.Errorf("rename_key %q: %w", oldKey, ErrMissingKey)
			}
			return x, false, nil
		}
		delete(rec, oldKey)
		rec[newKey] = v
		return x, false, nil
	})
}

// KeepKeys replaces each record with a new record containing only the listed
// keys that are present. Absent keys are simply not added, never an error.
// The original record is not modified.
func (c *Chain[T]) KeepKeys(keys ...string) *Chain[T] {
	return c.install("keep_keys", func(x T) (T, bool, error) {
		rec, err := asRecord(x)
		if err != nil {
			return x, false, fmt.Errorf("keep_keys: %w", err)
		}
		kept := make(Record, len(keys))
		for _, k := range keys {
			if v, ok := rec[k]; ok {
				kept[k] = v
			}
		}
		out, err := toElem[T](kept)
		if err != nil {
			return x, false, fmt.Errorf("keep_keys: %w", err)
		}
		return out, false, nil
	})
}

// cloneRecord shallow-copies a record.
func cloneRecord(rec Record) Record {
	return maps.Clone(rec)
}
