package chainz

import "errors"

// Sentinel errors reported by key operations and the streaming join. All of
// them flow through the chain's error protocol: with a handler installed the
// offending item is dropped and iteration continues, without one the error
// terminates iteration and is returned by the consuming terminal.
//
// Wrap checks should use errors.Is, since the chain annotates these with the
// operation that produced them:
//
//	err := chain.Sink()
//	if errors.Is(err, chainz.ErrMissingKey) {
//	    // a record lacked a required key
//	}
var (
	// ErrMissingKey indicates a record did not contain a key that an
	// operation required (MapKey, DropKey, strict RenameKey, JoinOnKey).
	ErrMissingKey = errors.New("missing key")

	// ErrDuplicateKey indicates a join source produced two records with the
	// same key value before a match resolved. The later record is the
	// offending item; with a handler installed it is dropped and the earlier
	// buffered record is kept.
	ErrDuplicateKey = errors.New("duplicate join key")

	// ErrNotRecord indicates an item reached a key operation or join but is
	// not a Record.
	ErrNotRecord = errors.New("item is not a record")

	// ErrNotIterable indicates an item reached a strict Flatten but cannot
	// be iterated.
	ErrNotIterable = errors.New("item is not iterable")
)
