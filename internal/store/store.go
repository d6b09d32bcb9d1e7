// Package store defines the backend-neutral key-value store contract
// implemented by the leveldb, sqlite, and memorydb adapters.
package store

import (
	"errors"
	"io"
)

var (
	// ErrNotFound is returned by Get when the key does not exist.
	// Backends normalize their own not-found errors to this sentinel.
	ErrNotFound = errors.New("store: key not found")

	// ErrUnknownProperty is returned by Stat for properties the backend
	// does not expose. Callers treat it as "skip", not as a failure.
	ErrUnknownProperty = errors.New("store: unknown property")
)

// Reader wraps the read methods of a key-value store.
type Reader interface {
	// Has reports whether a key exists without retrieving its value.
	Has(key []byte) (bool, error)

	// Get retrieves the value for a key, or ErrNotFound.
	Get(key []byte) ([]byte, error)
}

// Writer wraps the mutation methods of a key-value store.
// Delete is idempotent: removing an absent key is not an error.
type Writer interface {
	Put(key []byte, value []byte) error
	Delete(key []byte) error
}

// Batch stages writes and applies them as one atomic unit. A batch is
// not goroutine safe and must not be reused after Write without Reset.
type Batch interface {
	Writer

	// ValueSize is the amount of staged data, used for reporting.
	ValueSize() int

	// Write flushes all staged writes to the store atomically.
	Write() error

	// Reset discards the staged writes so the batch can be reused.
	Reset()

	// Replay applies the staged writes to the given writer.
	Replay(w Writer) error
}

// Batcher creates write batches.
type Batcher interface {
	NewBatch() Batch
}

// Iterator walks key-value pairs in ascending key order. It starts
// positioned before the first pair; Next advances and reports whether
// a pair is available. Release must be called when done.
type Iterator interface {
	Next() bool

	// Error returns the accumulated iteration failure, if any. Pairs
	// yielded before the failure remain valid.
	Error() error

	Key() []byte

	Value() []byte

	Release()
}

// Iteratee creates iterators over subsets of the key space.
type Iteratee interface {
	NewIterator() Iterator

	// NewIteratorWithStart iterates keys >= start.
	NewIteratorWithStart(start []byte) Iterator

	// NewIteratorWithPrefix iterates keys sharing the given prefix.
	NewIteratorWithPrefix(prefix []byte) Iterator
}

// Stater exposes named introspection properties.
type Stater interface {
	// Stat returns the value of a named property, or ErrUnknownProperty.
	Stat(property string) (string, error)

	// DefaultStatProperties lists the properties this backend reports
	// when the caller does not ask for specific ones.
	DefaultStatProperties() []string
}

// Compacter triggers a manual compaction of the key range [start, limit).
// Nil bounds mean the ends of the key space. Backends without an
// equivalent maintenance operation may treat it as a no-op.
type Compacter interface {
	Compact(start []byte, limit []byte) error
}

// KeyValueStore is the full contract a backend must satisfy.
type KeyValueStore interface {
	Reader
	Writer
	Batcher
	Iteratee
	Stater
	Compacter
	io.Closer
}
