// Package memorydb provides an ephemeral in-process store adapter.
// It backs the "memory" backend and the test suites of the packages
// that only need the store contract, not persistence.
package memorydb

import (
	"errors"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/ldbtools/ldbtest/internal/store"
)

// errClosed is returned by every operation after Close.
var errClosed = errors.New("memorydb: database closed")

// Database is a map-backed key-value store. Iterators operate on a
// sorted snapshot taken at creation time.
type Database struct {
	db   map[string][]byte
	lock sync.RWMutex
}

// New creates an empty in-memory store.
func New() *Database {
	return &Database{
		db: make(map[string][]byte),
	}
}

// NewWithCap creates an empty in-memory store sized for n entries.
func NewWithCap(n int) *Database {
	return &Database{
		db: make(map[string][]byte, n),
	}
}

// Close drops the contents. Further operations fail.
func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	db.db = nil
	return nil
}

// Has reports whether a key exists.
func (db *Database) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return false, errClosed
	}
	_, ok := db.db[string(key)]
	return ok, nil
}

// Get retrieves the value for a key, or store.ErrNotFound.
func (db *Database) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return nil, errClosed
	}
	if entry, ok := db.db[string(key)]; ok {
		return copyBytes(entry), nil
	}
	return nil, store.ErrNotFound
}

// Put stores a key-value pair, copying both slices.
func (db *Database) Put(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.db == nil {
		return errClosed
	}
	db.db[string(key)] = copyBytes(value)
	return nil
}

// Delete removes a key. Deleting an absent key is not an error.
func (db *Database) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.db == nil {
		return errClosed
	}
	delete(db.db, string(key))
	return nil
}

// NewBatch creates a batch that applies under a single lock acquisition.
func (db *Database) NewBatch() store.Batch {
	return &batch{db: db}
}

// NewIterator iterates a sorted snapshot of the whole key space.
func (db *Database) NewIterator() store.Iterator {
	return db.snapshotIterator(func(string) bool { return true })
}

// NewIteratorWithStart iterates a sorted snapshot of keys >= start.
func (db *Database) NewIteratorWithStart(start []byte) store.Iterator {
	s := string(start)
	return db.snapshotIterator(func(key string) bool { return key >= s })
}

// NewIteratorWithPrefix iterates a sorted snapshot of keys with the prefix.
func (db *Database) NewIteratorWithPrefix(prefix []byte) store.Iterator {
	p := string(prefix)
	return db.snapshotIterator(func(key string) bool { return strings.HasPrefix(key, p) })
}

func (db *Database) snapshotIterator(match func(string) bool) store.Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	var keys []string
	for key := range db.db {
		if match(key) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	values := make([][]byte, 0, len(keys))
	for _, key := range keys {
		values = append(values, copyBytes(db.db[key]))
	}
	return &iterator{keys: keys, values: values}
}

// Stat reports "count" (number of keys) and "size" (total bytes held).
func (db *Database) Stat(property string) (string, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.db == nil {
		return "", errClosed
	}
	switch property {
	case "count":
		return strconv.Itoa(len(db.db)), nil
	case "size":
		size := 0
		for key, value := range db.db {
			size += len(key) + len(value)
		}
		return strconv.Itoa(size), nil
	default:
		return "", store.ErrUnknownProperty
	}
}

// DefaultStatProperties lists what the stats command reports by default.
func (db *Database) DefaultStatProperties() []string {
	return []string{"count", "size"}
}

// Compact is a no-op; a flat map has nothing to compact.
func (db *Database) Compact(start []byte, limit []byte) error {
	return nil
}

// Len returns the number of stored keys.
func (db *Database) Len() int {
	db.lock.RLock()
	defer db.lock.RUnlock()

	return len(db.db)
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// keyvalue is one staged batch operation.
type keyvalue struct {
	key    []byte
	value  []byte
	delete bool
}

type batch struct {
	db     *Database
	writes []keyvalue
	size   int
}

func (b *batch) Put(key, value []byte) error {
	b.writes = append(b.writes, keyvalue{copyBytes(key), copyBytes(value), false})
	b.size += len(value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.writes = append(b.writes, keyvalue{copyBytes(key), nil, true})
	b.size++
	return nil
}

func (b *batch) ValueSize() int {
	return b.size
}

func (b *batch) Write() error {
	b.db.lock.Lock()
	defer b.db.lock.Unlock()

	if b.db.db == nil {
		return errClosed
	}
	for _, kv := range b.writes {
		if kv.delete {
			delete(b.db.db, string(kv.key))
			continue
		}
		b.db.db[string(kv.key)] = kv.value
	}
	return nil
}

func (b *batch) Reset() {
	b.writes = b.writes[:0]
	b.size = 0
}

func (b *batch) Replay(w store.Writer) error {
	for _, kv := range b.writes {
		if kv.delete {
			if err := w.Delete(kv.key); err != nil {
				return err
			}
			continue
		}
		if err := w.Put(kv.key, kv.value); err != nil {
			return err
		}
	}
	return nil
}

// iterator walks a pre-sorted snapshot. It never fails.
type iterator struct {
	inited bool
	keys   []string
	values [][]byte
}

func (it *iterator) Next() bool {
	if !it.inited {
		it.inited = true
		return len(it.keys) > 0
	}
	if len(it.keys) > 0 {
		it.keys = it.keys[1:]
		it.values = it.values[1:]
	}
	return len(it.keys) > 0
}

func (it *iterator) Error() error {
	return nil
}

func (it *iterator) Key() []byte {
	if len(it.keys) > 0 {
		return []byte(it.keys[0])
	}
	return nil
}

func (it *iterator) Value() []byte {
	if len(it.values) > 0 {
		return it.values[0]
	}
	return nil
}

func (it *iterator) Release() {
	it.keys, it.values = nil, nil
}
