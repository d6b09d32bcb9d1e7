// Package leveldb provides the goleveldb-backed store adapter. This is
// the default backend: an LSM engine with the same on-disk format and
// property names as the original LevelDB.
package leveldb

import (
	"strconv"
	"strings"

	"github.com/ldbtools/ldbtest/internal/store"
	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	// minCache is the smallest block-cache/write-buffer budget in MiB.
	minCache = 16

	// minHandles is the smallest number of open file handles.
	minHandles = 16
)

// Database wraps a goleveldb handle with the store contract.
type Database struct {
	fn string
	db *leveldb.DB
}

// New opens (or creates) a LevelDB database at the given path. cache is
// the memory budget in MiB, split between block cache and write buffer;
// handles caps open file descriptors. A corrupted database triggers one
// recovery attempt before failing.
func New(file string, cache int, handles int) (*Database, error) {
	if cache < minCache {
		cache = minCache
	}
	if handles < minHandles {
		handles = minHandles
	}

	db, err := leveldb.OpenFile(file, &opt.Options{
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB,
		Filter:                 filter.NewBloomFilter(10),
	})
	if _, corrupted := err.(*ldberrors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		return nil, err
	}

	return &Database{fn: file, db: db}, nil
}

// Close releases the underlying handle and its file lock.
func (db *Database) Close() error {
	return db.db.Close()
}

// Has reports whether a key exists.
func (db *Database) Has(key []byte) (bool, error) {
	return db.db.Has(key, nil)
}

// Get retrieves the value for a key, or store.ErrNotFound.
func (db *Database) Get(key []byte) ([]byte, error) {
	dat, err := db.db.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return dat, nil
}

// Put stores a key-value pair.
func (db *Database) Put(key []byte, value []byte) error {
	return db.db.Put(key, value, nil)
}

// Delete removes a key. Deleting an absent key is not an error.
func (db *Database) Delete(key []byte) error {
	return db.db.Delete(key, nil)
}

// NewBatch creates an atomic write batch.
func (db *Database) NewBatch() store.Batch {
	return &batch{
		db: db.db,
		b:  new(leveldb.Batch),
	}
}

// NewIterator iterates the whole key space in ascending order.
func (db *Database) NewIterator() store.Iterator {
	return db.db.NewIterator(nil, nil)
}

// NewIteratorWithStart iterates keys >= start in ascending order.
func (db *Database) NewIteratorWithStart(start []byte) store.Iterator {
	return db.db.NewIterator(&util.Range{Start: start}, nil)
}

// NewIteratorWithPrefix iterates keys with the given prefix.
func (db *Database) NewIteratorWithPrefix(prefix []byte) store.Iterator {
	return db.db.NewIterator(util.BytesPrefix(prefix), nil)
}

// Stat passes leveldb.* property names through to the engine and maps
// "size" to the approximate on-disk size of the full key range.
func (db *Database) Stat(property string) (string, error) {
	switch {
	case property == "size":
		sizes, err := db.db.SizeOf([]util.Range{{}})
		if err != nil {
			return "", err
		}
		return strconv.FormatInt(sizes.Sum(), 10), nil
	case strings.HasPrefix(property, "leveldb."):
		value, err := db.db.GetProperty(property)
		if err != nil {
			return "", store.ErrUnknownProperty
		}
		return value, nil
	default:
		return "", store.ErrUnknownProperty
	}
}

// DefaultStatProperties lists what the stats command reports by default.
func (db *Database) DefaultStatProperties() []string {
	return []string{"leveldb.stats", "size"}
}

// Compact flattens the key range [start, limit) onto the bottom level.
func (db *Database) Compact(start []byte, limit []byte) error {
	return db.db.CompactRange(util.Range{Start: start, Limit: limit})
}

// Path returns the directory the database lives in.
func (db *Database) Path() string {
	return db.fn
}

// batch stages writes for a single atomic flush.
type batch struct {
	db   *leveldb.DB
	b    *leveldb.Batch
	size int
}

func (b *batch) Put(key, value []byte) error {
	b.b.Put(key, value)
	b.size += len(value)
	return nil
}

func (b *batch) Delete(key []byte) error {
	b.b.Delete(key)
	b.size++
	return nil
}

func (b *batch) ValueSize() int {
	return b.size
}

func (b *batch) Write() error {
	return b.db.Write(b.b, nil)
}

func (b *batch) Reset() {
	b.b.Reset()
	b.size = 0
}

func (b *batch) Replay(w store.Writer) error {
	r := &replayer{writer: w}
	if err := b.b.Replay(r); err != nil {
		return err
	}
	return r.failure
}

// replayer adapts a store.Writer to goleveldb's replay callback, which
// has no error returns of its own.
type replayer struct {
	writer  store.Writer
	failure error
}

func (r *replayer) Put(key, value []byte) {
	if r.failure != nil {
		return
	}
	r.failure = r.writer.Put(key, value)
}

func (r *replayer) Delete(key []byte) {
	if r.failure != nil {
		return
	}
	r.failure = r.writer.Delete(key)
}
