// Package sqlite provides a SQLite-backed store adapter. Keys and
// values live in a single kv table; BLOB primary-key ordering gives
// the same ascending byte order the other backends iterate in.
package sqlite

import (
	"database/sql"
	"fmt"
	"strconv"

	"github.com/ldbtools/ldbtest/internal/store"
	_ "modernc.org/sqlite"
)

// Database wraps a SQLite connection with the store contract.
type Database struct {
	fn string
	db *sql.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*Database, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Database{fn: path, db: db}, nil
}

// createSchema creates the kv table if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS kv (
			key   BLOB PRIMARY KEY,
			value BLOB NOT NULL
		);
	`
	_, err := db.Exec(schema)
	return err
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Has reports whether a key exists.
func (d *Database) Has(key []byte) (bool, error) {
	var one int
	err := d.db.QueryRow("SELECT 1 FROM kv WHERE key = ?", key).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Get retrieves the value for a key, or store.ErrNotFound.
func (d *Database) Get(key []byte) ([]byte, error) {
	var value []byte
	err := d.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Put stores a key-value pair, replacing any existing value.
func (d *Database) Put(key []byte, value []byte) error {
	_, err := d.db.Exec("INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)", key, value)
	return err
}

// Delete removes a key. Deleting an absent key is not an error.
func (d *Database) Delete(key []byte) error {
	_, err := d.db.Exec("DELETE FROM kv WHERE key = ?", key)
	return err
}

// NewBatch creates a batch that applies as a single transaction.
func (d *Database) NewBatch() store.Batch {
	return &batch{db: d.db}
}

// NewIterator iterates the whole key space in ascending order.
func (d *Database) NewIterator() store.Iterator {
	return d.queryIterator("SELECT key, value FROM kv ORDER BY key")
}

// NewIteratorWithStart iterates keys >= start in ascending order.
func (d *Database) NewIteratorWithStart(start []byte) store.Iterator {
	return d.queryIterator("SELECT key, value FROM kv WHERE key >= ? ORDER BY key", start)
}

// NewIteratorWithPrefix iterates keys with the given prefix.
func (d *Database) NewIteratorWithPrefix(prefix []byte) store.Iterator {
	upper := prefixUpperBound(prefix)
	if upper == nil {
		return d.NewIteratorWithStart(prefix)
	}
	return d.queryIterator(
		"SELECT key, value FROM kv WHERE key >= ? AND key < ? ORDER BY key",
		prefix, upper,
	)
}

func (d *Database) queryIterator(query string, args ...interface{}) store.Iterator {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return &iterator{err: err}
	}
	return &iterator{rows: rows}
}

// prefixUpperBound returns the smallest key greater than every key with
// the given prefix, or nil when no such bound exists (all-0xff prefix).
func prefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] < 0xff {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil
}

// Stat reports "count" (number of rows) and "size" (page_count * page_size).
func (d *Database) Stat(property string) (string, error) {
	switch property {
	case "count":
		var count int64
		if err := d.db.QueryRow("SELECT COUNT(*) FROM kv").Scan(&count); err != nil {
			return "", err
		}
		return strconv.FormatInt(count, 10), nil
	case "size":
		var pageCount, pageSize int64
		if err := d.db.QueryRow("PRAGMA page_count").Scan(&pageCount); err != nil {
			return "", err
		}
		if err := d.db.QueryRow("PRAGMA page_size").Scan(&pageSize); err != nil {
			return "", err
		}
		return strconv.FormatInt(pageCount*pageSize, 10), nil
	default:
		return "", store.ErrUnknownProperty
	}
}

// DefaultStatProperties lists what the stats command reports by default.
func (d *Database) DefaultStatProperties() []string {
	return []string{"count", "size"}
}

// Compact rewrites the database file to reclaim free pages. The range
// bounds are ignored; VACUUM is whole-file only.
func (d *Database) Compact(start []byte, limit []byte) error {
	_, err := d.db.Exec("VACUUM")
	return err
}

// Path returns the database file location.
func (d *Database) Path() string {
	return d.fn
}

// keyvalue is one staged batch operation.
type keyvalue struct {
	key    []byte
	value  []byte
	delete bool
}

type batch struct {
	db     *sql.DB
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

// Write applies the staged operations inside one transaction, so the
// batch is all-or-nothing.
func (b *batch) Write() error {
	tx, err := b.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning batch transaction: %w", err)
	}
	for _, kv := range b.writes {
		if kv.delete {
			_, err = tx.Exec("DELETE FROM kv WHERE key = ?", kv.key)
		} else {
			_, err = tx.Exec("INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)", kv.key, kv.value)
		}
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("applying batch: %w", err)
		}
	}
	return tx.Commit()
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

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}

// iterator lazily walks an ordered query cursor.
type iterator struct {
	rows  *sql.Rows
	key   []byte
	value []byte
	err   error
}

func (it *iterator) Next() bool {
	if it.err != nil || it.rows == nil {
		return false
	}
	if !it.rows.Next() {
		it.err = it.rows.Err()
		return false
	}
	if err := it.rows.Scan(&it.key, &it.value); err != nil {
		it.err = err
		return false
	}
	return true
}

func (it *iterator) Error() error {
	return it.err
}

func (it *iterator) Key() []byte {
	return it.key
}

func (it *iterator) Value() []byte {
	return it.value
}

func (it *iterator) Release() {
	if it.rows != nil {
		it.rows.Close()
		it.rows = nil
	}
}
