// Package batchfile parses whitespace-delimited key-value files and
// applies them to a store as one atomic batch.
package batchfile

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ldbtools/ldbtest/internal/store"
)

// MaxLineCapacity is the maximum buffer size for reading input lines.
const MaxLineCapacity = 1024 * 1024

// Entry is one key-value pair parsed from a batch file.
type Entry struct {
	Key   string
	Value string
}

// Parse reads newline-delimited "key value" pairs. Blank lines are
// skipped. Any other line that does not split into exactly two
// whitespace-delimited fields fails the whole parse, identified by its
// line number, so nothing is ever partially applied.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	buf := make([]byte, MaxLineCapacity)
	scanner.Buffer(buf, MaxLineCapacity)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 2 {
			return nil, fmt.Errorf("line %d: expected \"key value\", got %d fields", line, len(fields))
		}
		entries = append(entries, Entry{Key: fields[0], Value: fields[1]})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading batch input: %w", err)
	}
	return entries, nil
}

// Apply stages all entries into a single batch and writes it atomically.
func Apply(db store.Batcher, entries []Entry) error {
	batch := db.NewBatch()
	for _, e := range entries {
		if err := batch.Put([]byte(e.Key), []byte(e.Value)); err != nil {
			return fmt.Errorf("staging %q: %w", e.Key, err)
		}
	}
	return batch.Write()
}

// Load parses r and applies the result as one atomic batch, returning
// the number of entries written. A parse failure applies nothing.
func Load(db store.Batcher, r io.Reader) (int, error) {
	entries, err := Parse(r)
	if err != nil {
		return 0, err
	}
	if len(entries) == 0 {
		return 0, nil
	}
	if err := Apply(db, entries); err != nil {
		return 0, err
	}
	return len(entries), nil
}
