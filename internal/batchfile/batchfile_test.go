package batchfile

import (
	"errors"
	"strings"
	"testing"

	"github.com/ldbtools/ldbtest/internal/store"
	"github.com/ldbtools/ldbtest/internal/store/memorydb"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []Entry
		wantErr string
	}{
		{
			name:  "single pair",
			input: "hello world\n",
			want:  []Entry{{"hello", "world"}},
		},
		{
			name:  "multiple pairs",
			input: "a 1\nb 2\nc 3\n",
			want:  []Entry{{"a", "1"}, {"b", "2"}, {"c", "3"}},
		},
		{
			name:  "blank lines skipped",
			input: "a 1\n\n   \nb 2\n",
			want:  []Entry{{"a", "1"}, {"b", "2"}},
		},
		{
			name:  "tabs and runs of spaces",
			input: "a\t1\nb   2\n",
			want:  []Entry{{"a", "1"}, {"b", "2"}},
		},
		{
			name:  "no trailing newline",
			input: "a 1",
			want:  []Entry{{"a", "1"}},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:    "missing value",
			input:   "a 1\njustakey\n",
			wantErr: "line 2",
		},
		{
			name:    "too many fields",
			input:   "a 1\nb 2 extra\n",
			wantErr: "line 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.input))

			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("Parse() error = nil, want error containing %q", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("Parse() error = %q, want it to contain %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Parse() = %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("Parse()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLoadAppliesAllEntries(t *testing.T) {
	db := memorydb.New()
	defer db.Close()

	input := "user:1 alice\nuser:2 bob\nuser:3 carol\n"
	n, err := Load(db, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Load() = %d entries, want 3", n)
	}

	for key, want := range map[string]string{"user:1": "alice", "user:2": "bob", "user:3": "carol"} {
		got, err := db.Get([]byte(key))
		if err != nil {
			t.Fatalf("Get(%q) error = %v", key, err)
		}
		if string(got) != want {
			t.Errorf("Get(%q) = %q, want %q", key, got, want)
		}
	}
}

func TestLoadMalformedAppliesNothing(t *testing.T) {
	db := memorydb.New()
	defer db.Close()

	input := "good pair\nbroken\n"
	if _, err := Load(db, strings.NewReader(input)); err == nil {
		t.Fatal("Load() error = nil, want parse failure")
	}

	// The valid line before the broken one must not have been applied.
	if _, err := db.Get([]byte("good")); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Get(good) error = %v, want ErrNotFound (nothing applied)", err)
	}
	if db.Len() != 0 {
		t.Errorf("store holds %d keys after rejected batch, want 0", db.Len())
	}
}

func TestLoadEmptyInput(t *testing.T) {
	db := memorydb.New()
	defer db.Close()

	n, err := Load(db, strings.NewReader("\n\n"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if n != 0 {
		t.Errorf("Load() = %d entries, want 0", n)
	}
}
