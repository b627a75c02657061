// Package tagfile loads a Neovim help-tag database and keeps it read-only for
// the lifetime of the process.
//
// The raw text is kept for the scanner, and a name-sorted copy of the tags
// backs exact lookups by name.
package tagfile

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/dshills/vimhelp-mcp/pkg/types"
)

// DefaultPath is where a system-wide Neovim install keeps its tags file
const DefaultPath = "/usr/local/share/nvim/runtime/doc/tags"

// Database is an immutable help-tag database
type Database struct {
	text    string
	sorted  []types.Tag
	skipped int
}

// Load reads and parses the tags file at path
func Load(path string) (*Database, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags file: %w", err)
	}
	return Parse(string(content)), nil
}

// Parse builds a Database from tags file text. Lines up to the first empty
// line are indexed; malformed lines are counted and left out of the index.
func Parse(text string) *Database {
	db := &Database{text: text}

	for rest := text; rest != ""; {
		var line string
		line, rest, _ = strings.Cut(rest, "\n")
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			break
		}

		tag, err := types.ParseTagLine(line)
		if err != nil {
			db.skipped++
			continue
		}
		db.sorted = append(db.sorted, tag)
	}

	slices.SortStableFunc(db.sorted, types.CompareTags)
	return db
}

// Text returns the raw database text
func (db *Database) Text() string {
	return db.text
}

// Len returns the number of well-formed tags
func (db *Database) Len() int {
	return len(db.sorted)
}

// Skipped returns the number of malformed lines
func (db *Database) Skipped() int {
	return db.skipped
}

// Tags returns a copy of the tags sorted by name
func (db *Database) Tags() []types.Tag {
	return slices.Clone(db.sorted)
}

// Lookup finds a tag by its exact name
func (db *Database) Lookup(name string) (types.Tag, bool) {
	i, found := slices.BinarySearchFunc(db.sorted, name, func(t types.Tag, name string) int {
		return strings.Compare(t.Name, name)
	})
	if !found {
		return types.Tag{}, false
	}
	return db.sorted[i], true
}
