package types

import (
	"fmt"
	"strings"
)

// HelpBaseURL is the root of the online Neovim user manual
const HelpBaseURL = "https://neovim.io/doc/user/"

// Tag represents a help-documentation anchor and the file it is defined in
type Tag struct {
	Name string // Tag identifier, e.g. "CTRL-N" or ":cd"
	File string // Help file, e.g. "motion.txt"
}

// ParseTagLine builds a Tag from a tags file line ("name<TAB>file<TAB>...").
// Fields after the file are ignored.
func ParseTagLine(line string) (Tag, error) {
	name, rest, ok := strings.Cut(line, "\t")
	if !ok || name == "" {
		return Tag{}, ErrMalformedLine
	}

	file, _, _ := strings.Cut(rest, "\t")
	if file == "" {
		return Tag{}, ErrMalformedLine
	}

	return Tag{Name: name, File: file}, nil
}

// Page returns the help page the tag lives on: the file name up to its first
// dot, with "index" mapped to "vimindex" the way the website names it.
func (t Tag) Page() string {
	page, _, _ := strings.Cut(t.File, ".")
	if page == "index" {
		return "vimindex"
	}
	return page
}

// URL returns the documentation URL for the tag
func (t Tag) URL() string {
	return fmt.Sprintf("%s%s.html#%s", HelpBaseURL, t.Page(), t.Name)
}

// String returns the tag as "name (file)"
func (t Tag) String() string {
	return fmt.Sprintf("%s (%s)", t.Name, t.File)
}

// CompareTags orders tags by name only
func CompareTags(a, b Tag) int {
	return strings.Compare(a.Name, b.Name)
}
