package pattern

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/vimhelp-mcp/pkg/types"
)

// EmptyOnly is the wildcard pattern used for queries without wildcards
const EmptyOnly = "^$"

// SearchPatterns holds the patterns derived from one query
type SearchPatterns struct {
	Escaped  string // Literal match
	ICase    string // Case-insensitive match
	Wildcard string // Glob-style match, EmptyOnly when the query has no wildcards
}

// fullReplacements maps whole queries to the name they are searched as
var fullReplacements = map[string]string{
	"*":   "star",
	"g*":  "gstar",
	"[*":  "[star",
	"]*":  "]star",
	"/*":  "/star",
	`/\*`: `/\star`,
	`"*`:  "quotestar",
	"**":  "starstar",
}

// replacement rewrites part of the working name
type replacement struct {
	re      *regexp.Regexp
	repl    string
	literal bool // repl is inserted as-is, without $n expansion
}

func newReplacement(pattern, repl string, escapePattern bool) replacement {
	if escapePattern {
		pattern = regexp.QuoteMeta(pattern)
	}
	return replacement{
		re:      regexp.MustCompile(pattern),
		repl:    repl,
		literal: escapePattern,
	}
}

func (r replacement) apply(s string) string {
	if r.literal {
		return r.re.ReplaceAllLiteralString(s, r.repl)
	}
	return r.re.ReplaceAllString(s, r.repl)
}

// partialReplacements are applied in order, each to the previous output
var partialReplacements = []replacement{
	newReplacement(`"`, "quote", true),
	newReplacement("|", "bar", true),
	newReplacement(`(?s)\^(.)`, "CTRL-${1}", false),            // ^N to CTRL-N
	newReplacement(`(?s)(CTRL-.)([^_])`, "${1}_${2}", false), // CTRL-XCTRL-N to CTRL-X_CTRL-N
}

var (
	// escapedOrLetter matches an escape pair or a single letter
	escapedOrLetter = regexp.MustCompile(`(?s)\\.|\pL`)
	// escapePair matches a backslash and the character it escapes
	escapePair = regexp.MustCompile(`(?s)\\.`)
)

// Generate derives the search patterns for a raw query.
// It returns types.ErrUnsafeEscape when the query is not valid UTF-8.
func Generate(query string) (SearchPatterns, error) {
	if query == "" {
		return SearchPatterns{}, types.ErrEmptyQuery
	}

	escaped, err := Escape(Rewrite(query))
	if err != nil {
		return SearchPatterns{}, err
	}

	return SearchPatterns{
		Escaped:  escaped,
		ICase:    IgnoreCase(escaped),
		Wildcard: Wildcard(escaped),
	}, nil
}

// Rewrite applies the whole-query table, or failing that the ordered partial
// replacements, and returns the name to search for.
func Rewrite(query string) string {
	if name, ok := fullReplacements[query]; ok {
		return name
	}

	name := query
	for _, r := range partialReplacements {
		name = r.apply(name)
	}
	return name
}

// Escape prefixes every ASCII character that is not a letter, digit or
// underscore with a backslash. Other runes are copied verbatim.
func Escape(text string) (string, error) {
	var b strings.Builder
	b.Grow(len(text) * 2)

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if r == utf8.RuneError && size <= 1 {
			return "", fmt.Errorf("%w: invalid UTF-8 at byte %d", types.ErrUnsafeEscape, i)
		}
		if r < utf8.RuneSelf && !isWordRune(r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
		i += size
	}

	return b.String(), nil
}

// IgnoreCase replaces each letter of an escaped pattern with a class matching
// both of its cases.
func IgnoreCase(escaped string) string {
	return escapedOrLetter.ReplaceAllStringFunc(escaped, func(s string) string {
		if s[0] == '\\' {
			return s
		}
		r, _ := utf8.DecodeRuneInString(s)
		return "[" + string(unicode.ToLower(r)) + string(unicode.ToUpper(r)) + "]"
	})
}

// Wildcard turns escaped '*' and '?' into ".*" and ".". When the escaped
// pattern has neither, EmptyOnly is returned.
func Wildcard(escaped string) string {
	wildcard := escapePair.ReplaceAllStringFunc(escaped, func(s string) string {
		switch s {
		case `\*`:
			return ".*"
		case `\?`:
			return "."
		default:
			return s
		}
	})
	if wildcard == escaped {
		return EmptyOnly
	}
	return wildcard
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
