package pattern

import (
	"fmt"
	"regexp"

	"github.com/dshills/vimhelp-mcp/pkg/types"
)

// Matcher holds the compiled search patterns in priority order
type Matcher struct {
	exact    *regexp.Regexp
	icase    *regexp.Regexp
	wildcard *regexp.Regexp
}

// Compile compiles the three patterns of p
func Compile(p SearchPatterns) (*Matcher, error) {
	exact, err := regexp.Compile(p.Escaped)
	if err != nil {
		return nil, fmt.Errorf("failed to compile escaped pattern: %w", err)
	}
	icase, err := regexp.Compile(p.ICase)
	if err != nil {
		return nil, fmt.Errorf("failed to compile icase pattern: %w", err)
	}
	wildcard, err := regexp.Compile(p.Wildcard)
	if err != nil {
		return nil, fmt.Errorf("failed to compile wildcard pattern: %w", err)
	}

	return &Matcher{exact: exact, icase: icase, wildcard: wildcard}, nil
}

// New generates and compiles the patterns for query
func New(query string) (*Matcher, error) {
	p, err := Generate(query)
	if err != nil {
		return nil, err
	}
	return Compile(p)
}

// Match tries the exact, case-insensitive and wildcard patterns against name
// in that order. It returns the kind of the first pattern that matched and the
// byte offset where the match starts.
func (m *Matcher) Match(name string) (types.MatchKind, int, bool) {
	if loc := m.exact.FindStringIndex(name); loc != nil {
		return types.MatchExact, loc[0], true
	}
	if loc := m.icase.FindStringIndex(name); loc != nil {
		return types.MatchICase, loc[0], true
	}
	if loc := m.wildcard.FindStringIndex(name); loc != nil {
		return types.MatchWildcard, loc[0], true
	}
	return "", 0, false
}
