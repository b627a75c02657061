package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimhelp-mcp/pkg/types"
)

func TestMatcherPriority(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		tag      string
		wantKind types.MatchKind
		wantPos  int
		wantOK   bool
	}{
		{"exact at start", "^N", "CTRL-N", types.MatchExact, 0, true},
		{"exact inside", "^N", "i_CTRL-N", types.MatchExact, 2, true},
		{"case mismatch falls back to icase", "^n", "CTRL-N", types.MatchICase, 0, true},
		{"exact beats icase", "cd", ":cd", types.MatchExact, 1, true},
		{"wildcard", "wild*", "'wildmenu'", types.MatchWildcard, 1, true},
		{"single char wildcard", "c?d", ":cxd", types.MatchWildcard, 1, true},
		{"no match", "^N", "CTRL-P", "", 0, false},
		{"non-wildcard query never matches via wildcard", "zzz", "abc", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.query)
			require.NoError(t, err)

			kind, pos, ok := m.Match(tt.tag)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantPos, pos)
		})
	}
}

func TestMatcherEmptyOnlyWildcard(t *testing.T) {
	m, err := New("zzz")
	require.NoError(t, err)

	kind, _, ok := m.Match("")
	assert.True(t, ok, "the degenerate wildcard only matches the empty name")
	assert.Equal(t, types.MatchWildcard, kind)

	_, _, ok = m.Match("zz")
	assert.False(t, ok)
}

func TestNewPropagatesGenerationErrors(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, types.ErrEmptyQuery)

	_, err = New("\xff")
	assert.ErrorIs(t, err, types.ErrUnsafeEscape)
}
