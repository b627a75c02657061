package searcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/vimhelp-mcp/internal/tagfile"
	"github.com/dshills/vimhelp-mcp/pkg/types"
)

// Two-line database with both CTRL-N tags
const ctrlNDB = "CTRL-N\tmotion.txt\t/*CTRL-N*\n" +
	"i_CTRL-X_CTRL-N\tinsert.txt\t/*i_CTRL-X_CTRL-N*\n"

func loadFixture(t *testing.T) *tagfile.Database {
	t.Helper()
	db, err := tagfile.Load(filepath.Join("testdata", "tags"))
	require.NoError(t, err)
	return db
}

func newTestResolver(t *testing.T, cacheSize int) *Resolver {
	t.Helper()
	r, err := NewResolver(loadFixture(t), Options{CacheSize: cacheSize, Workers: 2})
	require.NoError(t, err)
	return r
}

func TestResolveKnownQueries(t *testing.T) {
	tests := []struct {
		query string
		want  types.Tag
	}{
		{"^N", types.Tag{Name: "CTRL-N", File: "motion.txt"}},
		{"^n", types.Tag{Name: "CTRL-N", File: "motion.txt"}},
		{"^X^N", types.Tag{Name: "i_CTRL-X_CTRL-N", File: "insert.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := Resolve(tt.query, ctrlNDB)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("wildmenu", func(t *testing.T) {
		got, ok := Resolve("wildmenu", "'wildmenu'\toptions.txt\t/*'wildmenu'*\n")
		require.True(t, ok)
		assert.Equal(t, types.Tag{Name: "'wildmenu'", File: "options.txt"}, got)
	})

	t.Run("nonexistent", func(t *testing.T) {
		_, ok := Resolve("nonexistent_xyz", ctrlNDB)
		assert.False(t, ok)
	})
}

func TestResolveFixture(t *testing.T) {
	db := loadFixture(t).Text()

	tests := []struct {
		query string
		name  string
		file  string
	}{
		{"^N", "CTRL-N", "motion.txt"},
		{"^n", "CTRL-N", "motion.txt"},
		{"CTRL-N", "CTRL-N", "motion.txt"},
		{"ctrl-n", "CTRL-N", "motion.txt"},
		{"^X^N", "i_CTRL-X_CTRL-N", "insert.txt"},
		{"^x^n", "i_CTRL-X_CTRL-N", "insert.txt"},
		{"nvim_cmd", "nvim_cmd()", "api.txt"},
		{"cd", ":cd", "editing.txt"},
		{"'cd", "'cd'", "options.txt"},
		{`\c`, `/\c`, "pattern.txt"},
		{"let-&", ":let-&", "eval.txt"},
		{"wildmenu", "'wildmenu'", "options.txt"},
		{"'wildmenu'", "'wildmenu'", "options.txt"},
		{"wmnu", "'wmnu'", "options.txt"},
		{"wild*", "'wildmenu'", "options.txt"},
		{"*", "star", "pattern.txt"},
		{"**", "starstar", "editing.txt"},
		{`"*`, "quotestar", "gui.txt"},
		{"g*", "gstar", "pattern.txt"},
		{`"`, "quote", "change.txt"},
		{"|", "bar", "motion.txt"},
		{"index", "index", "index.txt"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := Resolve(tt.query, db)
			require.True(t, ok, "expected a match for %q", tt.query)
			assert.Equal(t, types.Tag{Name: tt.name, File: tt.file}, got)
		})
	}
}

func TestResolveNoMatch(t *testing.T) {
	db := loadFixture(t).Text()

	for _, q := range []string{"nonexistent_xyz", "", "\xff", "^Z"} {
		t.Run(q, func(t *testing.T) {
			tag, ok := Resolve(q, db)
			assert.False(t, ok)
			assert.Equal(t, types.Tag{}, tag)
		})
	}

	t.Run("empty database", func(t *testing.T) {
		_, ok := Resolve("^N", "")
		assert.False(t, ok)
	})
}

func TestCaseInsensitiveRecovery(t *testing.T) {
	db := loadFixture(t).Text()

	upper, ok := Resolve("^N", db)
	require.True(t, ok)
	lower, ok := Resolve("^n", db)
	require.True(t, ok)
	assert.Equal(t, upper, lower)

	matches, err := Candidates("^n", db)
	require.NoError(t, err)
	for _, m := range matches {
		assert.Equal(t, types.MatchICase, m.Kind)
	}
}

func TestFullReplacementBeforeEscaping(t *testing.T) {
	db := loadFixture(t).Text()

	star, ok := Resolve("*", db)
	require.True(t, ok)
	literal, ok := Resolve("star", db)
	require.True(t, ok)
	assert.Equal(t, literal, star)

	starMatches, err := Candidates("*", db)
	require.NoError(t, err)
	literalMatches, err := Candidates("star", db)
	require.NoError(t, err)
	assert.Equal(t, literalMatches, starMatches)
}

func TestWildcardInertness(t *testing.T) {
	// The empty-name decoy is what the "^$" wildcard of a plain query would hit
	decoy := "\tdecoy.txt\t/**\n"

	t.Run("decoy alone is never selected", func(t *testing.T) {
		_, ok := Resolve("zzz", decoy)
		assert.False(t, ok)
	})

	t.Run("decoy before a real match", func(t *testing.T) {
		got, ok := Resolve("^N", decoy+ctrlNDB)
		require.True(t, ok)
		assert.Equal(t, types.Tag{Name: "CTRL-N", File: "motion.txt"}, got)

		matches, err := Candidates("^N", decoy+ctrlNDB)
		require.NoError(t, err)
		for _, m := range matches {
			assert.NotEqual(t, types.MatchWildcard, m.Kind)
			assert.NotEmpty(t, m.Tag.Name)
		}
	})

	t.Run("plain queries never produce wildcard candidates", func(t *testing.T) {
		db := loadFixture(t).Text()
		for _, q := range []string{"^N", "cd", "wildmenu", "let-&", "index"} {
			matches, err := Candidates(q, db)
			require.NoError(t, err)
			for _, m := range matches {
				assert.NotEqual(t, types.MatchWildcard, m.Kind, "query %q tag %q", q, m.Tag.Name)
			}
		}
	})
}

func TestSelectionPrefersLowestScore(t *testing.T) {
	// Lowest score wins, so the icase and wildcard bonuses lose to an exact match
	matches := []types.Match{
		{Tag: types.Tag{Name: "high"}, Score: 20810},
		{Tag: types.Tag{Name: "low"}, Score: 506},
		{Tag: types.Tag{Name: "low-tie"}, Score: 506},
		{Tag: types.Tag{Name: "mid"}, Score: 5506},
	}

	best, ok := Best(matches)
	require.True(t, ok)
	assert.Equal(t, "low", best.Tag.Name, "ties keep the first candidate in scan order")

	_, ok = Best(nil)
	assert.False(t, ok)
}

func TestResolveIdempotent(t *testing.T) {
	db := loadFixture(t).Text()
	r := newTestResolver(t, 16)

	for _, q := range []string{"^N", "wildmenu", "cd", "*", "nonexistent_xyz"} {
		first, firstOK := Resolve(q, db)
		second, secondOK := Resolve(q, db)
		assert.Equal(t, first, second)
		assert.Equal(t, firstOK, secondOK)

		cachedFirst, _ := r.Resolve(q)
		cachedSecond, _ := r.Resolve(q)
		assert.Equal(t, first, cachedFirst)
		assert.Equal(t, first, cachedSecond)
	}
}

func TestResolverCacheMatchesUncached(t *testing.T) {
	cached := newTestResolver(t, 4)
	uncached := newTestResolver(t, 0)
	assert.Nil(t, uncached.cache)

	queries := []string{"^N", "^n", "^X^N", "wildmenu", "wild*", "cd", "'cd", "*", "|", `"`, "zzz", "^N"}
	for _, q := range queries {
		a, aOK := cached.Resolve(q)
		b, bOK := uncached.Resolve(q)
		assert.Equal(t, b, a, "query %q", q)
		assert.Equal(t, bOK, aOK, "query %q", q)
	}
	assert.LessOrEqual(t, cached.cache.Len(), 4)
}

func TestNewResolver(t *testing.T) {
	t.Run("nil database", func(t *testing.T) {
		_, err := NewResolver(nil, Options{})
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		r, err := NewResolver(tagfile.Parse(ctrlNDB), Options{})
		require.NoError(t, err)
		assert.Equal(t, DefaultWorkers, r.workers)
		assert.NotNil(t, r.logger)
		assert.Nil(t, r.cache)
		assert.Equal(t, 2, r.Database().Len())
	})
}

func TestResolverCandidates(t *testing.T) {
	r := newTestResolver(t, 0)

	t.Run("sorted by score", func(t *testing.T) {
		matches, err := r.Candidates("^N", 0)
		require.NoError(t, err)
		require.Len(t, matches, 4)

		assert.Equal(t, "CTRL-N", matches[0].Tag.Name)
		assert.Equal(t, int64(506), matches[0].Score)
		for i := 1; i < len(matches); i++ {
			assert.LessOrEqual(t, matches[i-1].Score, matches[i].Score)
		}
		// c_CTRL-N and i_CTRL-N tie at 10608 and keep database order
		assert.Equal(t, "c_CTRL-N", matches[1].Tag.Name)
		assert.Equal(t, "i_CTRL-N", matches[2].Tag.Name)
	})

	t.Run("limit", func(t *testing.T) {
		matches, err := r.Candidates("wildmenu", 2)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, "'wildmenu'", matches[0].Tag.Name)
		assert.Equal(t, "wildmenumode()", matches[1].Tag.Name)
	})

	t.Run("generation failure", func(t *testing.T) {
		_, err := r.Candidates("\xff", 10)
		assert.ErrorIs(t, err, types.ErrUnsafeEscape)
	})
}

func TestResolverLookup(t *testing.T) {
	r := newTestResolver(t, 0)

	tag, ok := r.Lookup("'wildmenu'")
	require.True(t, ok)
	assert.Equal(t, "options.txt", tag.File)

	_, ok = r.Lookup("wildmenu")
	assert.False(t, ok, "exact lookup does not score")
}

func TestResolveAll(t *testing.T) {
	r := newTestResolver(t, 8)

	resp, err := r.ResolveAll(context.Background(), []string{"wildmenu", "^N", "nonexistent_xyz", "^N", ""})
	require.NoError(t, err)

	require.Len(t, resp.Found, 2)
	assert.Equal(t, "^N", resp.Found[0].Query)
	assert.Equal(t, types.Tag{Name: "CTRL-N", File: "motion.txt"}, resp.Found[0].Tag)
	assert.Equal(t, "https://neovim.io/doc/user/motion.html#CTRL-N", resp.Found[0].URL)
	assert.Equal(t, int64(506), resp.Found[0].Score)
	assert.Equal(t, types.MatchExact, resp.Found[0].Kind)

	assert.Equal(t, "wildmenu", resp.Found[1].Query)
	assert.Equal(t, "'wildmenu'", resp.Found[1].Tag.Name)

	assert.Equal(t, []string{"nonexistent_xyz"}, resp.NotFound)
}

func TestResolveAllEmpty(t *testing.T) {
	r := newTestResolver(t, 0)

	resp, err := r.ResolveAll(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, resp.Found)
	assert.Empty(t, resp.NotFound)
}

func TestResolveAllCancelled(t *testing.T) {
	r := newTestResolver(t, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ResolveAll(ctx, []string{"^N"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolverConcurrentUse(t *testing.T) {
	r := newTestResolver(t, 2)
	queries := []string{"^N", "wildmenu", "cd", "*", "zzz"}

	want := make(map[string]types.Tag)
	for _, q := range queries {
		want[q], _ = Resolve(q, r.Database().Text())
	}

	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q := queries[i%len(queries)]
			got, _ := r.Resolve(q)
			assert.Equal(t, want[q], got, fmt.Sprintf("goroutine %d query %q", i, q))
		}()
	}
	wg.Wait()
}

func TestTokens(t *testing.T) {
	assert.Equal(t, []string{"^N", "cd", "wildmenu"}, Tokens("  wildmenu ^N\tcd  ^N "))
	assert.Empty(t, Tokens("   "))
}
