package searcher

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/dshills/vimhelp-mcp/internal/logging"
	"github.com/dshills/vimhelp-mcp/internal/pattern"
	"github.com/dshills/vimhelp-mcp/internal/scanner"
	"github.com/dshills/vimhelp-mcp/internal/tagfile"
	"github.com/dshills/vimhelp-mcp/pkg/types"
)

// DefaultWorkers bounds concurrent resolutions in ResolveAll
const DefaultWorkers = 4

// Resolve returns the best tag for query in the tags text db.
// It reports false when the query cannot be turned into patterns or nothing matches.
func Resolve(query, db string) (types.Tag, bool) {
	matches, err := Candidates(query, db)
	if err != nil {
		return types.Tag{}, false
	}
	best, ok := Best(matches)
	return best.Tag, ok
}

// Candidates returns every scored candidate for query, in database order
func Candidates(query, db string) ([]types.Match, error) {
	m, err := pattern.New(query)
	if err != nil {
		return nil, err
	}
	return scanner.Scan(db, m).Matches, nil
}

// Best returns the match with the lowest score, keeping the first of equal scores
func Best(matches []types.Match) (types.Match, bool) {
	if len(matches) == 0 {
		return types.Match{}, false
	}

	best := matches[0]
	for _, m := range matches[1:] {
		if m.Score < best.Score {
			best = m
		}
	}
	return best, true
}

// Tokens splits free-form text into unique lookup tokens, sorted
func Tokens(text string) []string {
	return normalizeTokens(strings.Fields(text))
}

// Options configures a Resolver
type Options struct {
	CacheSize int // Cached queries, 0 disables the cache
	Workers   int // Concurrent resolutions in ResolveAll
	Logger    *slog.Logger
}

// Resolution is a query and the tag it resolved to
type Resolution struct {
	Query string
	Tag   types.Tag
	URL   string
	Score int64
	Kind  types.MatchKind
}

// Response contains the outcome of resolving several tokens
type Response struct {
	Found    []Resolution
	NotFound []string
	Duration time.Duration
}

// cacheEntry is a cached resolution; found is false for cached misses
type cacheEntry struct {
	match types.Match
	found bool
}

// Resolver resolves queries against a loaded tag database
type Resolver struct {
	db      *tagfile.Database
	cache   *lru.Cache[string, cacheEntry]
	workers int
	logger  *slog.Logger
}

// NewResolver creates a Resolver over db
func NewResolver(db *tagfile.Database, opts Options) (*Resolver, error) {
	if db == nil {
		return nil, fmt.Errorf("tag database is required")
	}

	r := &Resolver{
		db:      db,
		workers: opts.Workers,
		logger:  opts.Logger,
	}
	if r.workers <= 0 {
		r.workers = DefaultWorkers
	}
	if r.logger == nil {
		r.logger = slog.New(slog.DiscardHandler)
	}

	if opts.CacheSize > 0 {
		cache, err := lru.New[string, cacheEntry](opts.CacheSize)
		if err != nil {
			return nil, fmt.Errorf("failed to create LRU cache: %w", err)
		}
		r.cache = cache
	}

	return r, nil
}

// Database returns the underlying tag database
func (r *Resolver) Database() *tagfile.Database {
	return r.db
}

// Resolve returns the best tag for query
func (r *Resolver) Resolve(query string) (types.Tag, bool) {
	m, ok := r.resolveMatch(query)
	return m.Tag, ok
}

// Lookup finds a tag by its exact name without scoring
func (r *Resolver) Lookup(name string) (types.Tag, bool) {
	return r.db.Lookup(name)
}

// Candidates returns up to limit candidates for query, lowest score first.
// A limit <= 0 returns all of them.
func (r *Resolver) Candidates(query string, limit int) ([]types.Match, error) {
	matches, err := Candidates(query, r.db.Text())
	if err != nil {
		return nil, fmt.Errorf("failed to generate patterns for %q: %w", query, err)
	}

	slices.SortStableFunc(matches, func(a, b types.Match) int {
		return cmp.Compare(a.Score, b.Score)
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// ResolveAll resolves each unique token. Found and NotFound follow sorted token order.
func (r *Resolver) ResolveAll(ctx context.Context, tokens []string) (*Response, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tokens = normalizeTokens(tokens)
	results := make([]cacheEntry, len(tokens))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)

	for i, token := range tokens {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m, ok := r.resolveMatch(token)
			results[i] = cacheEntry{match: m, found: ok}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	resp := &Response{}
	for i, token := range tokens {
		if !results[i].found {
			resp.NotFound = append(resp.NotFound, token)
			continue
		}
		m := results[i].match
		resp.Found = append(resp.Found, Resolution{
			Query: token,
			Tag:   m.Tag,
			URL:   m.Tag.URL(),
			Score: m.Score,
			Kind:  m.Kind,
		})
	}
	resp.Duration = time.Since(start)

	return resp, nil
}

// resolveMatch resolves query through the cache
func (r *Resolver) resolveMatch(query string) (types.Match, bool) {
	if r.cache != nil {
		if entry, ok := r.cache.Get(query); ok {
			return entry.match, entry.found
		}
	}

	start := time.Now()
	entry := r.scan(query)

	if entry.found {
		r.logger.Debug("resolved help query",
			"query", query,
			"tag", entry.match.Tag.Name,
			"file", entry.match.Tag.File,
			"score", entry.match.Score,
			"kind", entry.match.Kind,
			"duration", time.Since(start))
	} else {
		r.logger.Debug("no help tag for query", "query", query, "duration", time.Since(start))
	}

	if r.cache != nil {
		r.cache.Add(query, entry)
	}
	return entry.match, entry.found
}

func (r *Resolver) scan(query string) cacheEntry {
	m, err := pattern.New(query)
	if err != nil {
		r.logger.Debug("cannot generate search patterns", "query", query, "error", err)
		return cacheEntry{}
	}

	res := scanner.Scan(r.db.Text(), m)
	r.logger.Log(context.Background(), logging.LevelTrace, "scanned tag database",
		"query", query,
		"lines", res.Lines,
		"skipped", res.Skipped,
		"matches", len(res.Matches))

	best, ok := Best(res.Matches)
	return cacheEntry{match: best, found: ok}
}

// normalizeTokens drops empty tokens, sorts and removes duplicates
func normalizeTokens(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			out = append(out, t)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
