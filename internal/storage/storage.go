package storage

import (
	"context"
	"time"

	"github.com/dshills/vimhelp-mcp/internal/searcher"
)

// Storage defines the interface for persisting and querying lookup history
type Storage interface {
	// Lookup operations
	RecordLookup(ctx context.Context, lookup *Lookup) error
	RecordLookups(ctx context.Context, lookups []*Lookup) error

	// Statistics
	GetStats(ctx context.Context) (*LookupStats, error)
	TopMisses(ctx context.Context, limit int) ([]QueryCount, error)
	TopTags(ctx context.Context, limit int) ([]TagCount, error)

	// Database operations
	Close() error
}

// Lookup is one recorded resolution
type Lookup struct {
	ID        int64
	Query     string
	TagName   string // Empty when not found
	TagFile   string // Empty when not found
	Found     bool
	Score     int64
	Source    string // "mcp" or "cli"
	CreatedAt time.Time
}

// LookupStats summarizes the lookup history
type LookupStats struct {
	TotalLookups  int
	FoundLookups  int
	MissedLookups int
	UniqueQueries int
	UniqueTags    int
	FirstLookupAt *time.Time // Nil when history is empty
	LastLookupAt  *time.Time
}

// HitRate returns the share of lookups that resolved to a tag
func (s *LookupStats) HitRate() float64 {
	if s.TotalLookups == 0 {
		return 0
	}
	return float64(s.FoundLookups) / float64(s.TotalLookups)
}

// QueryCount is a query and how often it was looked up
type QueryCount struct {
	Query string `json:"query"`
	Count int    `json:"count"`
}

// TagCount is a tag and how often lookups resolved to it
type TagCount struct {
	Name  string `json:"name"`
	File  string `json:"file"`
	Count int    `json:"count"`
}

// LookupsFromResponse converts a resolver response into history records, found
// queries first
func LookupsFromResponse(resp *searcher.Response, source string) []*Lookup {
	if resp == nil {
		return nil
	}

	lookups := make([]*Lookup, 0, len(resp.Found)+len(resp.NotFound))
	for _, r := range resp.Found {
		lookups = append(lookups, &Lookup{
			Query:   r.Query,
			TagName: r.Tag.Name,
			TagFile: r.Tag.File,
			Found:   true,
			Score:   r.Score,
			Source:  source,
		})
	}
	for _, q := range resp.NotFound {
		lookups = append(lookups, &Lookup{
			Query:  q,
			Source: source,
		})
	}
	return lookups
}
