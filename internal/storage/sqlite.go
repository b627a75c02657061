package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrInvalidLookup is returned when a lookup record is missing required fields
	ErrInvalidLookup = errors.New("invalid lookup")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db  *sql.DB
	now func() time.Time
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db, now: time.Now}, nil
}

// Open creates the parent directory of dbPath if needed and opens the history
// database there
func Open(dbPath string) (*SQLiteStorage, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return NewSQLiteStorage(dbPath)
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Lookup operations

// recordLookupWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) recordLookupWithQuerier(ctx context.Context, q querier, lookup *Lookup) error {
	if lookup == nil || lookup.Query == "" {
		return ErrInvalidLookup
	}
	if lookup.Found && lookup.TagName == "" {
		return fmt.Errorf("%w: found lookup without tag name", ErrInvalidLookup)
	}

	query := `
		INSERT INTO lookups (query, tag_name, tag_file, found, score, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	createdAt := lookup.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}
	result, err := q.ExecContext(ctx, query,
		lookup.Query, nullString(lookup.TagName), nullString(lookup.TagFile),
		lookup.Found, lookup.Score, lookup.Source, createdAt)
	if err != nil {
		return fmt.Errorf("failed to record lookup: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	lookup.ID = id
	lookup.CreatedAt = createdAt
	return nil
}

func (s *SQLiteStorage) RecordLookup(ctx context.Context, lookup *Lookup) error {
	return s.recordLookupWithQuerier(ctx, s.querier(), lookup)
}

// RecordLookups records a batch of lookups in a single transaction
func (s *SQLiteStorage) RecordLookups(ctx context.Context, lookups []*Lookup) error {
	if len(lookups) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, lookup := range lookups {
		if err := s.recordLookupWithQuerier(ctx, tx, lookup); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit lookups: %w", err)
	}
	return nil
}

// Statistics

// GetStats summarizes the whole lookup history
func (s *SQLiteStorage) GetStats(ctx context.Context) (*LookupStats, error) {
	q := s.querier()
	stats := &LookupStats{}

	query := `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN found THEN 1 ELSE 0 END), 0),
		       COUNT(DISTINCT query),
		       COUNT(DISTINCT tag_name)
		FROM lookups
	`
	err := q.QueryRowContext(ctx, query).Scan(
		&stats.TotalLookups, &stats.FoundLookups, &stats.UniqueQueries, &stats.UniqueTags)
	if err != nil {
		return nil, fmt.Errorf("failed to get lookup stats: %w", err)
	}
	stats.MissedLookups = stats.TotalLookups - stats.FoundLookups

	if stats.TotalLookups == 0 {
		return stats, nil
	}

	first, err := lookupTime(ctx, q, "SELECT created_at FROM lookups ORDER BY id ASC LIMIT 1")
	if err != nil {
		return nil, err
	}
	last, err := lookupTime(ctx, q, "SELECT created_at FROM lookups ORDER BY id DESC LIMIT 1")
	if err != nil {
		return nil, err
	}
	stats.FirstLookupAt = first
	stats.LastLookupAt = last

	return stats, nil
}

// TopMisses returns the queries that most often failed to resolve
func (s *SQLiteStorage) TopMisses(ctx context.Context, limit int) ([]QueryCount, error) {
	query := `
		SELECT query, COUNT(*) AS hits
		FROM lookups
		WHERE found = 0
		GROUP BY query
		ORDER BY hits DESC, query ASC
		LIMIT ?
	`
	rows, err := s.querier().QueryContext(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query top misses: %w", err)
	}
	defer rows.Close()

	var counts []QueryCount
	for rows.Next() {
		var c QueryCount
		if err := rows.Scan(&c.Query, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// TopTags returns the tags that lookups most often resolved to
func (s *SQLiteStorage) TopTags(ctx context.Context, limit int) ([]TagCount, error) {
	query := `
		SELECT tag_name, COALESCE(tag_file, ''), COUNT(*) AS hits
		FROM lookups
		WHERE found = 1
		GROUP BY tag_name, tag_file
		ORDER BY hits DESC, tag_name ASC
		LIMIT ?
	`
	rows, err := s.querier().QueryContext(ctx, query, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query top tags: %w", err)
	}
	defer rows.Close()

	var counts []TagCount
	for rows.Next() {
		var c TagCount
		if err := rows.Scan(&c.Name, &c.File, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Helper functions

func lookupTime(ctx context.Context, q querier, query string) (*time.Time, error) {
	var t sql.NullTime
	if err := q.QueryRowContext(ctx, query).Scan(&t); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read lookup time: %w", err)
	}
	if !t.Valid {
		return nil, nil
	}
	return &t.Time, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

const (
	defaultLimit = 10
	maxLimit     = 100
)

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
