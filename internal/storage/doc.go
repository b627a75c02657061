// Package storage provides SQLite-based persistence for help lookup history.
//
// The storage layer records every resolution served by the MCP server or the
// CLI so that frequent queries and frequent misses can be reported. The
// resolver never reads it back; resolution stays a pure function of the query
// and the tag database.
//
// # Database Schema
//
// Tables:
//   - schema_version: Applied migrations
//   - lookups: One row per resolved or unresolved query
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("/home/me/.vimhelp/history.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	err = db.RecordLookups(ctx, []*storage.Lookup{
//	    {Query: "^N", TagName: "CTRL-N", TagFile: "motion.txt", Found: true, Score: 506},
//	    {Query: "nonexistent", Found: false},
//	})
//
//	stats, err := db.GetStats(ctx)
//	misses, err := db.TopMisses(ctx, 10)
//
// # Build Modes
//
// The default build uses modernc.org/sqlite (pure Go, no C compiler needed).
// Building with -tags sqlite_cgo switches to github.com/mattn/go-sqlite3:
//
//	CGO_ENABLED=1 go build -tags sqlite_cgo ./...
//
// # Migrations
//
// Schema versions are semantic versions applied in order by ApplyMigrations;
// RollbackMigration undoes the most recent one.
package storage
