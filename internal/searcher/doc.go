// Package searcher resolves help queries to the single best tag of a Neovim
// help-tag database.
//
// Resolution generates the query's search patterns, scans the whole database
// and picks the candidate with the lowest score:
//
//	tag, ok := searcher.Resolve("^X^N", tagsText)
//	// tag.Name == "i_CTRL-X_CTRL-N", tag.File == "insert.txt"
//	fmt.Println(tag.URL())
//
// # Resolver
//
// Resolver wraps a loaded tagfile.Database for long-running processes:
//
//	db, err := tagfile.Load(tagfile.DefaultPath)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	r, err := searcher.NewResolver(db, searcher.Options{CacheSize: 512, Workers: 4})
//
//	resp, err := r.ResolveAll(ctx, searcher.Tokens("^N wildmenu nonexistent"))
//	for _, res := range resp.Found {
//	    fmt.Printf("%s -> %s\n", res.Query, res.URL)
//	}
//	fmt.Println("not found:", resp.NotFound)
//
// Results are cached in an LRU keyed by query. Resolution is deterministic
// over an immutable database, so a cached answer is always the one a fresh
// scan would produce.
//
// # Selection Rule
//
// The lowest score wins and ties go to the first candidate in database order.
// Case-insensitive (+5000), wildcard (+20000) and word-boundary (+10000)
// bonuses all raise a score, so they push a candidate away from selection.
//
// # Scanning
//
// Every query scans every line. There is no index, since short-circuiting a
// scan would change which candidate has the minimum score.
package searcher
