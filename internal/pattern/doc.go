// Package pattern turns a raw help query into the three search patterns used
// to scan a tag database.
//
// Generation runs in four stages:
//
//  1. Whole-query replacements for operator queries that would otherwise
//     produce degenerate patterns ("*" becomes "star", "g*" becomes "gstar").
//  2. Ordered partial replacements: a double quote becomes "quote", a bar
//     becomes "bar", "^X" becomes "CTRL-X" and adjacent CTRL- tokens are
//     joined with an underscore ("^X^N" becomes "CTRL-X_CTRL-N").
//  3. Literal escaping of every ASCII character that is not a letter, digit
//     or underscore.
//  4. Derivation of the case-insensitive and wildcard variants from the
//     escaped string.
//
// # Basic Usage
//
//	patterns, err := pattern.Generate("^X^N")
//	if err != nil {
//	    return err
//	}
//	// patterns.Escaped  == `CTRL\-X_CTRL\-N`
//	// patterns.ICase    == `[cC][tT][rR][lL]\-[xX]_[cC][tT][rR][lL]\-[nN]`
//	// patterns.Wildcard == `^$`
//
//	m, err := pattern.Compile(patterns)
//
// Patterns use Go regexp (RE2) syntax. A query without '*' or '?' gets the
// wildcard pattern "^$", which only matches an empty tag name.
package pattern
