// Package scanner walks a tag database and scores every tag that matches a
// query's search patterns.
//
// The whole database is scanned on every call. No index is built: scoring
// needs every candidate to find the minimum, and the database is small.
package scanner

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dshills/vimhelp-mcp/internal/pattern"
	"github.com/dshills/vimhelp-mcp/pkg/types"
)

// Scoring constants
const (
	LetterScore    int64 = 100   // Per ASCII letter in the tag name
	WordBonus      int64 = 10000 // Match preceded by two word characters
	DeepMultiplier int64 = 200   // Match deep inside an unrelated prefix
)

// Result holds the candidates of one scan
type Result struct {
	Matches []types.Match // In database line order
	Lines   int           // Lines examined before the sentinel or end of text
	Skipped int           // Malformed lines that were ignored
}

// Scan matches every line of db against m. Scanning stops at the first empty
// line or the end of the text. Lines without a name and file field are skipped.
func Scan(db string, m *pattern.Matcher) Result {
	var res Result

	for rest := db; rest != ""; {
		var line string
		line, rest, _ = strings.Cut(rest, "\n")
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			break
		}
		res.Lines++

		tag, err := types.ParseTagLine(line)
		if err != nil {
			res.Skipped++
			continue
		}

		kind, offset, ok := m.Match(tag.Name)
		if !ok {
			continue
		}

		pos := utf8.RuneCountInString(tag.Name[:offset])
		res.Matches = append(res.Matches, types.Match{
			Tag:      tag,
			Score:    Score(tag.Name, kind, pos),
			Kind:     kind,
			Position: pos,
		})
	}

	return res
}

// Score computes the score of a tag name matched by kind at rune index pos
func Score(name string, kind types.MatchKind, pos int) int64 {
	runes := []rune(name)

	score := kind.Bonus() + int64(len(runes))
	for _, r := range runes {
		if r < utf8.RuneSelf && unicode.IsLetter(r) {
			score += LetterScore
		}
	}

	switch {
	case pos > 1 && pos <= len(runes) && isWord(runes[pos-2]) && isWord(runes[pos-1]):
		score += WordBonus
	case pos > 3:
		score *= DeepMultiplier
	}

	return score
}

func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
