package types

// MatchKind identifies which search pattern produced a match
type MatchKind string

const (
	MatchExact    MatchKind = "exact"    // Escaped literal pattern
	MatchICase    MatchKind = "icase"    // Case-insensitive pattern
	MatchWildcard MatchKind = "wildcard" // Glob-style pattern
)

// Score bonuses per match kind
const (
	ExactBonus    int64 = 0
	ICaseBonus    int64 = 5000
	WildcardBonus int64 = 20000
)

// Bonus returns the base score contributed by the match kind
func (k MatchKind) Bonus() int64 {
	switch k {
	case MatchICase:
		return ICaseBonus
	case MatchWildcard:
		return WildcardBonus
	default:
		return ExactBonus
	}
}

// Match is a scored candidate produced by a single scan
type Match struct {
	Tag      Tag
	Score    int64
	Kind     MatchKind
	Position int // Rune index of the match start within Tag.Name
}
