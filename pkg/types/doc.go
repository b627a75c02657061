// Package types provides shared type definitions for the vimhelp MCP server.
//
// This package defines the domain types used across the pattern generator, the
// tag database scanner and the resolution facade.
//
// # Core Types
//
// Tag is one entry of a Neovim help-tag database (the runtime doc/tags file).
// Each line of that file is tab-separated and only the first two fields matter:
//
//	CTRL-N	motion.txt	/*CTRL-N*
//
//	tag, err := types.ParseTagLine("CTRL-N\tmotion.txt\t/*CTRL-N*")
//	// tag.Name == "CTRL-N", tag.File == "motion.txt"
//	fmt.Println(tag.URL())
//	// https://neovim.io/doc/user/motion.html#CTRL-N
//
// Match pairs a Tag with the score it received during a scan:
//
//	match := types.Match{
//	    Tag:      tag,
//	    Score:    506,
//	    Kind:     types.MatchExact,
//	    Position: 0,
//	}
//
// # Scores
//
// Scores are integers. A case-insensitive match adds 5000 and a wildcard match
// adds 20000 on top of the common score. The resolver selects the lowest
// score, so the kind bonuses act as penalties.
package types
