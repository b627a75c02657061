package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newCandidatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "candidates <query>",
		Short: "Show the ranked candidate tags for one query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			resolver, err := openResolver(cfg, newLogger(cmd, cfg))
			if err != nil {
				return err
			}

			matches, err := resolver.Candidates(args[0], limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				type entry struct {
					Name     string `json:"name"`
					File     string `json:"file"`
					Score    int64  `json:"score"`
					Kind     string `json:"kind"`
					Position int    `json:"position"`
				}
				entries := make([]entry, 0, len(matches))
				for _, m := range matches {
					entries = append(entries, entry{
						Name: m.Tag.Name, File: m.Tag.File, Score: m.Score, Kind: string(m.Kind), Position: m.Position,
					})
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			if len(matches) == 0 {
				fmt.Fprintf(out, "no candidates for %q\n", args[0])
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SCORE\tKIND\tPOS\tNAME\tFILE")
			for _, m := range matches {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", m.Score, m.Kind, m.Position, m.Tag.Name, m.Tag.File)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int("limit", 10, "Maximum number of candidates (0 for all)")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}
