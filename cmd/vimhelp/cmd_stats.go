package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show lookup history statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			history, err := openHistory(cfg)
			if err != nil {
				return err
			}
			if history == nil {
				fmt.Fprintln(out, "lookup history is disabled")
				return nil
			}
			defer history.Close()

			ctx := cmd.Context()
			stats, err := history.GetStats(ctx)
			if err != nil {
				return err
			}
			misses, err := history.TopMisses(ctx, limit)
			if err != nil {
				return err
			}
			tags, err := history.TopTags(ctx, limit)
			if err != nil {
				return err
			}

			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"total_lookups":  stats.TotalLookups,
					"found_lookups":  stats.FoundLookups,
					"missed_lookups": stats.MissedLookups,
					"unique_queries": stats.UniqueQueries,
					"unique_tags":    stats.UniqueTags,
					"hit_rate":       stats.HitRate(),
					"top_misses":     misses,
					"top_tags":       tags,
				})
			}

			fmt.Fprintf(out, "Lookups:        %d (%d found, %d missed, %.0f%% hit rate)\n",
				stats.TotalLookups, stats.FoundLookups, stats.MissedLookups, stats.HitRate()*100)
			fmt.Fprintf(out, "Unique queries: %d\n", stats.UniqueQueries)
			fmt.Fprintf(out, "Unique tags:    %d\n", stats.UniqueTags)
			if stats.FirstLookupAt != nil && stats.LastLookupAt != nil {
				fmt.Fprintf(out, "Period:         %s to %s\n",
					stats.FirstLookupAt.Format(time.RFC3339), stats.LastLookupAt.Format(time.RFC3339))
			}

			if len(tags) > 0 {
				fmt.Fprintln(out, "\nTop tags:")
				for _, t := range tags {
					fmt.Fprintf(out, "  %4d  %s (%s)\n", t.Count, t.Name, t.File)
				}
			}
			if len(misses) > 0 {
				fmt.Fprintln(out, "\nTop misses:")
				for _, m := range misses {
					fmt.Fprintf(out, "  %4d  %s\n", m.Count, m.Query)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int("limit", 10, "Number of top tags and misses to show")
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}
