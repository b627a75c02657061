package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/vimhelp-mcp/internal/searcher"
	"github.com/dshills/vimhelp-mcp/internal/storage"
)

func newLookupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <query>...",
		Short: "Resolve help queries to tags and URLs",
		Example: `  vimhelp lookup '^N' wildmenu
  vimhelp lookup --json ':cd'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jsonOut, _ := cmd.Flags().GetBool("json")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger := newLogger(cmd, cfg)

			resolver, err := openResolver(cfg, logger)
			if err != nil {
				return err
			}

			var tokens []string
			for _, arg := range args {
				tokens = append(tokens, searcher.Tokens(arg)...)
			}

			resp, err := resolver.ResolveAll(cmd.Context(), tokens)
			if err != nil {
				return fmt.Errorf("resolution failed: %w", err)
			}

			history, err := openHistory(cfg)
			if err != nil {
				logger.Warn("lookup history unavailable", "error", err)
			} else if history != nil {
				defer history.Close()
				if err := history.RecordLookups(cmd.Context(), storage.LookupsFromResponse(resp, historySource)); err != nil {
					logger.Warn("failed to record lookup history", "error", err)
				}
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				type entry struct {
					Query string `json:"query"`
					Name  string `json:"name"`
					File  string `json:"file"`
					URL   string `json:"url"`
				}
				found := make([]entry, 0, len(resp.Found))
				for _, r := range resp.Found {
					found = append(found, entry{Query: r.Query, Name: r.Tag.Name, File: r.Tag.File, URL: r.URL})
				}
				notFound := resp.NotFound
				if notFound == nil {
					notFound = []string{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"found":     found,
					"not_found": notFound,
				})
			}

			for _, r := range resp.Found {
				fmt.Fprintf(out, "%s\t%s\t%s\n", r.Tag.Name, r.Tag.File, r.URL)
			}
			for _, q := range resp.NotFound {
				fmt.Fprintf(out, "no help tag for %q\n", q)
			}
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}
