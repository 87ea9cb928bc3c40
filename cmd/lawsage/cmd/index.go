package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func newIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the search index and report corpus statistics",
		Long: `Load the rule corpus, build the search index, and report what was
indexed. Useful for validating corpus files before serving searches:
parse errors, missing fields, and duplicate rule ids all surface here.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd)
		},
	}
	return cmd
}

func runIndex(cmd *cobra.Command) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	eng, docs, err := buildEngine(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	byJurisdiction := make(map[string]int)
	for _, d := range docs {
		byJurisdiction[d.Jurisdiction]++
	}
	jurisdictions := make([]string, 0, len(byJurisdiction))
	for j := range byJurisdiction {
		jurisdictions = append(jurisdictions, j)
	}
	sort.Strings(jurisdictions)

	out := cmd.OutOrStdout()
	stats := eng.Stats()
	fmt.Fprintf(out, "Indexed %d rule documents (%d distinct terms, avg length %.1f tokens)\n",
		stats.DocumentCount, stats.TermCount, stats.AvgDocLength)
	for _, j := range jurisdictions {
		fmt.Fprintf(out, "  %-30s %d\n", j, byJurisdiction[j])
	}
	return nil
}
