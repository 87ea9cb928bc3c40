package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomwolfe/lawsage/internal/search"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	jurisdiction string
	category     string
	limit        int
	threshold    float64
	lexicalOnly  bool
	noRerank     bool
	format       string // "text", "json"
}

func newSearchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the rule corpus",
		Long: `Search the rule corpus with hybrid retrieval.

BM25 keyword scores and semantic similarity are normalized and fused;
the top candidates are then reranked unless --no-rerank is given.

Examples:
  lawsage search "security deposit return deadline"
  lawsage search "unlawful detainer notice" --jurisdiction California
  lawsage search "discovery deadline" --lexical-only --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd, query, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.jurisdiction, "jurisdiction", "j", "", "Filter semantic matches by jurisdiction")
	cmd.Flags().StringVar(&opts.category, "category", "", "Filter semantic matches by category")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", 0, "Maximum number of results (default from config)")
	cmd.Flags().Float64Var(&opts.threshold, "threshold", 0, "Minimum semantic similarity (provider scale)")
	cmd.Flags().BoolVar(&opts.lexicalOnly, "lexical-only", false, "Use keyword search only (skip semantic search)")
	cmd.Flags().BoolVar(&opts.noRerank, "no-rerank", false, "Skip the rerank pass")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runSearch(cmd *cobra.Command, query string, opts searchOptions) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	eng, _, err := buildEngine(ctx, cfg, logger)
	if err != nil {
		return err
	}

	sc := cfg.SearchConfig()
	if opts.jurisdiction != "" {
		sc.Jurisdiction = opts.jurisdiction
	}
	if opts.category != "" {
		sc.Category = opts.category
	}
	if opts.limit > 0 {
		sc.TopKAfterRerank = opts.limit
		if sc.TopK < opts.limit {
			sc.TopK = opts.limit
		}
	}
	if opts.threshold > 0 {
		sc.SimilarityThreshold = opts.threshold
	}
	if opts.lexicalOnly {
		sc.Weights = &search.Weights{BM25: 1, Vector: 0}
	}
	if opts.noRerank {
		f := false
		sc.UseReranking = &f
	}

	resp, err := eng.SearchWithConfig(ctx, query, sc)
	if err != nil {
		return err
	}

	if opts.format == "json" {
		return printJSON(cmd, resp)
	}
	printText(cmd, resp)
	return nil
}

func printJSON(cmd *cobra.Command, resp *search.Response) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func printText(cmd *cobra.Command, resp *search.Response) {
	out := cmd.OutOrStdout()

	for _, d := range resp.Degradations {
		fmt.Fprintf(out, "warning: %s (%s)\n", d.Reason, d.Detail)
	}
	if len(resp.Results) == 0 {
		fmt.Fprintln(out, "No matching rules found.")
		return
	}

	for i, r := range resp.Results {
		doc := r.Document
		fmt.Fprintf(out, "%d. [%s] %s (score %.3f)\n", i+1, doc.Citation(), doc.Title, r.FusedScore)
		if doc.Jurisdiction != "" {
			fmt.Fprintf(out, "   Jurisdiction: %s\n", doc.Jurisdiction)
		}
		if doc.Description != "" {
			fmt.Fprintf(out, "   %s\n", doc.Description)
		}
	}
}
