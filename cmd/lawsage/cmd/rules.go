package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomwolfe/lawsage/internal/rules"
)

func newRulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules <jurisdiction>",
		Short: "List the loaded rules for a jurisdiction",
		Long: `List the corpus rules for a jurisdiction as a formatted block,
the same text handed to downstream prompt assembly.

Examples:
  lawsage rules California`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRules(cmd, strings.Join(args, " "))
		},
	}
	return cmd
}

func runRules(cmd *cobra.Command, jurisdiction string) error {
	cfg, _, err := loadConfig()
	if err != nil {
		return err
	}

	docs, err := rules.LoadDir(cfg.Corpus.Dir)
	if err != nil {
		return err
	}

	var matched []rules.Document
	needle := strings.ToLower(jurisdiction)
	for _, d := range docs {
		if strings.Contains(strings.ToLower(d.Jurisdiction), needle) {
			matched = append(matched, d)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), rules.FormatRules(jurisdiction, matched))
	return nil
}
