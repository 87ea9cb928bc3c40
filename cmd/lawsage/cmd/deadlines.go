package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tomwolfe/lawsage/internal/rules"
)

func newDeadlinesCmd() *cobra.Command {
	var checklist bool

	cmd := &cobra.Command{
		Use:   "deadlines <jurisdiction>",
		Short: "Show procedural deadlines for a jurisdiction",
		Long: `Show the procedural deadlines tracked for a jurisdiction.

Matching is fuzzy: "Superior Court of California" matches the
California entry.

Examples:
  lawsage deadlines California
  lawsage deadlines "Federal (9th Circuit)" --checklist`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jurisdiction := strings.Join(args, " ")
			table := rules.NewDeadlineTable()

			if checklist {
				for _, item := range table.Checklist(jurisdiction) {
					fmt.Fprintf(cmd.OutOrStdout(), "- [ ] %s\n", item)
				}
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.Guide(jurisdiction))
			return nil
		},
	}

	cmd.Flags().BoolVar(&checklist, "checklist", false, "Print deadlines as a checklist")

	return cmd
}
