package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/repoaudit/schema"
	"github.com/spf13/cobra"
)

// validateCmd checks a JSON report against the published schema.
var validateCmd = &cobra.Command{
	Use:   "validate <report.json>",
	Short: "Validate a JSON report against the report schema.",
	Long: `The validate command checks that a JSON report matches the schema that
repoaudit writes. Every violation is printed with the offending field.
The command exits non-zero when the report is invalid, which makes it
usable as a CI gate for reports produced by other versions.

Examples:
  # Validate the report in the current directory
  repoaudit validate REPO_REPORT.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read report: %w", err)
		}
		violations, err := schema.ValidateReportJSON(data)
		if err != nil {
			return err
		}
		if len(violations) > 0 {
			for _, v := range violations {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", v)
			}
			return fmt.Errorf("%s has %d schema violation(s)", args[0], len(violations))
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is a valid report.\n", args[0])
		return nil
	},
}
