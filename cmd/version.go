package cmd

import (
	"runtime"

	"github.com/huangsam/repoaudit/internal/history"
	"github.com/huangsam/repoaudit/schema"
	"github.com/spf13/cobra"
)

// versionCmd prints build details along with the report and history formats this binary speaks.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print repoaudit build and format versions.",
	Long: `Display the release, commit and build date of this binary, the Go runtime
it was built with, and the formats it reads and writes:

- Report files: the default Markdown and JSON names
- History schema: the migration version that "history migrate" ends at

Include this output when reporting a problem with a report or the history store.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("repoaudit %s (commit %s, built %s, %s)\n", version, commit, date, runtime.Version())
		cmd.Printf("  Reports:        %s, %s\n", schema.DefaultMarkdownFile, schema.DefaultJSONFile)
		cmd.Printf("  History schema: v%d\n", history.LatestSchemaVersion)
	},
}
