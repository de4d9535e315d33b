package cmd

import (
	"github.com/huangsam/repoaudit/core"
	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/internal/history"
	"github.com/huangsam/repoaudit/schema"
	"github.com/spf13/cobra"
)

// reportCmd audits a repository and writes both report files.
var reportCmd = &cobra.Command{
	Use:   "report [repo-path]",
	Short: "Audit a repository and write REPO_REPORT.md and REPO_REPORT.json.",
	Long: `The report command runs a one-shot audit of a git repository.

It collects:
- Repository metadata (branches, HEAD, tags, remotes)
- Commit analytics with Conventional Commits classification
- Churn hot-spots over the churn window
- Tech debt: TODO/FIXME markers, secret-like strings, committed .env files, large files
- Contributors and language breakdown
- Dependency audits for npm, pip and Go modules (with --deep)

Both reports are written to the current working directory unless
--out-md and --out-json say otherwise. When a history backend is
configured the run is also recorded for later export.

Examples:
  # Audit the repository in the current directory
  repoaudit report

  # Audit another checkout with dependency audits enabled
  repoaudit report ../service --deep

  # Look back one quarter and keep the console quiet
  repoaudit report --window 90 --quiet

  # Record the run into a local SQLite history
  repoaudit report --history-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		store := openHistoryStore()
		defer func() {
			if err := store.Close(); err != nil {
				contract.LogWarn("Failed to close history store", err)
			}
		}()

		runner := contract.NewExecRunner()
		client := contract.NewLocalGitClient(runner)
		if _, err := core.ExecuteReport(cmd.Context(), cfg, client, runner, store); err != nil {
			contract.LogFatal("Cannot run report", err)
		}
	},
}

// openHistoryStore opens the configured history backend. The report still gets
// written when the backend is unreachable, so failures degrade to no history.
func openHistoryStore() contract.HistoryStore {
	store, err := history.NewStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
	if err == nil {
		return store
	}
	contract.LogWarn("History disabled for this run", err)
	fallback, _ := history.NewStore(schema.NoneBackend, "")
	return fallback
}
