// Package core has core logic for auditing a repository and assembling the report.
package core

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/internal/outwriter"
	"github.com/huangsam/repoaudit/schema"
)

// ErrNotRepository is returned when the audited path is not inside a git work tree.
var ErrNotRepository = contract.ErrNotRepository

// ExecuteReport runs the audit, writes the JSON and Markdown reports, records the
// run when a history store is configured and prints the console summary.
// It serves as the main entry point for the 'report' command.
func ExecuteReport(ctx context.Context, cfg *contract.Config, client contract.GitClient, runner contract.Runner, store contract.HistoryStore) (*schema.Report, error) {
	start := time.Now()
	report, err := BuildReport(ctx, client, runner, cfg)
	if err != nil {
		return nil, err
	}

	ow := outwriter.NewOutWriter()
	if err := ow.WriteReports(report, cfg.OutMarkdown, cfg.OutJSON); err != nil {
		return nil, err
	}

	// History failures never touch the files already written
	if store != nil {
		if runID, err := store.RecordRun(cfg.RepoPath, report); err != nil {
			contract.LogWarn("Failed to record run history", err)
		} else if runID > 0 {
			contract.Logger.WithField("run_id", runID).Debug("recorded run")
		}
	}

	if !cfg.Quiet {
		if err := ow.WriteSummary(report, cfg, time.Since(start)); err != nil {
			return nil, err
		}
	}
	fmt.Fprintf(os.Stdout, "Wrote %s and %s\n", cfg.OutMarkdown, cfg.OutJSON)
	return report, nil
}
