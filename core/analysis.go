package core

import (
	"context"
	"time"

	"github.com/huangsam/repoaudit/core/agg"
	"github.com/huangsam/repoaudit/core/algo"
	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/schema"
)

// windowStart returns the start of a lookback window of the given days.
func windowStart(now time.Time, days int) time.Time {
	return now.UTC().AddDate(0, 0, -days)
}

// AnalyzeCommits aggregates the commit log over the last windowDays.
// A failed query yields zero counts with empty maps and lists.
func AnalyzeCommits(ctx context.Context, client contract.GitClient, repoPath string, windowDays int, now time.Time) schema.CommitAnalytics {
	out, err := client.GetCommitLog(ctx, repoPath, windowStart(now, windowDays))
	if err != nil {
		contract.LogWarn("Failed to read commit log", err)
		out = ""
	}
	return agg.AggregateCommits(out, windowDays)
}

// AnalyzeChurn ranks the files with the most line churn over the last windowDays.
// A failed query yields an empty list.
func AnalyzeChurn(ctx context.Context, client contract.GitClient, repoPath string, windowDays, limit int, now time.Time) schema.ChurnReport {
	report := schema.ChurnReport{WindowDays: windowDays, TopFiles: []schema.FileChurnStat{}}
	out, err := client.GetNumstatLog(ctx, repoPath, windowStart(now, windowDays))
	if err != nil {
		contract.LogWarn("Failed to read numstat log", err)
		return report
	}
	report.TopFiles = algo.RankChurn(agg.AggregateChurn(out), limit)
	return report
}

// SummarizeContributors returns the lifetime top contributors of HEAD.
// A failed query yields a zero total and an empty list.
func SummarizeContributors(ctx context.Context, client contract.GitClient, repoPath string) schema.ContributorSummary {
	out, err := client.GetShortlog(ctx, repoPath)
	if err != nil {
		contract.LogWarn("Failed to read shortlog", err)
		out = ""
	}
	return agg.ParseShortlog(out)
}
