package schema

import "time"

// RunRecord represents a row from the repoaudit_runs table.
type RunRecord struct {
	RunID              int64
	RepoPath           string
	HeadSHA            *string
	Branch             *string
	GeneratedAt        time.Time
	WindowDays         int32
	TotalCommitsWindow int32
	ActiveDays         int32
	TodoCount          int32
	SecretCount        int32
	EnvFileCount       int32
	LargeFileCount     int32
	QuickWinCount      int32
}

// HotspotRecord represents a row from the repoaudit_churn_hotspots table.
type HotspotRecord struct {
	RunID       int64
	Rank        int32
	FilePath    string
	Added       int32
	Deleted     int32
	Touches     int32
	GeneratedAt time.Time
}

// NewRunRecord flattens a report into the row stored for one run.
func NewRunRecord(repoPath string, r *Report) RunRecord {
	return RunRecord{
		RepoPath:           repoPath,
		HeadSHA:            r.Metadata.HeadSHA,
		Branch:             r.Metadata.CurrentBranch,
		GeneratedAt:        r.GeneratedAt,
		WindowDays:         int32(r.CommitAnalytics.WindowDays),
		TotalCommitsWindow: int32(r.CommitAnalytics.TotalCommitsWindow),
		ActiveDays:         int32(r.CommitAnalytics.ActiveDays),
		TodoCount:          int32(len(r.Debt.TodoFixme)),
		SecretCount:        int32(len(r.Debt.SecretHits)),
		EnvFileCount:       int32(len(r.Debt.EnvFilesCommitted)),
		LargeFileCount:     int32(len(r.Debt.LargeFiles)),
		QuickWinCount:      int32(len(r.QuickWins)),
	}
}
