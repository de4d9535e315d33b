// Package schema has the report models, constants and the embedded report schema for all parts of repoaudit.
package schema

import "time"

// Report is the aggregate result of a single audit run.
// It is built once and then rendered as JSON and as Markdown.
type Report struct {
	Metadata        RepositoryMetadata `json:"metadata"`
	CommitAnalytics CommitAnalytics    `json:"commit_analytics"`
	Churn           ChurnReport        `json:"churn"`
	Debt            DebtReport         `json:"debt"`
	Contributors    ContributorSummary `json:"contributors"`
	Languages       LanguageBreakdown  `json:"languages"`
	Audits          Audits             `json:"audits"`
	GeneratedAt     time.Time          `json:"generated_at"`
	QuickWins       []string           `json:"quick_wins"`
}

// RepositoryMetadata is an identity snapshot of the repository.
// Every scalar is a pointer: nil means the underlying git query failed.
type RepositoryMetadata struct {
	GitDir         *string             `json:"git_dir"`
	WorkTree       *string             `json:"work_tree"`
	CurrentBranch  *string             `json:"current_branch"`
	HeadSHA        *string             `json:"head_sha"`
	TagCount       *int                `json:"tag_count"`
	LastCommitDate *string             `json:"last_commit_date"`
	CommitCount    *int                `json:"commit_count"`
	Remotes        map[string][]string `json:"remotes"`
	DefaultBranch  *string             `json:"default_branch"`
}

// CommitRecord is one parsed line of the commit log.
type CommitRecord struct {
	FullSHA string `json:"-"`
	SHA     string `json:"sha"` // first 10 characters of FullSHA
	Author  string `json:"author"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
	Type    string `json:"type"`
}

// CommitAnalytics summarizes commit activity over a lookback window.
type CommitAnalytics struct {
	WindowDays         int            `json:"window_days"`
	TotalCommitsWindow int            `json:"total_commits_window"`
	ActiveDays         int            `json:"active_days"`
	CommitsPerDayEst   float64        `json:"commits_per_day_est"`
	ByType             RankedCounts   `json:"by_type"`
	ByAuthor           RankedCounts   `json:"by_author"`
	RecentExamples     []CommitRecord `json:"recent_examples"`
}

// FileChurnStat holds cumulative line changes for one file.
type FileChurnStat struct {
	Path    string `json:"path"`
	Added   int    `json:"added"`
	Deleted int    `json:"deleted"`
	Touches int    `json:"touches"`
}

// Churn returns added plus deleted lines.
func (f FileChurnStat) Churn() int {
	return f.Added + f.Deleted
}

// ChurnReport holds the top churned files over a lookback window.
type ChurnReport struct {
	WindowDays int             `json:"window_days"`
	TopFiles   []FileChurnStat `json:"top_files"`
}

// TodoFinding is a debt marker found on a line of a tracked file.
type TodoFinding struct {
	Path string `json:"path"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// SecretFinding is a line that matched one of the secret rules.
type SecretFinding struct {
	Path    string `json:"path"`
	Line    int    `json:"line"`
	Label   string `json:"label"`
	Snippet string `json:"snippet"`
}

// LargeFileEntry is a tracked file at or above the size threshold.
type LargeFileEntry struct {
	Path   string  `json:"path"`
	SizeMB float64 `json:"size_mb"`
}

// EnvFileFinding is a committed environment file.
// VariableCount is nil when the file could not be parsed as dotenv.
type EnvFileFinding struct {
	Path          string `json:"path"`
	VariableCount *int   `json:"variable_count"`
}

// DebtReport groups the findings of the debt and secret scan.
type DebtReport struct {
	TodoFixme         []TodoFinding    `json:"todo_fixme"`
	SecretHits        []SecretFinding  `json:"secret_hits"`
	EnvFilesCommitted []EnvFileFinding `json:"env_files_committed"`
	LargeFiles        []LargeFileEntry `json:"large_files"`
}

// ContributorStat is the lifetime commit count of one author identity.
type ContributorStat struct {
	Commits  int    `json:"commits"`
	Identity string `json:"identity"`
}

// ContributorSummary holds the top contributors and the grand total of commits.
type ContributorSummary struct {
	TotalCommits int               `json:"total_commits"`
	Contributors []ContributorStat `json:"contributors"`
}

// LanguageStat is the number of tracked text files detected as one language.
type LanguageStat struct {
	Language string `json:"language"`
	Files    int    `json:"files"`
}

// LanguageBreakdown is the language mix of the tracked files.
type LanguageBreakdown struct {
	Languages     []LanguageStat `json:"languages"`
	VendoredFiles int            `json:"vendored_files"`
}
