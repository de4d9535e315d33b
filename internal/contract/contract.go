// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/repoaudit/schema"
)

// Runner executes external programs. Implementations never return a Go error:
// every failure is folded into a Result with a non-zero exit code.
type Runner interface {
	// Run executes name with args inside dir. A timeout of zero or less means DefaultTimeout.
	Run(ctx context.Context, dir string, timeout time.Duration, name string, args ...string) Result

	// LookPath reports the resolved path of an executable, or an error when it is not installed.
	LookPath(name string) (string, error)
}

// GitClient defines the git queries used by the analyzers.
// This allows the core analysis logic to be tested without needing a real git executable.
type GitClient interface {
	// --- Generic / Low-Level ---

	// Run executes a git command rooted at repoPath and returns its trimmed stdout.
	// Its use should be minimized in favor of the explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) (string, error)

	// --- Repository Resolution ---

	// IsInsideWorkTree reports whether path is inside a git work tree.
	IsInsideWorkTree(ctx context.Context, path string) bool

	// GetRepoRoot returns the absolute path to the root of the work tree containing path.
	GetRepoRoot(ctx context.Context, path string) (string, error)

	// --- History ---

	// GetCommitLog returns one tab-separated line per commit since the given time:
	// full hash, author name, strict ISO-8601 author date and subject.
	GetCommitLog(ctx context.Context, repoPath string, since time.Time) (string, error)

	// GetNumstatLog returns per-commit numstat records since the given time,
	// each commit introduced by a line holding only its hash.
	GetNumstatLog(ctx context.Context, repoPath string, since time.Time) (string, error)

	// GetShortlog returns the summary shortlog of HEAD with emails, sorted by count.
	GetShortlog(ctx context.Context, repoPath string) (string, error)

	// --- File State ---

	// ListFiles returns every path tracked in the index, relative to repoPath.
	ListFiles(ctx context.Context, repoPath string) ([]string, error)
}

// HistoryStore defines the interface for recording audit runs across invocations.
type HistoryStore interface {
	// RecordRun stores the run summary and its churn hotspots, returning the new run ID.
	RecordRun(repoPath string, report *schema.Report) (int64, error)

	// GetAllRuns returns every recorded run, oldest first.
	GetAllRuns() ([]schema.RunRecord, error)

	// GetAllHotspots returns every recorded churn hotspot row, ordered by run and rank.
	GetAllHotspots() ([]schema.HotspotRecord, error)

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection.
	Close() error
}
