package schema

// Custom string types for type safety.
type (
	// CommitType is a conventional commit type tag, or OtherCommitType.
	CommitType string

	// DatabaseBackend represents the database backend for run history.
	DatabaseBackend string
)

// All conventional commit types recognized in subjects.
const (
	FeatCommit     CommitType = "feat"
	FixCommit      CommitType = "fix"
	DocsCommit     CommitType = "docs"
	RefactorCommit CommitType = "refactor"
	TestCommit     CommitType = "test"
	ChoreCommit    CommitType = "chore"
	PerfCommit     CommitType = "perf"
	BuildCommit    CommitType = "build"
	CICommit       CommitType = "ci"
	StyleCommit    CommitType = "style"

	OtherCommitType CommitType = "other" // no conventional prefix
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// Default output file names.
const (
	DefaultMarkdownFile = "REPO_REPORT.md"
	DefaultJSONFile     = "REPO_REPORT.json"
)

// AllCommitTypes lists the conventional commit vocabulary in display order.
var AllCommitTypes = []CommitType{
	FeatCommit, FixCommit, DocsCommit, RefactorCommit, TestCommit,
	ChoreCommit, PerfCommit, BuildCommit, CICommit, StyleCommit,
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// CommitTypeGuidance explains what each conventional commit type contributes to a project.
func CommitTypeGuidance() []string {
	return []string{
		"feat: adds user-visible functionality (roadmap progress, demo value).",
		"fix: resolves a bug (stability, support load reduction).",
		"docs: improves understanding (onboarding speed, bus-factor).",
		"refactor: structural cleanup (maintainability, lowers future change cost).",
		"test: coverage/stability (confidence, safer releases).",
		"perf: faster/leaner (latency, infra cost).",
		"build/ci: reliable pipelines (dev velocity, fewer broken main builds).",
		"chore/style: small non-functional upkeep (consistency).",
	}
}
