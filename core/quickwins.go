package core

import (
	"fmt"

	"github.com/huangsam/repoaudit/schema"
)

// DeriveQuickWins returns the actionable items triggered by the report, in rule
// order. When no rule triggers it returns FallbackQuickWins, so the list is never empty.
func DeriveQuickWins(report *schema.Report) []string {
	var wins []string
	if n := len(report.Debt.SecretHits); n > 0 {
		wins = append(wins, fmt.Sprintf("Found %d potential secrets. Remove & rotate. Add `.env*` to .gitignore.", n))
	}
	if len(report.Debt.EnvFilesCommitted) > 0 {
		wins = append(wins, "`.env*` files are committed. Move to local only and use env vars in deploy.")
	}
	if len(report.Churn.TopFiles) > 0 {
		worst := report.Churn.TopFiles[0]
		wins = append(wins, fmt.Sprintf("High churn: `%s` (+%d/-%d, %d touches). Consider refactor or module split.",
			worst.Path, worst.Added, worst.Deleted, worst.Touches))
	}
	if report.CommitAnalytics.ByType.Get(string(schema.TestCommit)) == 0 {
		wins = append(wins, "No `test` commits detected recently. Add/expand tests for stability.")
	}
	if len(wins) == 0 {
		return FallbackQuickWins()
	}
	return wins
}

// FallbackQuickWins returns the generic advice used when no specific rule triggers.
func FallbackQuickWins() []string {
	return []string{
		"Protect secrets: remove any committed `.env*`, rotate keys, add patterns to `.gitignore`.",
		"Reduce churn in hot files: add tests, split modules, stabilize interfaces.",
		"Close TODO/FIXME or create issues, link to milestones.",
		"Run full `npm audit fix` or upgrade vulnerable packages with a plan.",
		"Enforce commit conventions (Conventional Commits) in CI to keep clean history and auto-changelog.",
	}
}
