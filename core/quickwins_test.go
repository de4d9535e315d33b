package core

import (
	"testing"

	"github.com/huangsam/repoaudit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveQuickWinsOrder(t *testing.T) {
	report := &schema.Report{
		Debt: schema.DebtReport{
			SecretHits: []schema.SecretFinding{
				{Path: "a.go", Line: 1, Label: "AWS Access Key ID"},
				{Path: "b.go", Line: 2, Label: "Generic secret key"},
			},
			EnvFilesCommitted: []schema.EnvFileFinding{{Path: ".env"}},
		},
		Churn: schema.ChurnReport{TopFiles: []schema.FileChurnStat{
			{Path: "core/report.go", Added: 120, Deleted: 30, Touches: 9},
			{Path: "README.md", Added: 1, Deleted: 1, Touches: 1},
		}},
		CommitAnalytics: schema.CommitAnalytics{ByType: schema.RankedCounts{{"feat", 4}}},
	}

	wins := DeriveQuickWins(report)
	assert.Equal(t, []string{
		"Found 2 potential secrets. Remove & rotate. Add `.env*` to .gitignore.",
		"`.env*` files are committed. Move to local only and use env vars in deploy.",
		"High churn: `core/report.go` (+120/-30, 9 touches). Consider refactor or module split.",
		"No `test` commits detected recently. Add/expand tests for stability.",
	}, wins)
}

func TestDeriveQuickWinsSecretsFirstOnly(t *testing.T) {
	report := &schema.Report{
		Debt: schema.DebtReport{SecretHits: []schema.SecretFinding{{Path: "k.txt", Line: 1, Label: "Slack Token"}}},
		CommitAnalytics: schema.CommitAnalytics{ByType: schema.RankedCounts{{"test", 2}}},
	}
	wins := DeriveQuickWins(report)
	require.Len(t, wins, 1)
	assert.Contains(t, wins[0], "Found 1 potential secrets")
}

func TestDeriveQuickWinsFallback(t *testing.T) {
	report := &schema.Report{
		CommitAnalytics: schema.CommitAnalytics{ByType: schema.RankedCounts{{"test", 1}}},
	}
	wins := DeriveQuickWins(report)
	assert.Equal(t, FallbackQuickWins(), wins)
	assert.NotEmpty(t, wins)
}

func TestDeriveQuickWinsEmptyReport(t *testing.T) {
	wins := DeriveQuickWins(&schema.Report{})
	assert.Equal(t, []string{"No `test` commits detected recently. Add/expand tests for stability."}, wins)
}
