package agg

import (
	_ "embed"
	"fmt"
	"strings"
	"testing"

	"github.com/huangsam/repoaudit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/shortlog.txt
var shortlogFixture string

//go:embed testdata/remotes.txt
var remotesFixture string

func TestParseShortlogFixture(t *testing.T) {
	summary := ParseShortlog(shortlogFixture)
	assert.Equal(t, 62, summary.TotalCommits)
	assert.Equal(t, []schema.ContributorStat{
		{Commits: 42, Identity: "Ada Lovelace <ada@example.com>"},
		{Commits: 17, Identity: "Grace Hopper <grace@example.com>"},
		{Commits: 3, Identity: "Linus Torvalds <linus@example.com>"},
	}, summary.Contributors)
}

func TestParseShortlogTruncatesButSumsAll(t *testing.T) {
	var lines []string
	total := 0
	for i := range 60 {
		lines = append(lines, fmt.Sprintf("%6d\tDev %02d <dev%02d@example.com>", i+1, i, i))
		total += i + 1
	}
	summary := ParseShortlog(strings.Join(lines, "\n"))
	assert.Equal(t, total, summary.TotalCommits)
	require.Len(t, summary.Contributors, MaxContributors)
	assert.Equal(t, 60, summary.Contributors[0].Commits)
	assert.Equal(t, 11, summary.Contributors[MaxContributors-1].Commits)
}

func TestParseShortlogEmpty(t *testing.T) {
	summary := ParseShortlog("")
	assert.Zero(t, summary.TotalCommits)
	assert.NotNil(t, summary.Contributors)
	assert.Empty(t, summary.Contributors)
}

func TestParseRemotesFixture(t *testing.T) {
	remotes := ParseRemotes(remotesFixture)
	assert.Equal(t, map[string][]string{
		"origin":   {"git@github.com:acme/app.git"},
		"upstream": {"git@github.com:upstream/app.git", "https://github.com/upstream/app.git"},
	}, remotes)
	assert.Empty(t, ParseRemotes(""))
}

func TestCountLines(t *testing.T) {
	assert.Equal(t, 0, CountLines(""))
	assert.Equal(t, 3, CountLines("v1.0.0\nv1.1.0\n\nv2.0.0"))
}

func TestBranchFromRef(t *testing.T) {
	assert.Equal(t, "main", BranchFromRef("refs/remotes/origin/main"))
	assert.Equal(t, "develop", BranchFromRef(" refs/remotes/origin/develop\n"))
	assert.Equal(t, "trunk", BranchFromRef("trunk"))
}
