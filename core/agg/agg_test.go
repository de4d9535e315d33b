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

//go:embed testdata/commit_log.txt
var commitLogFixture string

func TestClassifyCommit(t *testing.T) {
	tests := []struct {
		subject  string
		expected schema.CommitType
	}{
		{"Fix: bug", schema.FixCommit},
		{"fix: bug", schema.FixCommit},
		{"FIX(api): bug", schema.FixCommit},
		{"feat(ui)!: new layout", schema.FeatCommit},
		{"ci: cache modules", schema.CICommit},
		{"Style: gofmt", schema.StyleCommit},
		{"perf(scan)!: stream files", schema.PerfCommit},
		{"update readme", schema.OtherCommitType},
		{"fixes: not a type", schema.OtherCommitType},
		{"feat missing colon", schema.OtherCommitType},
		{"feat(): empty scope", schema.OtherCommitType},
		{" fix: leading space", schema.OtherCommitType},
		{"", schema.OtherCommitType},
	}
	for _, tt := range tests {
		t.Run(tt.subject, func(t *testing.T) {
			got := ClassifyCommit(tt.subject)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, got, ClassifyCommit(tt.subject), "classification is idempotent")
		})
	}
}

func TestParseCommitLine(t *testing.T) {
	rec, ok := ParseCommitLine("0123456789abcdef0123\tAda\t2024-05-01T10:00:00+00:00\tfix: a\tb")
	require.True(t, ok)
	assert.Equal(t, "0123456789abcdef0123", rec.FullSHA)
	assert.Equal(t, "0123456789", rec.SHA)
	assert.Equal(t, "Ada", rec.Author)
	assert.Equal(t, "2024-05-01T10:00:00+00:00", rec.Date)
	assert.Equal(t, "fix: a\tb", rec.Subject)
	assert.Equal(t, "fix", rec.Type)

	rec, ok = ParseCommitLine("abc\tAda\t2024-05-01T10:00:00+00:00\t")
	require.True(t, ok)
	assert.Equal(t, "abc", rec.SHA)
	assert.Equal(t, "other", rec.Type)

	_, ok = ParseCommitLine("abc\tAda\t2024-05-01")
	assert.False(t, ok)
}

func TestAggregateCommitsFixture(t *testing.T) {
	result := AggregateCommits(strings.TrimSpace(commitLogFixture), 365)

	assert.Equal(t, 365, result.WindowDays)
	assert.Equal(t, 8, result.TotalCommitsWindow, "every line counts toward the window total")
	assert.Equal(t, 4, result.ActiveDays)
	assert.Equal(t, 2.0, result.CommitsPerDayEst)

	assert.Equal(t, schema.RankedCounts{
		{"fix", 2}, {"feat", 1}, {"other", 1}, {"docs", 1}, {"test", 1}, {"chore", 1},
	}, result.ByType)
	assert.Equal(t, schema.RankedCounts{
		{"Ada Lovelace", 4}, {"Grace Hopper", 2}, {"Linus Torvalds", 1},
	}, result.ByAuthor)

	require.Len(t, result.RecentExamples, 7)
	assert.Equal(t, "9f1c2e4b7a", result.RecentExamples[0].SHA)
	assert.Equal(t, "feat(report): add churn table", result.RecentExamples[0].Subject)
	assert.Equal(t, "test(scan): cover null bytes\twith a tab", result.RecentExamples[5].Subject)
}

func TestAggregateCommitsEmpty(t *testing.T) {
	for _, out := range []string{"", "  \n "} {
		result := AggregateCommits(out, 30)
		assert.Equal(t, 30, result.WindowDays)
		assert.Zero(t, result.TotalCommitsWindow)
		assert.Zero(t, result.ActiveDays)
		assert.Zero(t, result.CommitsPerDayEst)
		assert.NotNil(t, result.ByType)
		assert.NotNil(t, result.ByAuthor)
		assert.NotNil(t, result.RecentExamples)
	}
}

func TestAggregateCommitsSingleDay(t *testing.T) {
	var lines []string
	for i := range 5 {
		lines = append(lines, fmt.Sprintf("%040x\tAda\t2024-05-01T%02d:00:00+00:00\tchore: %d", i+1, i, i))
	}
	result := AggregateCommits(strings.Join(lines, "\n"), 7)
	assert.Equal(t, 1, result.ActiveDays)
	assert.Equal(t, 5.0, result.CommitsPerDayEst)
}

func TestAggregateCommitsTruncation(t *testing.T) {
	var b strings.Builder
	for i := range 5000 {
		day := 1 + i%28
		fmt.Fprintf(&b, "%040x\tAuthor %d\t2024-02-%02dT10:00:00+00:00\tfeat: change %d\n", i+1, i%7, day, i)
	}
	result := AggregateCommits(strings.TrimSuffix(b.String(), "\n"), 365)

	assert.Equal(t, 5000, result.TotalCommitsWindow)
	typeTotal := 0
	for _, rc := range result.ByType {
		typeTotal += rc.Count
	}
	authorTotal := 0
	for _, rc := range result.ByAuthor {
		authorTotal += rc.Count
	}
	assert.Equal(t, MaxCommitLines, typeTotal)
	assert.Equal(t, MaxCommitLines, authorTotal)
	assert.Len(t, result.RecentExamples, MaxRecentExamples)
	assert.Equal(t, 28, result.ActiveDays)
	assert.Equal(t, 178.571, result.CommitsPerDayEst)
}

func TestCommitsPerDay(t *testing.T) {
	assert.Equal(t, 5.0, CommitsPerDay(5, 1))
	assert.Equal(t, 0.0, CommitsPerDay(0, 0))
	assert.Equal(t, 3.0, CommitsPerDay(3, 0), "zero active days uses a denominator of one")
	assert.Equal(t, 0.333, CommitsPerDay(1, 3))
	assert.Equal(t, 0.667, CommitsPerDay(2, 3))
}

func TestCounterRanked(t *testing.T) {
	c := newCounter()
	for _, name := range []string{"b", "a", "c", "a", "b", "d"} {
		c.add(name)
	}
	assert.Equal(t, schema.RankedCounts{{"b", 2}, {"a", 2}, {"c", 1}, {"d", 1}}, c.ranked())
	assert.Equal(t, schema.RankedCounts{}, newCounter().ranked())
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Nil(t, splitLines("\n\n"))
	assert.Equal(t, []string{"a", "b"}, splitLines("a\r\nb"))
}
