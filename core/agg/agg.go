// Package agg has parsing and aggregation logic for raw git output.
package agg

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/huangsam/repoaudit/schema"
)

// Bounds applied while aggregating the commit log.
const (
	MaxCommitLines    = 2000 // lines considered for type and author counts
	MaxRecentExamples = 15
	shortSHALength    = 10
)

// commitTypeRe matches a conventional commit prefix such as "fix(api)!:".
var commitTypeRe = regexp.MustCompile(`(?i)^(feat|fix|docs|refactor|test|chore|perf|build|ci|style)(\(.+?\))?!?:`)

// ClassifyCommit returns the lowercased conventional type of a subject,
// or schema.OtherCommitType when the subject has no recognized prefix.
func ClassifyCommit(subject string) schema.CommitType {
	m := commitTypeRe.FindStringSubmatch(subject)
	if m == nil {
		return schema.OtherCommitType
	}
	return schema.CommitType(strings.ToLower(m[1]))
}

// ParseCommitLine parses one "hash\tauthor\tdate\tsubject" line.
// Any tabs after the third one are kept in the subject.
func ParseCommitLine(line string) (schema.CommitRecord, bool) {
	parts := strings.SplitN(line, "\t", 4)
	if len(parts) < 4 {
		return schema.CommitRecord{}, false
	}
	sha, author, date, subject := parts[0], parts[1], parts[2], parts[3]
	return schema.CommitRecord{
		FullSHA: sha,
		SHA:     shortSHA(sha),
		Author:  author,
		Date:    date,
		Subject: subject,
		Type:    string(ClassifyCommit(subject)),
	}, true
}

// AggregateCommits turns raw commit log output into CommitAnalytics.
// Every line counts toward the window total, but only the first MaxCommitLines
// are parsed for type, author and active-day statistics.
func AggregateCommits(out string, windowDays int) schema.CommitAnalytics {
	result := schema.CommitAnalytics{
		WindowDays:     windowDays,
		ByType:         schema.RankedCounts{},
		ByAuthor:       schema.RankedCounts{},
		RecentExamples: []schema.CommitRecord{},
	}
	lines := splitLines(out)
	if len(lines) == 0 {
		return result
	}
	result.TotalCommitsWindow = len(lines)

	byType := newCounter()
	byAuthor := newCounter()
	days := make(map[string]struct{})

	for _, line := range lines[:min(len(lines), MaxCommitLines)] {
		rec, ok := ParseCommitLine(line)
		if !ok {
			continue
		}
		byAuthor.add(rec.Author)
		byType.add(rec.Type)
		days[datePart(rec.Date)] = struct{}{}
		if len(result.RecentExamples) < MaxRecentExamples {
			result.RecentExamples = append(result.RecentExamples, rec)
		}
	}

	result.ActiveDays = len(days)
	result.CommitsPerDayEst = CommitsPerDay(result.TotalCommitsWindow, result.ActiveDays)
	result.ByType = byType.ranked()
	result.ByAuthor = byAuthor.ranked()
	return result
}

// CommitsPerDay divides total by active days with a minimum denominator of one,
// rounded to three decimals.
func CommitsPerDay(total, activeDays int) float64 {
	return round(float64(total)/float64(max(1, activeDays)), 3)
}

// datePart returns the calendar date of an ISO-8601 timestamp.
func datePart(ts string) string {
	day, _, _ := strings.Cut(ts, "T")
	return day
}

func shortSHA(sha string) string {
	if len(sha) > shortSHALength {
		return sha[:shortSHALength]
	}
	return sha
}

// splitLines splits output into lines, dropping a trailing carriage return
// and returning nil for empty output.
func splitLines(out string) []string {
	if strings.TrimSpace(out) == "" {
		return nil
	}
	lines := strings.Split(out, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// counter counts names and remembers the order they were first seen in.
type counter struct {
	index map[string]int
	items schema.RankedCounts
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(name string) {
	if i, ok := c.index[name]; ok {
		c.items[i].Count++
		return
	}
	c.index[name] = len(c.items)
	c.items = append(c.items, schema.RankedCount{Name: name, Count: 1})
}

// ranked returns the counts ordered by descending count, ties in first-seen order.
func (c *counter) ranked() schema.RankedCounts {
	out := make(schema.RankedCounts, len(c.items))
	copy(out, c.items)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}
