package agg

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/repoaudit/schema"
)

// MaxContributors bounds the contributor list.
const MaxContributors = 50

// shortlogRe matches a "  12\tName <email>" shortlog summary line.
var shortlogRe = regexp.MustCompile(`^\s*(\d+)\s+(.*)$`)

// ParseShortlog sums every summary line and returns the top contributors by count.
func ParseShortlog(out string) schema.ContributorSummary {
	summary := schema.ContributorSummary{Contributors: []schema.ContributorStat{}}
	for _, line := range splitLines(out) {
		m := shortlogRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		count, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		summary.TotalCommits += count
		summary.Contributors = append(summary.Contributors, schema.ContributorStat{
			Commits:  count,
			Identity: strings.TrimSpace(m[2]),
		})
	}
	sort.SliceStable(summary.Contributors, func(i, j int) bool {
		return summary.Contributors[i].Commits > summary.Contributors[j].Commits
	})
	if len(summary.Contributors) > MaxContributors {
		summary.Contributors = summary.Contributors[:MaxContributors]
	}
	return summary
}

// ParseRemotes groups "name url (fetch)" lines into a sorted, deduplicated URL list per remote.
func ParseRemotes(out string) map[string][]string {
	sets := make(map[string]map[string]struct{})
	for _, line := range splitLines(out) {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		name, url := fields[0], fields[1]
		if sets[name] == nil {
			sets[name] = make(map[string]struct{})
		}
		sets[name][url] = struct{}{}
	}

	remotes := make(map[string][]string, len(sets))
	for name, urls := range sets {
		list := make([]string, 0, len(urls))
		for u := range urls {
			list = append(list, u)
		}
		sort.Strings(list)
		remotes[name] = list
	}
	return remotes
}

// CountLines returns the number of non-blank lines in out.
func CountLines(out string) int {
	n := 0
	for _, line := range splitLines(out) {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// BranchFromRef returns the last path segment of a symbolic ref
// such as "refs/remotes/origin/main".
func BranchFromRef(ref string) string {
	ref = strings.TrimSpace(ref)
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
