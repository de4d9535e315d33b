package agg

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/repoaudit/schema"
)

// commitMarkerRe matches a line holding only an abbreviated or full commit hash.
var commitMarkerRe = regexp.MustCompile(`^[0-9a-f]{7,}$`)

// IsCommitMarker reports whether a numstat log line starts a new commit.
func IsCommitMarker(line string) bool {
	return commitMarkerRe.MatchString(strings.TrimSpace(line))
}

// ParseNumstatLine parses an "added\tdeleted\tpath" record. Binary files report
// "-" for both counts, which is read as zero. Lines with any other shape are rejected.
func ParseNumstatLine(line string) (added, deleted int, path string, ok bool) {
	parts := strings.Split(line, "\t")
	if len(parts) != 3 || parts[2] == "" {
		return 0, 0, "", false
	}
	added, okAdd := parseChurnValue(parts[0])
	deleted, okDel := parseChurnValue(parts[1])
	if !okAdd || !okDel {
		return 0, 0, "", false
	}
	return added, deleted, resolveRenamedPath(parts[2]), true
}

// AggregateChurn accumulates numstat records into per-file totals.
// Every accepted record counts as one touch, binary or not.
func AggregateChurn(out string) []schema.FileChurnStat {
	index := make(map[string]int)
	var stats []schema.FileChurnStat

	for _, line := range splitLines(out) {
		if IsCommitMarker(line) {
			continue
		}
		added, deleted, path, ok := ParseNumstatLine(line)
		if !ok {
			continue
		}
		i, seen := index[path]
		if !seen {
			i = len(stats)
			index[path] = i
			stats = append(stats, schema.FileChurnStat{Path: path})
		}
		stats[i].Added += added
		stats[i].Deleted += deleted
		stats[i].Touches++
	}
	return stats
}

// parseChurnValue converts a churn string to int, handling "-" as 0.
func parseChurnValue(s string) (int, bool) {
	if s == "-" {
		return 0, true
	}
	val, err := strconv.Atoi(s)
	if err != nil || val < 0 {
		return 0, false
	}
	return val, true
}

// resolveRenamedPath returns the destination of a rename record such as
// "old => new" or "dir/{a => b}/file.go", and the path unchanged otherwise.
func resolveRenamedPath(path string) string {
	if !strings.Contains(path, " => ") {
		return path
	}
	if _, newPath := parseRenamePath(path); newPath != "" {
		return newPath
	}
	return path
}

// parseRenamePath extracts old and new paths from a rename string.
func parseRenamePath(path string) (string, string) {
	if !strings.Contains(path, "{") {
		// Simple format: "old => new"
		parts := strings.SplitN(path, " => ", 2)
		if len(parts) == 2 {
			return parts[0], parts[1]
		}
		return "", ""
	}

	// Braced format: prefix{old => new}suffix
	braceStart := strings.Index(path, "{")
	braceEnd := strings.Index(path, "}")
	if braceStart == -1 || braceEnd == -1 || braceStart >= braceEnd {
		return "", ""
	}

	prefix := path[:braceStart]
	renamePart := path[braceStart+1 : braceEnd]
	suffix := path[braceEnd+1:]

	renameParts := strings.SplitN(renamePart, " => ", 2)
	if len(renameParts) != 2 {
		return "", ""
	}
	return joinRenamed(prefix, renameParts[0], suffix), joinRenamed(prefix, renameParts[1], suffix)
}

// joinRenamed rebuilds a path from a braced rename, collapsing the double slash
// git leaves when one side of the rename is empty ("a/{ => b}/c").
func joinRenamed(prefix, middle, suffix string) string {
	if middle == "" && strings.HasSuffix(prefix, "/") && strings.HasPrefix(suffix, "/") {
		return prefix + suffix[1:]
	}
	return prefix + middle + suffix
}
