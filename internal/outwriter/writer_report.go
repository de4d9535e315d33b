package outwriter

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/huangsam/repoaudit/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
)

// Markdown section limits.
const (
	maxAuthorsShown    = 10
	maxLargeFilesShown = 20
	maxAuditItemsShown = 20
)

const unknownValue = "unknown"

// WriteReportFiles writes the JSON report and then the Markdown report.
// Both renderings come from the same report value.
func WriteReportFiles(report *schema.Report, mdPath, jsonPath string) error {
	if err := writeWithFile(jsonPath, func(w io.Writer) error {
		return WriteJSONReport(w, report)
	}, "Wrote JSON report"); err != nil {
		return err
	}
	repoPath := ""
	if report.Metadata.WorkTree != nil {
		repoPath = *report.Metadata.WorkTree
	}
	return writeWithFile(mdPath, func(w io.Writer) error {
		return WriteMarkdownReport(w, report, repoPath)
	}, "Wrote Markdown report")
}

// WriteJSONReport serializes the report with two-space indentation.
func WriteJSONReport(w io.Writer, report *schema.Report) error {
	return writeJSON(w, report)
}

// WriteMarkdownReport renders the human-readable narrative of a report.
// repoPath names the report when the work tree is unknown.
func WriteMarkdownReport(w io.Writer, report *schema.Report, repoPath string) error {
	bw := bufio.NewWriter(w)
	md := &markdownWriter{w: bw}

	writeSnapshot(md, report.Metadata, repoPath)
	writeCommits(md, report.CommitAnalytics)
	if err := writeChurn(md, report.Churn); err != nil {
		return err
	}
	writeDebt(md, report.Debt)
	writeLanguages(md, report.Languages)
	writeAudits(md, report.Audits)

	md.line("\n## How to Interpret Commit Types (Benefits)")
	for _, line := range schema.CommitTypeGuidance() {
		md.linef("- %s", line)
	}

	md.line("\n## Quick Wins (Actionable)")
	for _, win := range report.QuickWins {
		md.linef("- [ ] %s", win)
	}

	md.line("\n---\nGenerated by `repoaudit`.")

	if md.err != nil {
		return fmt.Errorf("failed to write markdown: %w", md.err)
	}
	return bw.Flush()
}

// markdownWriter keeps the first write error so sections can be written without checks.
type markdownWriter struct {
	w   io.Writer
	err error
}

func (m *markdownWriter) line(s string) {
	if m.err != nil {
		return
	}
	_, m.err = io.WriteString(m.w, s+"\n")
}

func (m *markdownWriter) linef(format string, args ...any) {
	m.line(fmt.Sprintf(format, args...))
}

func writeSnapshot(md *markdownWriter, meta schema.RepositoryMetadata, repoPath string) {
	title := filepath.Base(repoPath)
	if meta.WorkTree != nil && *meta.WorkTree != "" {
		title = *meta.WorkTree
	}
	md.linef("# Repository Report — %s\n", title)

	head := unknownValue
	if meta.HeadSHA != nil {
		head = shortSHA(*meta.HeadSHA)
	}

	md.line("## Snapshot")
	md.linef("- **Default branch:** `%s`", stringOrUnknown(meta.DefaultBranch))
	md.linef("- **Current branch:** `%s`", stringOrUnknown(meta.CurrentBranch))
	md.linef("- **HEAD:** `%s`", head)
	md.linef("- **Tags:** %s", intOrUnknown(meta.TagCount))
	md.linef("- **Commits:** %s", intOrUnknown(meta.CommitCount))
	md.linef("- **Last commit:** %s", stringOrUnknown(meta.LastCommitDate))
	if len(meta.Remotes) > 0 {
		names := make([]string, 0, len(meta.Remotes))
		for name := range meta.Remotes {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			parts = append(parts, fmt.Sprintf("`%s` → %s", name, strings.Join(meta.Remotes[name], ", ")))
		}
		md.linef("- **Remotes:** %s", strings.Join(parts, ", "))
	}
}

func writeCommits(md *markdownWriter, ca schema.CommitAnalytics) {
	md.linef("\n## Commits (last %d days)", ca.WindowDays)
	md.linef("- Total: **%d**, Active days: **%d**", ca.TotalCommitsWindow, ca.ActiveDays)
	md.linef("- Avg commits/day: **%s**", formatFloat(ca.CommitsPerDayEst))

	if len(ca.ByType) > 0 {
		md.line("\n**By type:**")
		for _, rc := range ca.ByType {
			md.linef("- `%s`: %d", rc.Name, rc.Count)
		}
	}
	if len(ca.ByAuthor) > 0 {
		md.line("\n**Top authors:**")
		for i, rc := range ca.ByAuthor {
			if i >= maxAuthorsShown {
				break
			}
			md.linef("- %s: %d", rc.Name, rc.Count)
		}
	}
	if len(ca.RecentExamples) > 0 {
		md.line("\n**Recent commit examples:**")
		for _, ex := range ca.RecentExamples {
			md.linef("- `%s` %s — %s: %s", ex.SHA, ex.Date, ex.Author, ex.Subject)
		}
	}
}

func writeChurn(md *markdownWriter, churn schema.ChurnReport) error {
	md.linef("\n## Churn Hot-spots (last %d days)", churn.WindowDays)
	if len(churn.TopFiles) == 0 {
		md.line("_No recent churn data._")
		return nil
	}
	if md.err != nil {
		return nil
	}

	alignment := tw.CellAlignment{PerColumn: []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight}}
	table := tablewriter.NewTable(md.w,
		tablewriter.WithRenderer(renderer.NewMarkdown()),
		tablewriter.WithHeaderAutoFormat(tw.Off),
		tablewriter.WithHeaderAlignmentConfig(alignment),
		tablewriter.WithRowAlignmentConfig(alignment),
	)
	table.Header([]string{"File", "+added", "-deleted", "touches"})

	data := make([][]string, 0, len(churn.TopFiles))
	for _, f := range churn.TopFiles {
		data = append(data, []string{
			"`" + escapeTableCell(f.Path) + "`",
			strconv.Itoa(f.Added),
			strconv.Itoa(f.Deleted),
			strconv.Itoa(f.Touches),
		})
	}
	if err := table.Bulk(data); err != nil {
		return fmt.Errorf("failed to add churn rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render churn table: %w", err)
	}
	return nil
}

func writeDebt(md *markdownWriter, debt schema.DebtReport) {
	md.line("\n## Tech Debt & Risks")
	md.linef("- TODO/FIXME markers: **%d**", len(debt.TodoFixme))
	md.linef("- Possible secrets: **%d**", len(debt.SecretHits))
	if len(debt.EnvFilesCommitted) > 0 {
		parts := make([]string, 0, len(debt.EnvFilesCommitted))
		for _, env := range debt.EnvFilesCommitted {
			if env.VariableCount != nil {
				parts = append(parts, fmt.Sprintf("`%s` (%d vars)", env.Path, *env.VariableCount))
			} else {
				parts = append(parts, fmt.Sprintf("`%s`", env.Path))
			}
		}
		md.linef("- Committed `.env*` files: %s", strings.Join(parts, ", "))
	}
	if len(debt.LargeFiles) > 0 {
		md.line("\n**Large files:**")
		for i, lf := range debt.LargeFiles {
			if i >= maxLargeFilesShown {
				break
			}
			md.linef("- `%s` — %s MB", lf.Path, formatFloat(lf.SizeMB))
		}
	}
}

func writeLanguages(md *markdownWriter, langs schema.LanguageBreakdown) {
	md.line("\n## Languages")
	if len(langs.Languages) == 0 {
		md.line("_No source files detected._")
	}
	for _, l := range langs.Languages {
		md.linef("- %s: %d", l.Language, l.Files)
	}
	if langs.VendoredFiles > 0 {
		md.linef("- Vendored files skipped: %d", langs.VendoredFiles)
	}
}

func writeAudits(md *markdownWriter, audits schema.Audits) {
	if audits.Npm != nil {
		md.line("\n## Node Dependency Audit (npm)")
		if audits.Npm.Failed() {
			md.linef("- _Audit error_: %s", audits.Npm.Error)
		} else {
			md.linef("- Findings: **%d**", audits.Npm.Count)
			if vul := audits.Npm.Vulnerabilities; vul != nil {
				md.line("- Vulnerabilities:")
				md.linef("  - critical: **%d**", vul.Critical)
				md.linef("  - high: **%d**", vul.High)
				md.linef("  - moderate: **%d**", vul.Moderate)
				md.linef("  - low: **%d**", vul.Low)
				md.linef("  - info: **%d**", vul.Info)
			}
		}
	}
	if audits.Pip != nil {
		md.line("\n## Python Dependency Audit (pip-audit)")
		writeAuditItems(md, audits.Pip)
	}
	if audits.Go != nil {
		md.line("\n## Go Vulnerability Audit (govulncheck)")
		writeAuditItems(md, audits.Go)
	}
}

func writeAuditItems(md *markdownWriter, audit *schema.DependencyAudit) {
	if audit.Failed() {
		md.linef("- _Audit error_: %s", audit.Error)
		return
	}
	md.linef("- Findings: **%d**", audit.Count)
	for i, it := range audit.Items {
		if i >= maxAuditItemsShown {
			break
		}
		fix := strings.Join(it.FixVersions, ", ")
		if fix == "" {
			fix = "n/a"
		}
		md.linef("  - %s %s — %s (fix: %s)", it.Name, it.Version, it.ID, fix)
	}
}

func stringOrUnknown(s *string) string {
	if s == nil {
		return unknownValue
	}
	return *s
}

func intOrUnknown(n *int) string {
	if n == nil {
		return unknownValue
	}
	return strconv.Itoa(*n)
}

// formatFloat prints the shortest decimal that round-trips, so 2 renders as "2".
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// escapeTableCell escapes pipes, which GFM treats as cell separators even inside code spans.
func escapeTableCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func shortSHA(sha string) string {
	if len(sha) > 10 {
		return sha[:10]
	}
	return sha
}
