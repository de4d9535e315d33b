package outwriter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/huangsam/repoaudit/core/algo"
	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSummary writes the console summary table for a finished audit.
func PrintSummary(writer io.Writer, report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	label := labelFunc(cfg)
	maxWidth := GetMaxTablePathWidth(cfg)

	var bold func(a ...any) string
	if cfg.UseColors {
		bold = color.New(color.Bold).SprintFunc()
	} else {
		bold = fmt.Sprint
	}

	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Section", "Count", "Label", "Detail"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.PerColumn = []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignLeft, tw.AlignLeft}
	})

	ca := report.CommitAnalytics
	debt := report.Debt
	data := [][]string{
		{
			fmt.Sprintf("Commits (%dd)", ca.WindowDays),
			strconv.Itoa(ca.TotalCommitsWindow),
			"",
			fmt.Sprintf("%s/day over %d active days", formatFloat(ca.CommitsPerDayEst), ca.ActiveDays),
		},
		{
			fmt.Sprintf("Churn (%dd)", report.Churn.WindowDays),
			strconv.Itoa(len(report.Churn.TopFiles)),
			"",
			topChurnDetail(report.Churn, maxWidth),
		},
		{"TODO/FIXME", strconv.Itoa(len(debt.TodoFixme)), label(todoLabel(len(debt.TodoFixme))), ""},
		{"Secrets", strconv.Itoa(len(debt.SecretHits)), label(presenceLabel(len(debt.SecretHits), contract.CriticalValue)), secretDetail(debt, maxWidth)},
		{"Env files", strconv.Itoa(len(debt.EnvFilesCommitted)), label(presenceLabel(len(debt.EnvFilesCommitted), contract.HighValue)), ""},
		{"Large files", strconv.Itoa(len(debt.LargeFiles)), label(presenceLabel(len(debt.LargeFiles), contract.ModerateValue)), largeFileDetail(debt, maxWidth)},
		{
			"Contributors",
			strconv.Itoa(len(report.Contributors.Contributors)),
			"",
			fmt.Sprintf("%s commits total", humanize.Comma(int64(report.Contributors.TotalCommits))),
		},
		{"Languages", strconv.Itoa(len(report.Languages.Languages)), "", topLanguageDetail(report.Languages)},
	}
	for _, audit := range []*schema.DependencyAudit{report.Audits.Npm, report.Audits.Pip, report.Audits.Go} {
		if audit == nil {
			continue
		}
		data = append(data, auditRow(audit, label, maxWidth))
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Overall debt: %s. Quick wins: %d\n", bold(label(algo.DebtLabel(debt))), len(report.QuickWins)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Audit completed in %v. History backend: %s\n", duration, cfg.HistoryBackend); err != nil {
		return err
	}
	return nil
}

func auditRow(audit *schema.DependencyAudit, label func(string) string, maxWidth int) []string {
	if audit.Failed() {
		return []string{audit.Tool, "-", "", contract.TruncateRunes(audit.Error, maxWidth)}
	}
	grade := algo.SeverityLabel(audit.Vulnerabilities)
	if audit.Vulnerabilities == nil {
		grade = presenceLabel(audit.Count, contract.HighValue)
	}
	detail := ""
	if len(audit.Items) > 0 {
		detail = audit.Items[0].Name + " " + audit.Items[0].ID
	}
	return []string{audit.Tool, strconv.Itoa(audit.Count), label(grade), contract.TruncateRunes(detail, maxWidth)}
}

// presenceLabel returns severe when count is positive and Clean otherwise.
func presenceLabel(count int, severe string) string {
	if count > 0 {
		return severe
	}
	return contract.CleanValue
}

func todoLabel(count int) string {
	switch {
	case count >= 100:
		return contract.ModerateValue
	case count > 0:
		return contract.LowValue
	default:
		return contract.CleanValue
	}
}

func topChurnDetail(churn schema.ChurnReport, maxWidth int) string {
	if len(churn.TopFiles) == 0 {
		return ""
	}
	top := churn.TopFiles[0]
	return fmt.Sprintf("%s +%d/-%d", contract.TruncatePath(top.Path, maxWidth), top.Added, top.Deleted)
}

func secretDetail(debt schema.DebtReport, maxWidth int) string {
	if len(debt.SecretHits) == 0 {
		return ""
	}
	return contract.TruncateRunes(debt.SecretHits[0].Label, maxWidth)
}

func largeFileDetail(debt schema.DebtReport, maxWidth int) string {
	if len(debt.LargeFiles) == 0 {
		return ""
	}
	top := debt.LargeFiles[0]
	size := humanize.IBytes(uint64(top.SizeMB * 1024 * 1024))
	return fmt.Sprintf("%s (%s)", contract.TruncatePath(top.Path, maxWidth), size)
}

func topLanguageDetail(langs schema.LanguageBreakdown) string {
	if len(langs.Languages) == 0 {
		return ""
	}
	return fmt.Sprintf("mostly %s", langs.Languages[0].Language)
}
