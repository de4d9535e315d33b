package core

import (
	"context"
	"fmt"

	"github.com/huangsam/repoaudit/core/audit"
	"github.com/huangsam/repoaudit/core/scan"
	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/schema"
	"github.com/sirupsen/logrus"
)

// ReportBuilder assembles a report one section at a time.
type ReportBuilder struct {
	ctx    context.Context
	cfg    *contract.Config
	git    contract.GitClient
	runner contract.Runner
	report *schema.Report
}

// NewReportBuilder is the starting point for building a report.
func NewReportBuilder(ctx context.Context, cfg *contract.Config, client contract.GitClient, runner contract.Runner) *ReportBuilder {
	return &ReportBuilder{
		ctx:    ctx,
		cfg:    cfg,
		git:    client,
		runner: runner,
		report: &schema.Report{GeneratedAt: cfg.Now.UTC()},
	}
}

// FetchMetadata reads the repository snapshot.
func (b *ReportBuilder) FetchMetadata() *ReportBuilder {
	b.report.Metadata = BuildMetadata(b.ctx, b.git, b.cfg.RepoPath)
	return b
}

// FetchCommitAnalytics aggregates the commit log over the commit window.
func (b *ReportBuilder) FetchCommitAnalytics() *ReportBuilder {
	b.report.CommitAnalytics = AnalyzeCommits(b.ctx, b.git, b.cfg.RepoPath, b.cfg.WindowDays, b.cfg.Now)
	return b
}

// FetchChurn ranks churned files over the churn window.
func (b *ReportBuilder) FetchChurn() *ReportBuilder {
	b.report.Churn = AnalyzeChurn(b.ctx, b.git, b.cfg.RepoPath, b.cfg.ChurnWindowDays, b.cfg.ChurnLimit, b.cfg.Now)
	return b
}

// ScanFiles runs the debt and secret scan, which also yields the language breakdown.
func (b *ReportBuilder) ScanFiles(rules scan.RuleSet) *ReportBuilder {
	s := scan.NewScanner(b.cfg.RepoPath)
	s.Rules = rules
	if b.cfg.LargeFileBytes > 0 {
		s.LargeFileBytes = b.cfg.LargeFileBytes
	}
	res := s.Scan(b.ctx, b.git)
	b.report.Debt = res.Debt
	b.report.Languages = res.Languages
	return b
}

// FetchContributors summarizes the lifetime contributors.
func (b *ReportBuilder) FetchContributors() *ReportBuilder {
	b.report.Contributors = SummarizeContributors(b.ctx, b.git, b.cfg.RepoPath)
	return b
}

// RunAudits runs the dependency audits when deep mode is enabled.
func (b *ReportBuilder) RunAudits() *ReportBuilder {
	if b.cfg.Deep {
		b.report.Audits = audit.Run(b.ctx, b.runner, b.cfg.RepoPath, audit.DefaultAdapters()...)
	}
	return b
}

// DeriveQuickWins computes the quick wins from the sections gathered so far.
func (b *ReportBuilder) DeriveQuickWins() *ReportBuilder {
	b.report.QuickWins = DeriveQuickWins(b.report)
	return b
}

// Build returns the assembled report.
func (b *ReportBuilder) Build() *schema.Report {
	return b.report
}

// BuildReport checks that cfg.RepoPath is a work tree, then runs every analyzer
// and assembles the report. Past the precondition, analyzers degrade instead of failing.
func BuildReport(ctx context.Context, client contract.GitClient, runner contract.Runner, cfg *contract.Config) (*schema.Report, error) {
	if !client.IsInsideWorkTree(ctx, cfg.RepoPath) {
		return nil, fmt.Errorf("%w: %s. Run inside a repo", ErrNotRepository, cfg.RepoPath)
	}
	rules, err := scan.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}

	contract.Logger.WithFields(logrus.Fields{
		"repo":         cfg.RepoPath,
		"window":       cfg.WindowDays,
		"churn_window": cfg.ChurnWindowDays,
		"deep":         cfg.Deep,
	}).Debug("building report")

	report := NewReportBuilder(ctx, cfg, client, runner).
		FetchMetadata().
		FetchCommitAnalytics().
		FetchChurn().
		ScanFiles(rules).
		FetchContributors().
		RunAudits().
		DeriveQuickWins().
		Build()
	return report, nil
}
