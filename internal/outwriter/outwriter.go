// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"os"
	"time"

	"github.com/huangsam/repoaudit/core/scan"
	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct {
	stdout io.Writer
}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{stdout: os.Stdout}
}

// WriteReports writes the JSON report and then the Markdown report.
func (ow *OutWriter) WriteReports(report *schema.Report, mdPath, jsonPath string) error {
	return WriteReportFiles(report, mdPath, jsonPath)
}

// WriteSummary prints the console summary of a finished audit.
func (ow *OutWriter) WriteSummary(report *schema.Report, cfg *contract.Config, duration time.Duration) error {
	return PrintSummary(ow.stdout, report, cfg, duration)
}

// WriteRules prints the active secret rule table.
func (ow *OutWriter) WriteRules(rules scan.RuleSet, cfg *contract.Config) error {
	return PrintRules(ow.stdout, rules, cfg)
}
