// Package audit runs external dependency scanners and normalizes their output.
package audit

import (
	"context"
	"os"
	"path/filepath"

	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/schema"
	"github.com/sirupsen/logrus"
)

// Result bounds shared by all adapters.
const (
	MaxItems          = 200
	MaxDescriptionLen = 300
)

// Adapter wraps one external vulnerability scanner.
type Adapter interface {
	// Name returns the key under which the result is stored ("npm", "pip", "go").
	Name() string

	// Detect reports whether the repository root holds the adapter's manifest.
	Detect(repoPath string) bool

	// Run executes the scanner. It returns nil when the manifest is absent.
	Run(ctx context.Context, runner contract.Runner, repoPath string) *schema.DependencyAudit
}

// DefaultAdapters returns every supported adapter in report order.
func DefaultAdapters() []Adapter {
	return []Adapter{&NpmAdapter{}, &PipAdapter{}, &GoVulnAdapter{}}
}

// Run executes each adapter against repoPath and collects the results.
// Adapters whose manifest is missing leave their key empty.
func Run(ctx context.Context, runner contract.Runner, repoPath string, adapters ...Adapter) schema.Audits {
	var audits schema.Audits
	for _, a := range adapters {
		res := a.Run(ctx, runner, repoPath)
		if res == nil {
			continue
		}
		entry := contract.Logger.WithFields(logrus.Fields{"audit": a.Name(), "count": res.Count})
		if res.Failed() {
			entry.WithField("error", res.Error).Debug("audit failed")
		} else {
			entry.Debug("audit finished")
		}
		switch a.Name() {
		case "npm":
			audits.Npm = res
		case "pip":
			audits.Pip = res
		case "go":
			audits.Go = res
		}
	}
	return audits
}

// tool describes how to invoke one scanner binary.
type tool struct {
	display string // name used in the report, e.g. "npm audit"
	binary  string
	args    []string
}

// exec runs the tool and returns its stdout, or a failed audit when the tool
// is missing or exited non-zero without output.
func (t tool) exec(ctx context.Context, runner contract.Runner, repoPath string) (string, *schema.DependencyAudit) {
	if _, err := runner.LookPath(t.binary); err != nil {
		return "", t.fail(t.binary + " not installed")
	}
	res := runner.Run(ctx, repoPath, contract.AuditTimeout, t.binary, t.args...)
	if !res.OK() && res.Stdout == "" {
		if res.Stderr != "" {
			return "", t.fail(res.Stderr)
		}
		return "", t.fail(t.display + " failed")
	}
	return res.Stdout, nil
}

func (t tool) fail(msg string) *schema.DependencyAudit {
	return &schema.DependencyAudit{Tool: t.display, Error: msg}
}

// fileExists reports whether name exists as a regular file in dir.
func fileExists(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && info.Mode().IsRegular()
}

// capItems truncates descriptions and the item list to the shared bounds.
func capItems(items []schema.VulnerabilityItem) []schema.VulnerabilityItem {
	for i := range items {
		items[i].Description = contract.TruncateRunes(items[i].Description, MaxDescriptionLen)
	}
	if len(items) > MaxItems {
		return items[:MaxItems]
	}
	return items
}
