package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/schema"
)

var pipTool = tool{display: "pip-audit", binary: "pip-audit", args: []string{"-f", "json"}}

// PipAdapter audits Python dependencies with `pip-audit -f json`.
type PipAdapter struct{}

// Name implements Adapter.
func (a *PipAdapter) Name() string { return "pip" }

// Detect implements Adapter.
func (a *PipAdapter) Detect(repoPath string) bool {
	return fileExists(repoPath, "requirements.txt") || fileExists(repoPath, "pyproject.toml")
}

// Run implements Adapter.
func (a *PipAdapter) Run(ctx context.Context, runner contract.Runner, repoPath string) *schema.DependencyAudit {
	if !a.Detect(repoPath) {
		return nil
	}
	out, failed := pipTool.exec(ctx, runner, repoPath)
	if failed != nil {
		return failed
	}
	res, err := ParsePipAudit([]byte(out))
	if err != nil {
		return pipTool.fail(err.Error())
	}
	return res
}

type pipDependency struct {
	Name    string    `json:"name"`
	Version string    `json:"version"`
	Vulns   []pipVuln `json:"vulns"`
}

type pipVuln struct {
	ID          string   `json:"id"`
	FixVersions []string `json:"fix_versions"`
	Description string   `json:"description"`
}

// ParsePipAudit decodes pip-audit JSON in either the legacy array form or
// the {"dependencies": [...]} object form.
func ParsePipAudit(data []byte) (*schema.DependencyAudit, error) {
	var deps []pipDependency
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
	case bytes.HasPrefix(trimmed, []byte("[")):
		if err := json.Unmarshal(trimmed, &deps); err != nil {
			return nil, fmt.Errorf("invalid pip-audit output: %w", err)
		}
	case bytes.HasPrefix(trimmed, []byte("{")):
		var doc struct {
			Dependencies *[]pipDependency `json:"dependencies"`
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("invalid pip-audit output: %w", err)
		}
		if doc.Dependencies == nil {
			return nil, fmt.Errorf("pip-audit output has no dependencies list")
		}
		deps = *doc.Dependencies
	default:
		return nil, fmt.Errorf("unexpected pip-audit output")
	}

	items := []schema.VulnerabilityItem{}
	for _, dep := range deps {
		for _, v := range dep.Vulns {
			fix := v.FixVersions
			if fix == nil {
				fix = []string{}
			}
			items = append(items, schema.VulnerabilityItem{
				Name:        dep.Name,
				Version:     dep.Version,
				ID:          v.ID,
				FixVersions: fix,
				Description: v.Description,
			})
		}
	}
	return &schema.DependencyAudit{
		Tool:  pipTool.display,
		Count: len(items),
		Items: capItems(items),
	}, nil
}
