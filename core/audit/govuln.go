package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/schema"
)

var govulnTool = tool{display: "govulncheck", binary: "govulncheck", args: []string{"-format", "json", "./..."}}

// GoVulnAdapter audits Go modules with `govulncheck -format json ./...`.
type GoVulnAdapter struct{}

// Name implements Adapter.
func (a *GoVulnAdapter) Name() string { return "go" }

// Detect implements Adapter.
func (a *GoVulnAdapter) Detect(repoPath string) bool {
	return fileExists(repoPath, "go.mod")
}

// Run implements Adapter.
func (a *GoVulnAdapter) Run(ctx context.Context, runner contract.Runner, repoPath string) *schema.DependencyAudit {
	if !a.Detect(repoPath) {
		return nil
	}
	out, failed := govulnTool.exec(ctx, runner, repoPath)
	if failed != nil {
		return failed
	}
	res, err := ParseGovulncheck([]byte(out))
	if err != nil {
		return govulnTool.fail(err.Error())
	}
	return res
}

// govulnMessage is one object of the govulncheck JSON stream.
type govulnMessage struct {
	OSV *struct {
		ID      string `json:"id"`
		Summary string `json:"summary"`
		Details string `json:"details"`
	} `json:"osv"`
	Finding *struct {
		OSV          string `json:"osv"`
		FixedVersion string `json:"fixed_version"`
		Trace        []struct {
			Module  string `json:"module"`
			Version string `json:"version"`
		} `json:"trace"`
	} `json:"finding"`
}

// ParseGovulncheck decodes the govulncheck message stream. Each distinct
// finding becomes one item described by its OSV summary.
func ParseGovulncheck(data []byte) (*schema.DependencyAudit, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	summaries := make(map[string]string)
	index := make(map[string]int)
	items := []schema.VulnerabilityItem{}

	for {
		var msg govulnMessage
		err := dec.Decode(&msg)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid govulncheck output: %w", err)
		}
		if msg.OSV != nil {
			desc := msg.OSV.Summary
			if desc == "" {
				desc = msg.OSV.Details
			}
			summaries[msg.OSV.ID] = desc
		}
		if f := msg.Finding; f != nil && f.OSV != "" {
			if _, dup := index[f.OSV]; dup {
				continue
			}
			item := schema.VulnerabilityItem{ID: f.OSV, FixVersions: []string{}}
			if len(f.Trace) > 0 {
				item.Name = f.Trace[0].Module
				item.Version = f.Trace[0].Version
			}
			if f.FixedVersion != "" {
				item.FixVersions = []string{f.FixedVersion}
			}
			index[f.OSV] = len(items)
			items = append(items, item)
		}
	}
	// OSV entries may arrive before or after their findings.
	for id, i := range index {
		items[i].Description = summaries[id]
	}
	return &schema.DependencyAudit{
		Tool:  govulnTool.display,
		Count: len(items),
		Items: capItems(items),
	}, nil
}
