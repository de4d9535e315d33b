package audit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/schema"
)

var npmTool = tool{display: "npm audit", binary: "npm", args: []string{"audit", "--json"}}

// NpmAdapter audits Node dependencies with `npm audit --json`.
type NpmAdapter struct{}

// Name implements Adapter.
func (a *NpmAdapter) Name() string { return "npm" }

// Detect implements Adapter.
func (a *NpmAdapter) Detect(repoPath string) bool {
	return fileExists(repoPath, "package.json")
}

// Run implements Adapter.
func (a *NpmAdapter) Run(ctx context.Context, runner contract.Runner, repoPath string) *schema.DependencyAudit {
	if !a.Detect(repoPath) {
		return nil
	}
	out, failed := npmTool.exec(ctx, runner, repoPath)
	if failed != nil {
		return failed
	}
	res, err := ParseNpmAudit([]byte(out))
	if err != nil {
		return npmTool.fail(err.Error())
	}
	return res
}

type npmReport struct {
	Error *struct {
		Code    string `json:"code"`
		Summary string `json:"summary"`
	} `json:"error"`
	Metadata struct {
		Vulnerabilities *schema.SeverityCounts `json:"vulnerabilities"`
	} `json:"metadata"`
	Vulnerabilities map[string]npmPackage `json:"vulnerabilities"`
}

type npmPackage struct {
	Name         string            `json:"name"`
	Range        string            `json:"range"`
	Via          []json.RawMessage `json:"via"`
	FixAvailable json.RawMessage   `json:"fixAvailable"`
}

type npmAdvisory struct {
	Source json.Number `json:"source"`
	Title  string      `json:"title"`
	URL    string      `json:"url"`
}

type npmFix struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// ParseNpmAudit decodes npm audit JSON into severity buckets and advisory items.
func ParseNpmAudit(data []byte) (*schema.DependencyAudit, error) {
	var report npmReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("invalid npm audit output: %w", err)
	}
	if report.Error != nil {
		if report.Error.Summary != "" {
			return nil, errors.New(report.Error.Summary)
		}
		return nil, fmt.Errorf("npm audit error %s", report.Error.Code)
	}
	if report.Metadata.Vulnerabilities == nil {
		return nil, errors.New("npm audit output has no metadata.vulnerabilities")
	}

	names := make([]string, 0, len(report.Vulnerabilities))
	for name := range report.Vulnerabilities {
		names = append(names, name)
	}
	sort.Strings(names)

	items := []schema.VulnerabilityItem{}
	for _, name := range names {
		pkg := report.Vulnerabilities[name]
		if pkg.Name == "" {
			pkg.Name = name
		}
		fix := npmFixVersions(pkg.FixAvailable)
		for _, raw := range pkg.Via {
			var adv npmAdvisory
			// Entries that are plain strings point at another vulnerable package.
			if json.Unmarshal(raw, &adv) != nil {
				continue
			}
			id := adv.URL
			if id == "" {
				id = adv.Source.String()
			}
			items = append(items, schema.VulnerabilityItem{
				Name:        pkg.Name,
				Version:     pkg.Range,
				ID:          id,
				FixVersions: fix,
				Description: adv.Title,
			})
		}
	}

	counts := report.Metadata.Vulnerabilities
	return &schema.DependencyAudit{
		Tool:            npmTool.display,
		Vulnerabilities: counts,
		Count:           counts.Total,
		Items:           capItems(items),
	}, nil
}

// npmFixVersions reads fixAvailable, which is either a bool or a {name, version} object.
func npmFixVersions(raw json.RawMessage) []string {
	var fix npmFix
	if len(raw) == 0 || json.Unmarshal(raw, &fix) != nil || fix.Version == "" {
		return []string{}
	}
	return []string{fix.Name + "@" + fix.Version}
}
