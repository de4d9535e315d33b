package audit

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const npmOutput = `{
  "auditReportVersion": 2,
  "vulnerabilities": {
    "minimist": {
      "name": "minimist",
      "severity": "critical",
      "range": "<0.2.4",
      "via": [
        {"source": 1096727, "name": "minimist", "title": "Prototype Pollution in minimist", "url": "https://github.com/advisories/GHSA-xvch-5gv4-984h"}
      ],
      "fixAvailable": {"name": "mkdirp", "version": "0.5.6", "isSemVerMajor": false}
    },
    "mkdirp": {
      "name": "mkdirp",
      "severity": "critical",
      "range": "0.4.1 - 0.5.1",
      "via": ["minimist"],
      "fixAvailable": true
    }
  },
  "metadata": {
    "vulnerabilities": {"info": 0, "low": 0, "moderate": 0, "high": 0, "critical": 2, "total": 2}
  }
}`

const pipLegacyOutput = `[
  {"name": "flask", "version": "0.5", "vulns": [
    {"id": "PYSEC-2019-179", "fix_versions": ["1.0"], "description": "The Flask-Session extension..."},
    {"id": "PYSEC-2018-66", "fix_versions": ["0.12.3"], "description": "Flask before 0.12.3 ..."}
  ]},
  {"name": "requests", "version": "2.31.0", "vulns": []}
]`

const pipObjectOutput = `{"dependencies": [
  {"name": "jinja2", "version": "2.4", "vulns": [
    {"id": "GHSA-h5c8-rqwp-cp95", "fix_versions": null, "aliases": ["CVE-2024-22195"], "description": "xmlattr filter"}
  ]},
  {"name": "local-pkg", "skip_reason": "Dependency not found on PyPI"}
], "fixes": []}`

const govulnOutput = `{"config": {"protocol_version": "v1.0.0", "scanner_name": "govulncheck"}}
{"progress": {"message": "Scanning your code and 48 packages across 3 dependent modules for known vulnerabilities..."}}
{"finding": {"osv": "GO-2023-2153", "fixed_version": "v0.17.0", "trace": [{"module": "golang.org/x/net", "version": "v0.15.0", "package": "golang.org/x/net/http2"}]}}
{"osv": {"id": "GO-2023-2153", "summary": "Denial of service from HTTP/2 Rapid Reset in golang.org/x/net", "details": "long text"}}
{"finding": {"osv": "GO-2023-2153", "fixed_version": "v0.17.0", "trace": [{"module": "golang.org/x/net", "version": "v0.15.0", "package": "golang.org/x/net/http2", "function": "ServeConn"}]}}
{"osv": {"id": "GO-2024-2687", "details": "HTTP/2 CONTINUATION flood"}}
{"finding": {"osv": "GO-2024-2687", "trace": [{"module": "stdlib", "version": "v1.21.0"}]}}
`

// repoWith creates a directory holding the named manifests.
func repoWith(t *testing.T, manifests ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, m := range manifests {
		require.NoError(t, os.WriteFile(filepath.Join(dir, m), []byte("{}"), 0o644))
	}
	return dir
}

func TestParseNpmAudit(t *testing.T) {
	res, err := ParseNpmAudit([]byte(npmOutput))
	require.NoError(t, err)

	assert.Equal(t, "npm audit", res.Tool)
	assert.Empty(t, res.Error)
	require.NotNil(t, res.Vulnerabilities)
	assert.Equal(t, 2, res.Vulnerabilities.Critical)
	assert.Equal(t, 2, res.Count)
	require.Len(t, res.Items, 1, "string via entries are references, not advisories")
	assert.Equal(t, schema.VulnerabilityItem{
		Name:        "minimist",
		Version:     "<0.2.4",
		ID:          "https://github.com/advisories/GHSA-xvch-5gv4-984h",
		FixVersions: []string{"mkdirp@0.5.6"},
		Description: "Prototype Pollution in minimist",
	}, res.Items[0])
}

func TestParseNpmAuditErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		errMsg string
	}{
		{"not json", "npm ERR! oops", "invalid npm audit output"},
		{"error summary", `{"error": {"code": "ENOLOCK", "summary": "This command requires an existing lockfile."}}`, "requires an existing lockfile"},
		{"error code only", `{"error": {"code": "EAUDITNOLOCK"}}`, "EAUDITNOLOCK"},
		{"missing metadata", `{"auditReportVersion": 2}`, "no metadata.vulnerabilities"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNpmAudit([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestParsePipAuditLegacy(t *testing.T) {
	res, err := ParsePipAudit([]byte(pipLegacyOutput))
	require.NoError(t, err)
	assert.Equal(t, "pip-audit", res.Tool)
	assert.Nil(t, res.Vulnerabilities)
	assert.Equal(t, 2, res.Count)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "flask", res.Items[0].Name)
	assert.Equal(t, "0.5", res.Items[0].Version)
	assert.Equal(t, "PYSEC-2019-179", res.Items[0].ID)
	assert.Equal(t, []string{"1.0"}, res.Items[0].FixVersions)
}

func TestParsePipAuditObject(t *testing.T) {
	res, err := ParsePipAudit([]byte(pipObjectOutput))
	require.NoError(t, err)
	assert.Equal(t, 1, res.Count)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "GHSA-h5c8-rqwp-cp95", res.Items[0].ID)
	assert.NotNil(t, res.Items[0].FixVersions)
	assert.Empty(t, res.Items[0].FixVersions)
}

func TestParsePipAuditLimits(t *testing.T) {
	var b strings.Builder
	b.WriteString(`[{"name": "pkg", "version": "1.0", "vulns": [`)
	for i := range 250 {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"id": "V", "fix_versions": [], "description": "` + strings.Repeat("d", 500) + `"}`)
	}
	b.WriteString(`]}]`)

	res, err := ParsePipAudit([]byte(b.String()))
	require.NoError(t, err)
	assert.Equal(t, 250, res.Count, "count covers every finding")
	assert.Len(t, res.Items, MaxItems)
	assert.Len(t, res.Items[0].Description, MaxDescriptionLen)
}

func TestParsePipAuditErrors(t *testing.T) {
	for _, input := range []string{`{"fixes": []}`, `"text"`, `[{"name": 1}]`, `{"dependencies": "x"}`} {
		_, err := ParsePipAudit([]byte(input))
		assert.Error(t, err, input)
	}
	res, err := ParsePipAudit([]byte("  "))
	require.NoError(t, err)
	assert.Zero(t, res.Count)
}

func TestParseGovulncheck(t *testing.T) {
	res, err := ParseGovulncheck([]byte(govulnOutput))
	require.NoError(t, err)
	assert.Equal(t, "govulncheck", res.Tool)
	assert.Equal(t, 2, res.Count)
	require.Len(t, res.Items, 2)
	assert.Equal(t, schema.VulnerabilityItem{
		Name:        "golang.org/x/net",
		Version:     "v0.15.0",
		ID:          "GO-2023-2153",
		FixVersions: []string{"v0.17.0"},
		Description: "Denial of service from HTTP/2 Rapid Reset in golang.org/x/net",
	}, res.Items[0])
	assert.Equal(t, "stdlib", res.Items[1].Name)
	assert.Empty(t, res.Items[1].FixVersions)
	assert.Equal(t, "HTTP/2 CONTINUATION flood", res.Items[1].Description)

	_, err = ParseGovulncheck([]byte(`{"finding": `))
	assert.Error(t, err)
}

func TestAdapterMissingManifest(t *testing.T) {
	dir := repoWith(t)
	runner := &contract.MockRunner{}
	for _, a := range DefaultAdapters() {
		assert.False(t, a.Detect(dir), a.Name())
		assert.Nil(t, a.Run(context.Background(), runner, dir), a.Name())
	}
	runner.AssertNotCalled(t, "LookPath", mock.Anything)
	assert.True(t, Run(context.Background(), runner, dir, DefaultAdapters()...).Empty())
}

func TestAdapterToolNotInstalled(t *testing.T) {
	dir := repoWith(t, "package.json", "requirements.txt", "go.mod")
	runner := &contract.MockRunner{}
	runner.On("LookPath", mock.Anything).Return("", errors.New("executable file not found in $PATH"))

	audits := Run(context.Background(), runner, dir, DefaultAdapters()...)
	require.NotNil(t, audits.Npm)
	require.NotNil(t, audits.Pip)
	require.NotNil(t, audits.Go)
	assert.Equal(t, "npm not installed", audits.Npm.Error)
	assert.Equal(t, "pip-audit not installed", audits.Pip.Error)
	assert.Equal(t, "govulncheck not installed", audits.Go.Error)
	runner.AssertNotCalled(t, "Run")
}

func TestAdapterFailureWithoutOutput(t *testing.T) {
	dir := repoWith(t, "package.json", "pyproject.toml")
	runner := &contract.MockRunner{}
	runner.On("LookPath", mock.Anything).Return("/usr/bin/tool", nil)
	runner.On("Run", mock.Anything, dir, contract.AuditTimeout, "npm", "audit", "--json").
		Return(contract.Result{ExitCode: 1, Stderr: "npm ERR! network"})
	runner.On("Run", mock.Anything, dir, contract.AuditTimeout, "pip-audit", "-f", "json").
		Return(contract.Result{ExitCode: 2})

	audits := Run(context.Background(), runner, dir, &NpmAdapter{}, &PipAdapter{})
	assert.Equal(t, "npm ERR! network", audits.Npm.Error)
	assert.Equal(t, "pip-audit failed", audits.Pip.Error)
	assert.Nil(t, audits.Go)
	runner.AssertExpectations(t)
}

func TestAdapterNonZeroExitWithOutput(t *testing.T) {
	dir := repoWith(t, "package.json")
	runner := &contract.MockRunner{}
	runner.On("LookPath", "npm").Return("/usr/bin/npm", nil)
	runner.On("Run", mock.Anything, dir, contract.AuditTimeout, "npm", "audit", "--json").
		Return(contract.Result{ExitCode: 1, Stdout: npmOutput})

	audits := Run(context.Background(), runner, dir, &NpmAdapter{})
	require.NotNil(t, audits.Npm)
	assert.False(t, audits.Npm.Failed())
	assert.Equal(t, 2, audits.Npm.Count)
}

func TestAdapterDecodeFailure(t *testing.T) {
	dir := repoWith(t, "go.mod")
	runner := &contract.MockRunner{}
	runner.On("LookPath", "govulncheck").Return("/go/bin/govulncheck", nil)
	runner.On("Run", mock.Anything, dir, contract.AuditTimeout, "govulncheck", "-format", "json", "./...").
		Return(contract.Result{Stdout: "not json"})

	audits := Run(context.Background(), runner, dir, &GoVulnAdapter{})
	require.NotNil(t, audits.Go)
	assert.Contains(t, audits.Go.Error, "invalid govulncheck output")
	assert.Nil(t, audits.Npm)
}
