package schema

// Audits holds the dependency audit results keyed by ecosystem.
// A nil entry means the ecosystem's manifest was not found or audits were not requested.
type Audits struct {
	Npm *DependencyAudit `json:"npm,omitempty"`
	Pip *DependencyAudit `json:"pip,omitempty"`
	Go  *DependencyAudit `json:"go,omitempty"`
}

// Empty reports whether no audit produced a result.
func (a Audits) Empty() bool {
	return a.Npm == nil && a.Pip == nil && a.Go == nil
}

// DependencyAudit is the normalized result of one external vulnerability scanner.
// Error is set if and only if the scanner was missing, failed or returned unusable output.
type DependencyAudit struct {
	Tool            string              `json:"tool"`
	Error           string              `json:"error,omitempty"`
	Vulnerabilities *SeverityCounts     `json:"vulnerabilities,omitempty"`
	Count           int                 `json:"count"`
	Items           []VulnerabilityItem `json:"items,omitempty"`
}

// Failed reports whether the audit carries an error instead of findings.
func (d *DependencyAudit) Failed() bool {
	return d != nil && d.Error != ""
}

// SeverityCounts buckets vulnerabilities by severity, as reported by npm.
type SeverityCounts struct {
	Info     int `json:"info"`
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
	Critical int `json:"critical"`
	Total    int `json:"total"`
}

// VulnerabilityItem is one advisory affecting one package version.
type VulnerabilityItem struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	ID          string   `json:"id"`
	FixVersions []string `json:"fix_versions"`
	Description string   `json:"description"`
}
