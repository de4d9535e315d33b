package scan

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule is one labeled secret pattern.
type Rule struct {
	Label   string
	Pattern *regexp.Regexp
}

// RuleSet is an ordered, appendable table of secret rules.
// Every rule is tested against every scanned line.
type RuleSet []Rule

// DefaultRules returns a fresh copy of the built-in secret rules.
func DefaultRules() RuleSet {
	return RuleSet{
		{Label: "AWS Access Key ID", Pattern: regexp.MustCompile(`AKIA[0-9A-Z]{16}`)},
		{Label: "AWS STS Key ID", Pattern: regexp.MustCompile(`ASIA[0-9A-Z]{16}`)},
		{Label: "AWS Secret Access Key", Pattern: regexp.MustCompile(`(?i)aws_secret_access_key\s*[:=]\s*[0-9A-Za-z/+=]{40}`)},
		{Label: "Google API Key-ish", Pattern: regexp.MustCompile(`(?i)(^|[^A-Za-z0-9])AIZA[0-9A-Za-z\-_]{35,}`)},
		{Label: "GitHub Personal Access Token", Pattern: regexp.MustCompile(`ghp_[A-Za-z0-9]{36,}`)},
		{Label: "Generic secret key", Pattern: regexp.MustCompile(`(?i)secret[_-]?key\s*[:=]\s*['"][A-Za-z0-9/+=]{16,}`)},
		{Label: "GitHub Fine-Grained Token", Pattern: regexp.MustCompile(`github_pat_[A-Za-z0-9_]{22,}`)},
		{Label: "Slack Token", Pattern: regexp.MustCompile(`xox[abprs]-[0-9A-Za-z-]{10,}`)},
		{Label: "Stripe Live Secret Key", Pattern: regexp.MustCompile(`sk_live_[0-9A-Za-z]{24,}`)},
		{Label: "Private Key Block", Pattern: regexp.MustCompile(`-----BEGIN (RSA |EC |DSA |OPENSSH |PGP )?PRIVATE KEY( BLOCK)?-----`)},
	}
}

// Match returns the labels of every rule matching line, in table order.
func (rs RuleSet) Match(line string) []string {
	var labels []string
	for _, r := range rs {
		if r.Pattern.MatchString(line) {
			labels = append(labels, r.Label)
		}
	}
	return labels
}

// rulesFile is the on-disk shape of a --rules-file document.
type rulesFile struct {
	Rules []struct {
		Label   string `yaml:"label"`
		Pattern string `yaml:"pattern"`
	} `yaml:"rules"`
}

// ParseRules decodes a YAML rules document into a RuleSet.
func ParseRules(data []byte) (RuleSet, error) {
	var doc rulesFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	rules := make(RuleSet, 0, len(doc.Rules))
	for i, raw := range doc.Rules {
		label := strings.TrimSpace(raw.Label)
		if label == "" {
			return nil, fmt.Errorf("rule %d: label is required", i+1)
		}
		if raw.Pattern == "" {
			return nil, fmt.Errorf("rule %q: pattern is required", label)
		}
		re, err := regexp.Compile(raw.Pattern)
		if err != nil {
			return nil, fmt.Errorf("rule %q: invalid pattern: %w", label, err)
		}
		rules = append(rules, Rule{Label: label, Pattern: re})
	}
	return rules, nil
}

// LoadRules returns the built-in rules followed by the rules in path.
// An empty path yields the built-in rules alone.
func LoadRules(path string) (RuleSet, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	extra, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return append(rules, extra...), nil
}
