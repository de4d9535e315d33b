package cmd

import (
	"github.com/huangsam/repoaudit/core/scan"
	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/internal/outwriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// rulesCmd lists the secret detection rules that a report would use.
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List the active secret detection rules.",
	Long: `The rules command prints every secret detection rule that the report
command applies: the built-in rules first, followed by any rules loaded
from --rules-file.

A rules file is YAML with a list of label and pattern pairs:

  rules:
    - label: internal-token
      pattern: 'itk_[A-Za-z0-9]{32}'

Examples:
  # Show the built-in rules
  repoaudit rules

  # Check that a custom rules file parses and see the merged set
  repoaudit rules --rules-file .repoaudit-rules.yaml`,
	Args: cobra.NoArgs,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if err := readConfigFile(); err != nil {
			return err
		}
		input.RulesFile = viper.GetString("rules-file")
		colors, err := contract.ParseBoolString(viper.GetString("color"))
		if err != nil {
			return err
		}
		cfg.UseColors = colors
		cfg.Width = viper.GetInt("width")
		return nil
	},
	Run: func(_ *cobra.Command, _ []string) {
		rules, err := scan.LoadRules(input.RulesFile)
		if err != nil {
			contract.LogFatal("Cannot load rules", err)
		}
		if err := outwriter.NewOutWriter().WriteRules(rules, cfg); err != nil {
			contract.LogFatal("Cannot print rules", err)
		}
	},
}
