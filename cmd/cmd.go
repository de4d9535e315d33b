// Package cmd defines the command-line interface for repoaudit.
package cmd

import (
	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log every git and tool invocation")
	rootCmd.PersistentFlags().String("rules-file", "", "YAML file with extra secret rules")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().Int("window", contract.DefaultWindowDays, "Days of commit history to analyze")
	reportCmd.Flags().Int("churn-window", contract.DefaultChurnWindowDays, "Days of history for churn hot-spots")
	reportCmd.Flags().Int("churn-limit", contract.DefaultChurnLimit, "Number of churn hot-spots to keep")
	reportCmd.Flags().Bool("deep", false, "Run dependency audits (npm audit, pip-audit, govulncheck) when available")
	reportCmd.Flags().String("out-md", schema.DefaultMarkdownFile, "Markdown output filename")
	reportCmd.Flags().String("out-json", schema.DefaultJSONFile, "JSON output filename")
	reportCmd.Flags().String("large-file-size", contract.DefaultLargeFileSize, "Size at which a tracked file counts as large (e.g. 5MiB, 10MB)")
	reportCmd.Flags().BoolP("quiet", "q", false, "Skip the console summary")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of history subcommands to Viper
	historyExportCmd.Flags().String("output-dir", "", "Directory to write runs.parquet and hotspots.parquet into")
	if err := viper.BindPFlags(historyExportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history export flags", err)
	}
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
