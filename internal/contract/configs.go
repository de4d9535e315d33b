package contract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/repoaudit/schema"
)

// Default values for configuration.
const (
	DefaultWindowDays      = 365
	DefaultChurnWindowDays = 90
	DefaultChurnLimit      = 20
	MaxChurnLimit          = 1000
	DefaultLargeFileSize   = "5MiB"
)

// ErrNotRepository is returned when the audited path is not inside a git work tree.
var ErrNotRepository = errors.New("not a git repository")

// Config holds the runtime configuration for the audit.
// This struct remains the "final, validated" config.
type Config struct {
	RepoPath string    // Absolute work tree root, threaded into every git and tool call
	Now      time.Time // Reference time for lookback windows and the report timestamp

	WindowDays      int
	ChurnWindowDays int
	ChurnLimit      int
	Deep            bool // Run dependency audits

	OutMarkdown    string
	OutJSON        string
	LargeFileBytes int64
	RulesFile      string

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Width     int // Terminal width override (0 = auto-detect)
	UseColors bool
	Quiet     bool
	Verbose   bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RepoPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Color            string `mapstructure:"color"`
	Width            int    `mapstructure:"width"`
	Verbose          bool   `mapstructure:"verbose"`

	// --- Fields from reportCmd.Flags() ---
	Window        int    `mapstructure:"window"`
	ChurnWindow   int    `mapstructure:"churn-window"`
	ChurnLimit    int    `mapstructure:"churn-limit"`
	Deep          bool   `mapstructure:"deep"`
	OutMD         string `mapstructure:"out-md"`
	OutJSON       string `mapstructure:"out-json"`
	LargeFileSize string `mapstructure:"large-file-size"`
	RulesFile     string `mapstructure:"rules-file"`
	Quiet         bool   `mapstructure:"quiet"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. It fails with ErrNotRepository when the
// requested path is not inside a git work tree.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := ValidateHistoryConfig(cfg, input); err != nil {
		return err
	}
	return resolveRepoPath(ctx, cfg, client, input)
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.Deep = input.Deep
	cfg.RulesFile = input.RulesFile
	cfg.Width = input.Width
	cfg.Quiet = input.Quiet
	cfg.Verbose = input.Verbose
	cfg.Now = time.Now().UTC()

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Window Validation ---
	if input.Window <= 0 {
		return fmt.Errorf("window must be greater than 0 days (received %d)", input.Window)
	}
	cfg.WindowDays = input.Window

	if input.ChurnWindow <= 0 {
		return fmt.Errorf("churn-window must be greater than 0 days (received %d)", input.ChurnWindow)
	}
	cfg.ChurnWindowDays = input.ChurnWindow

	// --- 2. ChurnLimit Validation ---
	if input.ChurnLimit <= 0 || input.ChurnLimit > MaxChurnLimit {
		return fmt.Errorf("churn-limit must be greater than 0 and cannot exceed %d (received %d)", MaxChurnLimit, input.ChurnLimit)
	}
	cfg.ChurnLimit = input.ChurnLimit

	// --- 3. Output Validation ---
	cfg.OutMarkdown = strings.TrimSpace(input.OutMD)
	cfg.OutJSON = strings.TrimSpace(input.OutJSON)
	if cfg.OutMarkdown == "" || cfg.OutJSON == "" {
		return fmt.Errorf("out-md and out-json must not be empty")
	}
	if filepath.Clean(cfg.OutMarkdown) == filepath.Clean(cfg.OutJSON) {
		return fmt.Errorf("out-md and out-json must be different files (both are %q)", cfg.OutJSON)
	}

	// --- 4. Large File Threshold ---
	size := input.LargeFileSize
	if size == "" {
		size = DefaultLargeFileSize
	}
	bytes, err := humanize.ParseBytes(size)
	if err != nil {
		return fmt.Errorf("invalid --large-file-size value %q: %w", size, err)
	}
	if bytes == 0 {
		return fmt.Errorf("large-file-size must be greater than 0")
	}
	cfg.LargeFileBytes = int64(bytes)

	return nil
}

// ValidateHistoryConfig validates the history backend configuration.
// An empty backend means history is disabled.
func ValidateHistoryConfig(cfg *Config, input *ConfigRawInput) error {
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(input.HistoryBackend)))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	if err := ValidateDatabaseConnectionString(backend, input.HistoryDBConnect); err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return nil
}

// resolveRepoPath checks the work tree precondition and resolves the repository root.
func resolveRepoPath(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	searchPath := input.RepoPathStr
	if searchPath == "" {
		searchPath = "."
	}
	absSearchPath, err := filepath.Abs(searchPath)
	if err != nil {
		return err
	}
	absSearchPath = filepath.Clean(absSearchPath)

	if info, statErr := os.Stat(absSearchPath); statErr == nil && !info.IsDir() {
		absSearchPath = filepath.Dir(absSearchPath)
	}

	if !client.IsInsideWorkTree(ctx, absSearchPath) {
		return fmt.Errorf("%w: %s. Run inside a repo", ErrNotRepository, absSearchPath)
	}

	gitRoot, err := client.GetRepoRoot(ctx, absSearchPath)
	if err != nil {
		return err
	}
	cfg.RepoPath = gitRoot
	return nil
}
