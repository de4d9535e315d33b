// Package parquet provides data structures and functions for exporting repoaudit
// run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/huangsam/repoaudit/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single recorded audit run.
// This struct maps to the repoaudit_runs database table.
type Run struct {
	RunID    int64  `parquet:"run_id,snappy"`
	RepoPath string `parquet:"repo_path,snappy,dict"`

	// HeadSHA and Branch are null when git could not resolve them
	HeadSHA *string `parquet:"head_sha,optional,snappy"`
	Branch  *string `parquet:"branch,optional,snappy"`

	GeneratedAt time.Time `parquet:"generated_at,snappy"`

	WindowDays         int32 `parquet:"window_days,snappy"`
	TotalCommitsWindow int32 `parquet:"total_commits_window,snappy"`
	ActiveDays         int32 `parquet:"active_days,snappy"`
	TodoCount          int32 `parquet:"todo_count,snappy"`
	SecretCount        int32 `parquet:"secret_count,snappy"`
	EnvFileCount       int32 `parquet:"env_file_count,snappy"`
	LargeFileCount     int32 `parquet:"large_file_count,snappy"`
	QuickWinCount      int32 `parquet:"quick_win_count,snappy"`
}

// Hotspot represents one ranked churn file of a run.
// This struct maps to the repoaudit_churn_hotspots database table.
type Hotspot struct {
	RunID       int64     `parquet:"run_id,snappy"`
	Rank        int32     `parquet:"rank,snappy"`
	FilePath    string    `parquet:"file_path,snappy,dict"`
	Added       int32     `parquet:"added,snappy"`
	Deleted     int32     `parquet:"deleted,snappy"`
	Touches     int32     `parquet:"touches,snappy"`
	GeneratedAt time.Time `parquet:"generated_at,snappy"`
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteHotspotsParquet writes a slice of Hotspot structs to a Parquet file.
func WriteHotspotsParquet(data []Hotspot, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows with a schema inferred from the struct tags of T.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	// Close flushes the footer
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:              record.RunID,
			RepoPath:           record.RepoPath,
			HeadSHA:            record.HeadSHA,
			Branch:             record.Branch,
			GeneratedAt:        record.GeneratedAt,
			WindowDays:         record.WindowDays,
			TotalCommitsWindow: record.TotalCommitsWindow,
			ActiveDays:         record.ActiveDays,
			TodoCount:          record.TodoCount,
			SecretCount:        record.SecretCount,
			EnvFileCount:       record.EnvFileCount,
			LargeFileCount:     record.LargeFileCount,
			QuickWinCount:      record.QuickWinCount,
		}
	}
	return result
}

// ConvertHotspotRecords converts schema.HotspotRecord to Hotspot for Parquet export.
func ConvertHotspotRecords(records []schema.HotspotRecord) []Hotspot {
	result := make([]Hotspot, len(records))
	for i, record := range records {
		result[i] = Hotspot{
			RunID:       record.RunID,
			Rank:        record.Rank,
			FilePath:    record.FilePath,
			Added:       record.Added,
			Deleted:     record.Deleted,
			Touches:     record.Touches,
			GeneratedAt: record.GeneratedAt,
		}
	}
	return result
}
