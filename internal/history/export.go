package history

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/internal/parquet"
)

// Export file names written under the output directory.
const (
	RunsParquetFile     = "runs.parquet"
	HotspotsParquetFile = "hotspots.parquet"
)

// Export writes every recorded run and churn hotspot to Parquet files in outputDir.
func Export(store contract.HistoryStore, outputDir string, w io.Writer) error {
	if outputDir == "" {
		return errors.New("--output-dir is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total hotspot records: %d\n", status.TotalHotspots)

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	hotspots, err := store.GetAllHotspots()
	if err != nil {
		return fmt.Errorf("failed to retrieve churn hotspots: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	runsFile := filepath.Join(outputDir, RunsParquetFile)
	parquetRuns := parquet.ConvertRunRecords(runs)
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	hotspotsFile := filepath.Join(outputDir, HotspotsParquetFile)
	parquetHotspots := parquet.ConvertHotspotRecords(hotspots)
	if err := parquet.WriteHotspotsParquet(parquetHotspots, hotspotsFile); err != nil {
		return fmt.Errorf("failed to write churn hotspots: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d hotspot records to: %s\n", len(parquetHotspots), hotspotsFile)

	_, _ = fmt.Fprintln(w, "\nExport complete! The Parquet files can be used with:")
	_, _ = fmt.Fprintln(w, "  - DuckDB")
	_, _ = fmt.Fprintln(w, "  - Pandas (via pyarrow)")
	_, _ = fmt.Fprintln(w, "  - Any other Parquet-compatible tool")
	return nil
}
