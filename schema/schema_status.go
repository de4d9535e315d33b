package schema

import "time"

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend        string           `json:"backend"`
	Connected      bool             `json:"connected"`
	SchemaVersion  *int             `json:"schema_version"`
	TotalRuns      int              `json:"total_runs"`
	TotalHotspots  int              `json:"total_hotspots"`
	LastRunID      int64            `json:"last_run_id"`
	LastRunTime    time.Time        `json:"last_run_time"`
	OldestRunTime  time.Time        `json:"oldest_run_time"`
	DistinctRepos  int              `json:"distinct_repos"`
	TableRowCounts map[string]int64 `json:"table_row_counts"`
}
