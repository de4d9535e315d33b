package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/schema"
)

// Store implements contract.HistoryStore on top of database/sql.
type Store struct {
	db       *sql.DB
	migrator *migrate.Migrate
	backend  schema.DatabaseBackend
}

var _ contract.HistoryStore = &Store{} // Compile-time check

// NewStore opens the history store for backend and applies pending migrations.
// The none backend returns a store that records nothing.
func NewStore(backend schema.DatabaseBackend, connStr string) (*Store, error) {
	return openStore(backend, connStr, true)
}

// OpenStore opens the history store at whatever schema version it is at.
// Read-only commands use it so a deliberate rollback is left in place.
func OpenStore(backend schema.DatabaseBackend, connStr string) (*Store, error) {
	return openStore(backend, connStr, false)
}

func openStore(backend schema.DatabaseBackend, connStr string, migrateUp bool) (*Store, error) {
	if backend == schema.NoneBackend || backend == "" {
		return &Store{backend: schema.NoneBackend}, nil
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	m, err := newMigrator(db, backend)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if migrateUp {
		if err := upgrade(m); err != nil {
			_, _ = m.Close()
			return nil, err
		}
	}

	return &Store{db: db, migrator: m, backend: backend}, nil
}

// enabled reports whether the store is backed by a database.
func (s *Store) enabled() bool {
	return s.backend != schema.NoneBackend && s.db != nil
}

// RecordRun stores the run summary and its top churn files in one transaction.
func (s *Store) RecordRun(repoPath string, report *schema.Report) (int64, error) {
	if !s.enabled() {
		return 0, nil
	}

	ctx := context.Background()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	run := schema.NewRunRecord(repoPath, report)
	runID, err := s.insertRun(ctx, tx, run)
	if err != nil {
		return 0, err
	}

	hotspotQuery := fmt.Sprintf(
		`INSERT INTO %s (run_id, hotspot_rank, file_path, added, deleted, touches, generated_at) VALUES (%s)`,
		quoteTableName(hotspotsTable, s.backend), strings.Join(placeholders(s.backend, 7), ", "),
	)
	for i, f := range report.Churn.TopFiles {
		if _, err := tx.ExecContext(ctx, hotspotQuery,
			runID, i+1, f.Path, f.Added, f.Deleted, f.Touches, s.formatTime(run.GeneratedAt),
		); err != nil {
			return 0, fmt.Errorf("failed to insert churn hotspot %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}
	contract.Logger.WithField("run_id", runID).Debug("recorded run in history")
	return runID, nil
}

func (s *Store) insertRun(ctx context.Context, tx *sql.Tx, run schema.RunRecord) (int64, error) {
	columns := "repo_path, head_sha, branch, generated_at, window_days, total_commits_window, active_days, " +
		"todo_count, secret_count, env_file_count, large_file_count, quick_win_count"
	args := []any{
		run.RepoPath, run.HeadSHA, run.Branch, s.formatTime(run.GeneratedAt), run.WindowDays,
		run.TotalCommitsWindow, run.ActiveDays, run.TodoCount, run.SecretCount,
		run.EnvFileCount, run.LargeFileCount, run.QuickWinCount,
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteTableName(runsTable, s.backend), columns, strings.Join(placeholders(s.backend, len(args)), ", "))

	var runID int64
	switch s.backend {
	case schema.PostgreSQLBackend:
		if err := tx.QueryRowContext(ctx, query+" RETURNING run_id", args...).Scan(&runID); err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
	default: // SQLite and MySQL
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		runID, err = result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("failed to read run id: %w", err)
		}
	}
	return runID, nil
}

// GetAllRuns retrieves every recorded run, oldest first.
func (s *Store) GetAllRuns() ([]schema.RunRecord, error) {
	if !s.enabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, repo_path, head_sha, branch, generated_at, window_days, total_commits_window,
    active_days, todo_count, secret_count, env_file_count, large_file_count, quick_win_count
    FROM %s ORDER BY run_id`, quoteTableName(runsTable, s.backend))

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var generatedAt any
		if err := rows.Scan(&record.RunID, &record.RepoPath, &record.HeadSHA, &record.Branch, &generatedAt,
			&record.WindowDays, &record.TotalCommitsWindow, &record.ActiveDays, &record.TodoCount,
			&record.SecretCount, &record.EnvFileCount, &record.LargeFileCount, &record.QuickWinCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if record.GeneratedAt, err = parseTime(generatedAt); err != nil {
			return nil, fmt.Errorf("failed to parse generated_at: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}

// GetAllHotspots retrieves every recorded churn hotspot, ordered by run and rank.
func (s *Store) GetAllHotspots() ([]schema.HotspotRecord, error) {
	if !s.enabled() {
		return nil, nil
	}

	current, _, err := s.appliedVersion()
	if err != nil {
		return nil, err
	}
	if current < hotspotsTableVersion {
		return []schema.HotspotRecord{}, nil
	}

	query := fmt.Sprintf(`SELECT run_id, hotspot_rank, file_path, added, deleted, touches, generated_at
    FROM %s ORDER BY run_id, hotspot_rank`, quoteTableName(hotspotsTable, s.backend))

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query churn hotspots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.HotspotRecord
	for rows.Next() {
		var record schema.HotspotRecord
		var generatedAt any
		if err := rows.Scan(&record.RunID, &record.Rank, &record.FilePath, &record.Added,
			&record.Deleted, &record.Touches, &generatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan churn hotspot: %w", err)
		}
		if record.GeneratedAt, err = parseTime(generatedAt); err != nil {
			return nil, fmt.Errorf("failed to parse generated_at: %w", err)
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating churn hotspots: %w", err)
	}
	return results, nil
}

// GetStatus returns status information about the history store.
func (s *Store) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:        string(s.backend),
		Connected:      s.enabled(),
		TableRowCounts: make(map[string]int64),
	}
	if !s.enabled() {
		return status, nil
	}

	current, dirty, err := s.appliedVersion()
	if err != nil {
		return status, err
	}
	if !dirty {
		v := current
		status.SchemaVersion = &v
	}
	// Rolled back schemas may not have the tables yet
	if current < runsTableVersion {
		return status, nil
	}

	runs := quoteTableName(runsTable, s.backend)
	if err := s.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runs)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		var lastRunTime, oldestRunTime any
		lastRunQuery := fmt.Sprintf("SELECT run_id, generated_at FROM %s ORDER BY run_id DESC LIMIT 1", runs)
		if err := s.db.QueryRow(lastRunQuery).Scan(&status.LastRunID, &lastRunTime); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		oldestRunQuery := fmt.Sprintf("SELECT generated_at FROM %s ORDER BY run_id ASC LIMIT 1", runs)
		if err := s.db.QueryRow(oldestRunQuery).Scan(&oldestRunTime); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		var err error
		if status.LastRunTime, err = parseTime(lastRunTime); err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		if status.OldestRunTime, err = parseTime(oldestRunTime); err != nil {
			return status, fmt.Errorf("failed to parse oldest run time: %w", err)
		}

		reposQuery := fmt.Sprintf("SELECT COUNT(DISTINCT repo_path) FROM %s", runs)
		if err := s.db.QueryRow(reposQuery).Scan(&status.DistinctRepos); err != nil {
			return status, fmt.Errorf("failed to count repositories: %w", err)
		}
	}

	for _, table := range []string{runsTable, hotspotsTable} {
		if table == hotspotsTable && current < hotspotsTableVersion {
			continue
		}
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, s.backend))
		if err := s.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableRowCounts[table] = count
	}
	status.TotalHotspots = int(status.TableRowCounts[hotspotsTable])

	return status, nil
}

// appliedVersion returns the highest migration whose tables are known to exist.
// A dirty version counts as not applied, since the failed migration may be partial.
func (s *Store) appliedVersion() (int, bool, error) {
	version, dirty, err := s.migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to get schema version: %w", err)
	}
	if dirty {
		return int(version) - 1, true, nil
	}
	return int(version), false, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.migrator == nil {
		return nil
	}
	srcErr, dbErr := s.migrator.Close()
	s.migrator, s.db = nil, nil
	return errors.Join(srcErr, dbErr)
}

// formatTime converts a time.Time to the appropriate format for the backend.
func (s *Store) formatTime(t time.Time) any {
	if s.backend == schema.SQLiteBackend {
		return t.UTC().Format(time.RFC3339Nano)
	}
	return t.UTC()
}

// parseTime reads a timestamp column, which SQLite returns as text.
func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), nil
	case string:
		return time.Parse(time.RFC3339Nano, t)
	case []byte:
		return time.Parse(time.RFC3339Nano, string(t))
	default:
		return time.Time{}, fmt.Errorf("unexpected time value %T", v)
	}
}
