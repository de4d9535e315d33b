//go:build database

package integration

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestHistoryWithMySQL records runs into a MySQL history backend.
func TestHistoryWithMySQL(t *testing.T) {
	ctx := context.Background()

	// Start MySQL container
	req := testcontainers.ContainerRequest{
		Image:        "mysql:8",
		ExposedPorts: []string{"3306/tcp"},
		Env: map[string]string{
			"MYSQL_ROOT_PASSWORD": "secret123",
			"MYSQL_DATABASE":      "repoaudit",
		},
		WaitingFor: wait.ForLog("port: 3306  MySQL Community Server").WithStartupTimeout(60 * time.Second),
	}
	mysqlC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = mysqlC.Terminate(ctx) }()

	// Get connection details
	host, err := mysqlC.Host(ctx)
	require.NoError(t, err)
	port, err := mysqlC.MappedPort(ctx, "3306")
	require.NoError(t, err)

	connStr := fmt.Sprintf("root:secret123@tcp(%s:%s)/repoaudit", host, port.Port())
	exerciseHistoryBackend(t, "mysql", connStr)
}

// TestHistoryWithPostgres records runs into a PostgreSQL history backend.
func TestHistoryWithPostgres(t *testing.T) {
	ctx := context.Background()

	// Start Postgres container
	req := testcontainers.ContainerRequest{
		Image:        "postgres:18-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_HOST_AUTH_METHOD": "trust",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	defer func() { _ = pgC.Terminate(ctx) }()

	// Get connection details
	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connStr := fmt.Sprintf("host=%s port=%s user=postgres dbname=postgres sslmode=disable", host, port.Port())
	exerciseHistoryBackend(t, "postgresql", connStr)
}

// exerciseHistoryBackend clears, records, inspects and exports history on one backend.
func exerciseHistoryBackend(t *testing.T, backend, connStr string) {
	t.Helper()
	repo := newTestRepo(t)
	env := []string{
		"REPOAUDIT_HISTORY_BACKEND=" + backend,
		"REPOAUDIT_HISTORY_DB_CONNECT=" + connStr,
	}

	_, err := runRepoaudit(t, repo, env, "history", "clear")
	require.NoError(t, err)

	_, err = runRepoaudit(t, repo, env, "history", "migrate")
	require.NoError(t, err)

	for range 2 {
		_, err = runRepoaudit(t, repo, env, "report", "--quiet")
		require.NoError(t, err)
	}

	out, err := runRepoaudit(t, repo, env, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "History Backend: "+backend)
	assert.Contains(t, out, "Total Runs: 2")

	exportDir := filepath.Join(t.TempDir(), "exports")
	_, err = runRepoaudit(t, repo, env, "history", "export", "--output-dir", exportDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(exportDir, "runs.parquet"))
	assert.FileExists(t, filepath.Join(exportDir, "hotspots.parquet"))

	_, err = runRepoaudit(t, repo, env, "history", "clear")
	require.NoError(t, err)
}
