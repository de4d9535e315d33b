package contract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ErrGitCommand is wrapped by every error returned from LocalGitClient.Run.
var ErrGitCommand = errors.New("git command failed")

// SinceFormat is the timestamp layout passed to git --since.
const SinceFormat = "2006-01-02T15:04:05"

// CommitLogFormat is the pretty format of one commit log line.
const CommitLogFormat = "%H%x09%an%x09%ad%x09%s"

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary through a Runner.
type LocalGitClient struct {
	runner Runner
}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient(runner Runner) *LocalGitClient {
	return &LocalGitClient{runner: runner}
}

// Run executes a git command and returns its trimmed stdout.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) (string, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	res := c.runner.Run(ctx, "", DefaultTimeout, "git", fullArgs...)
	if !res.OK() {
		sub := ""
		if len(args) > 0 {
			sub = args[0]
		}
		return "", fmt.Errorf("%w: git %s in %q exited %d: %s", ErrGitCommand, sub, repoPath, res.ExitCode, res.Stderr)
	}
	return res.Stdout, nil
}

// IsInsideWorkTree implements the GitClient interface.
func (c *LocalGitClient) IsInsideWorkTree(ctx context.Context, path string) bool {
	out, err := c.Run(ctx, path, "rev-parse", "--is-inside-work-tree")
	return err == nil && out == "true"
}

// GetRepoRoot implements the GitClient interface.
func (c *LocalGitClient) GetRepoRoot(ctx context.Context, path string) (string, error) {
	out, err := c.Run(ctx, path, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	if out == "" {
		return "", fmt.Errorf("%w: empty repository root for %q", ErrGitCommand, path)
	}
	return filepath.Clean(out), nil
}

// GetCommitLog implements the GitClient interface.
func (c *LocalGitClient) GetCommitLog(ctx context.Context, repoPath string, since time.Time) (string, error) {
	return c.Run(ctx, repoPath,
		"log",
		"--since="+since.UTC().Format(SinceFormat),
		"--date=iso-strict",
		"--pretty="+CommitLogFormat,
	)
}

// GetNumstatLog implements the GitClient interface.
func (c *LocalGitClient) GetNumstatLog(ctx context.Context, repoPath string, since time.Time) (string, error) {
	return c.Run(ctx, repoPath,
		"log",
		"--since="+since.UTC().Format(SinceFormat),
		"--numstat",
		"--pretty=%H",
	)
}

// GetShortlog implements the GitClient interface.
func (c *LocalGitClient) GetShortlog(ctx context.Context, repoPath string) (string, error) {
	return c.Run(ctx, repoPath, "shortlog", "-sne", "HEAD")
}

// ListFiles implements the GitClient interface.
// Paths are read NUL-separated so that git does not quote unusual names.
func (c *LocalGitClient) ListFiles(ctx context.Context, repoPath string) ([]string, error) {
	out, err := c.Run(ctx, repoPath, "ls-files", "-z")
	if err != nil {
		return nil, err
	}
	var files []string
	for f := range strings.SplitSeq(out, "\x00") {
		if f != "" {
			files = append(files, f)
		}
	}
	return files, nil
}
