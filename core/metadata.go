package core

import (
	"context"
	"strconv"
	"strings"

	"github.com/huangsam/repoaudit/core/agg"
	"github.com/huangsam/repoaudit/internal/contract"
	"github.com/huangsam/repoaudit/schema"
)

// fallbackDefaultBranch is used when neither git config nor origin name a default branch.
const fallbackDefaultBranch = "main"

// BuildMetadata collects the repository snapshot. Each query is independent:
// a failed query leaves only its own field empty.
func BuildMetadata(ctx context.Context, client contract.GitClient, repoPath string) schema.RepositoryMetadata {
	query := func(args ...string) (string, bool) {
		out, err := client.Run(ctx, repoPath, args...)
		if err != nil {
			return "", false
		}
		return strings.TrimSpace(out), true
	}
	text := func(args ...string) *string {
		if out, ok := query(args...); ok {
			return &out
		}
		return nil
	}

	meta := schema.RepositoryMetadata{
		GitDir:         text("rev-parse", "--git-dir"),
		WorkTree:       text("rev-parse", "--show-toplevel"),
		CurrentBranch:  text("rev-parse", "--abbrev-ref", "HEAD"),
		HeadSHA:        text("rev-parse", "HEAD"),
		LastCommitDate: text("log", "-1", "--date=iso-strict", "--pretty=%ad"),
	}

	if out, ok := query("tag"); ok {
		n := agg.CountLines(out)
		meta.TagCount = &n
	}
	if out, ok := query("rev-list", "--count", "HEAD"); ok {
		if n, err := strconv.Atoi(out); err == nil {
			meta.CommitCount = &n
		}
	}
	if out, ok := query("remote", "-v"); ok {
		meta.Remotes = agg.ParseRemotes(out)
	}

	branch := fallbackDefaultBranch
	if out, ok := query("config", "--get", "init.defaultBranch"); ok && out != "" {
		branch = out
	}
	if out, ok := query("symbolic-ref", "refs/remotes/origin/HEAD"); ok && out != "" {
		branch = agg.BranchFromRef(out)
	}
	meta.DefaultBranch = &branch
	return meta
}
