// Package gitrepo shells out to the git CLI for the few read-only questions
// the scanner asks: what changed between two revisions, and what a file looked
// like at a revision. The content repository is treated as an opaque versioned
// source; no write operations exist here.
package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

type Repo struct {
	Dir string
}

// RevExists reports whether rev resolves in the repo. Used to fall back from
// HEAD~1 on shallow clones / initial commits.
func (r Repo) RevExists(ctx context.Context, rev string) bool {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "--verify", "--quiet", rev+"^{commit}")
	cmd.Dir = r.Dir
	return cmd.Run() == nil
}

// ChangedFiles lists repo-relative paths that differ between prev and curr.
// An empty curr diffs prev against the work tree. With addedOnly it restricts
// to newly added paths (diff-filter=A); otherwise added/modified/renamed paths
// are returned but deletions are excluded.
func (r Repo) ChangedFiles(ctx context.Context, prev, curr string, addedOnly bool) ([]string, error) {
	args := []string{"diff", "--name-only"}
	if addedOnly {
		args = append(args, "--diff-filter=A")
	} else {
		args = append(args, "--diff-filter=AMR")
	}
	args = append(args, prev)
	if curr != "" {
		args = append(args, curr)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git diff %s..%s: %w: %s", prev, curr, err, strings.TrimSpace(stderr.String()))
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// FileAt returns the content of path at rev. A path that does not exist at rev
// yields empty content and no error: the scanner treats "no previous version"
// as an empty previous version.
func (r Repo) FileAt(ctx context.Context, rev, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", "show", rev+":"+path)
	cmd.Dir = r.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		msg := stderr.String()
		if strings.Contains(msg, "does not exist") || strings.Contains(msg, "exists on disk, but not in") {
			return nil, nil
		}
		return nil, fmt.Errorf("git show %s:%s: %w: %s", rev, path, err, strings.TrimSpace(msg))
	}
	return out, nil
}

// Available reports whether the git binary can run at all (used by doctor).
func Available(ctx context.Context) bool {
	return exec.CommandContext(ctx, "git", "--version").Run() == nil
}
