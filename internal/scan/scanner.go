// Package scan discovers newly published content items by comparing two
// revisions of the content repository: structured JSON index files are diffed
// record-by-record, and added HTML pages are picked up from the git file
// listing. The two discovery paths are then merged by canonical URL with the
// structured side winning.
package scan

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"announcer/internal/feed"
	"announcer/internal/gitrepo"
	"announcer/internal/ledger"
	"announcer/pkg/logx"
)

type Scanner struct {
	Repo       gitrepo.Repo
	BaseURL    string
	IndexDir   string // repo-relative, e.g. "assets/data"
	IgnoreDirs []string
	Ledger     *ledger.Ledger // optional; filters raw items already announced
	Log        logx.Logger
}

// Scan produces the deduplicated item batch for prev..curr. Every source-level
// problem (missing revision, unreadable file, malformed index) degrades to
// "fewer or extra candidates", never to a failed scan.
func (s *Scanner) Scan(ctx context.Context, prev, curr string) []feed.Item {
	log := s.Log
	if log.IsZero() {
		log = logx.Nop()
	}

	prev, curr = s.resolveRevs(ctx, prev, curr, log)

	dirs := s.contentDirs(log)
	log.Debug("content directories", logx.Any("dirs", dirs))

	structured := s.scanIndexes(ctx, prev, curr, dirs, log)
	log.Info("structured scan done", logx.Int("items", len(structured)))

	raw := s.scanHTML(ctx, prev, curr, dirs, log)
	log.Info("raw scan done", logx.Int("items", len(raw)))

	return Merge(structured, raw)
}

// resolveRevs falls back to diffing the work tree against HEAD when the
// previous revision does not resolve (shallow clone, first commit), matching
// how the pipeline behaves on a fresh checkout. curr == "" means work tree.
func (s *Scanner) resolveRevs(ctx context.Context, prev, curr string, log logx.Logger) (string, string) {
	if prev == "" {
		prev = "HEAD~1"
	}
	if curr == "" {
		curr = "HEAD"
	}
	if !s.Repo.RevExists(ctx, prev) {
		log.Warn("previous revision not found, diffing work tree against HEAD", logx.String("prev", prev))
		return "HEAD", ""
	}
	return prev, curr
}

// contentDirs lists top-level repository directories that hold content pages:
// not dotted, not in the ignore list, and containing at least one .html file.
func (s *Scanner) contentDirs(log logx.Logger) []string {
	entries, err := os.ReadDir(s.Repo.Dir)
	if err != nil {
		log.Warn("repo root unreadable", logx.String("dir", s.Repo.Dir), logx.Err(err))
		return nil
	}

	var dirs []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() || strings.HasPrefix(name, ".") || s.ignored(name) {
			continue
		}
		sub, err := os.ReadDir(filepath.Join(s.Repo.Dir, name))
		if err != nil {
			continue
		}
		for _, f := range sub {
			if !f.IsDir() && strings.HasSuffix(f.Name(), ".html") {
				dirs = append(dirs, name)
				break
			}
		}
	}
	return dirs
}

func (s *Scanner) ignored(name string) bool {
	for _, d := range s.IgnoreDirs {
		if name == d {
			return true
		}
	}
	return false
}

// pageURL joins a repo-relative path onto the site base URL.
func (s *Scanner) pageURL(relPath string) string {
	return strings.TrimRight(s.BaseURL, "/") + "/" + strings.TrimLeft(filepath.ToSlash(relPath), "/")
}
