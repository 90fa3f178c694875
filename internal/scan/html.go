package scan

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"announcer/internal/feed"
	"announcer/pkg/logx"
)

// scanHTML picks up content pages added between the two revisions. Pages whose
// URL the ledger already knows are historical re-adds, not news.
func (s *Scanner) scanHTML(ctx context.Context, prev, curr string, contentDirs []string, log logx.Logger) []feed.Item {
	added, err := s.Repo.ChangedFiles(ctx, prev, curr, true)
	if err != nil {
		log.Warn("git diff failed, skipping raw scan", logx.Err(err))
		return nil
	}

	dirSet := make(map[string]bool, len(contentDirs))
	for _, d := range contentDirs {
		dirSet[d] = true
	}

	var items []feed.Item
	for _, rel := range added {
		if !strings.HasSuffix(rel, ".html") {
			continue
		}
		parts := strings.Split(rel, "/")
		if len(parts) < 2 {
			// Root-level pages (index.html etc.) are site chrome, not posts.
			continue
		}
		section := parts[0]
		if !dirSet[section] {
			continue
		}

		url := s.pageURL(rel)
		if s.Ledger != nil && s.Ledger.IsPosted(url, "") {
			log.Debug("skipping historical page already in ledger", logx.String("url", url))
			continue
		}

		items = append(items, feed.Item{
			Title:   s.pageTitle(filepath.Join(s.Repo.Dir, filepath.FromSlash(rel)), log),
			URL:     url,
			Section: section,
			Source:  feed.SourceRaw,
		})
	}
	return items
}

// pageTitle extracts a display title from an HTML file: <title>, then the
// first <h1>, then the humanized file name.
func (s *Scanner) pageTitle(path string, log logx.Logger) string {
	if b, err := os.ReadFile(path); err == nil {
		if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(b)); err == nil {
			if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
				return t
			}
			if h := strings.TrimSpace(doc.Find("h1").First().Text()); h != "" {
				return h
			}
		}
	} else {
		log.Warn("page unreadable, titling from file name", logx.String("path", path), logx.Err(err))
	}
	return humanizeFilename(path)
}

// humanizeFilename turns "south-indian-bank-po-2026.html" into
// "South Indian Bank Po 2026".
func humanizeFilename(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), ".html")
	words := strings.FieldsFunc(name, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		r := []rune(w)
		if len(r) > 0 {
			words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
		}
	}
	return strings.Join(words, " ")
}
