package scan

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"announcer/internal/feed"
	"announcer/pkg/logx"
)

// scanIndexes diffs every changed JSON index file record-by-record and maps
// the new records to items.
func (s *Scanner) scanIndexes(ctx context.Context, prev, curr string, contentDirs []string, log logx.Logger) []feed.Item {
	changed, err := s.Repo.ChangedFiles(ctx, prev, curr, false)
	if err != nil {
		log.Warn("git diff failed, skipping structured scan", logx.Err(err))
		return nil
	}

	indexPrefix := filepath.ToSlash(s.IndexDir) + "/"

	var items []feed.Item
	for _, rel := range changed {
		if !strings.HasPrefix(rel, indexPrefix) || !strings.HasSuffix(rel, ".json") {
			continue
		}

		section := sectionName(rel, contentDirs)

		currRaw, err := os.ReadFile(filepath.Join(s.Repo.Dir, filepath.FromSlash(rel)))
		if err != nil {
			// Deleted or unreadable index; nothing to announce from it.
			continue
		}
		prevRaw, err := s.Repo.FileAt(ctx, prev, rel)
		if err != nil {
			log.Warn("previous index unavailable, treating as empty", logx.String("file", rel), logx.Err(err))
			prevRaw = nil
		}

		prevRecs := parseRecords(prevRaw) // malformed previous reads as empty
		currRecs := parseRecords(currRaw)

		for _, rec := range newRecords(prevRecs, currRecs, rel, log) {
			title, ok := recordTitle(rec)
			if !ok {
				log.Warn("skipping record: no clear title", logx.String("file", rel))
				continue
			}
			url, ok := recordURL(rec, s.BaseURL, section)
			if !ok {
				log.Warn("skipping record: cannot compute url", logx.String("file", rel), logx.String("title", title))
				continue
			}
			items = append(items, feed.Item{
				Title:   title,
				URL:     url,
				Section: section,
				Source:  feed.SourceStructured,
			})
		}
	}
	return items
}

// newRecords returns records present in curr but absent from prev, keyed by
// identity. When the sample record carries no identity field at all, it falls
// back to comparing lengths and taking the trailing records; that heuristic is
// order-sensitive and logged as such.
func newRecords(prev, curr []record, file string, log logx.Logger) []record {
	if len(curr) == 0 {
		return nil
	}

	if _, ok := identityKey(curr[0]); !ok {
		if len(curr) <= len(prev) {
			return nil
		}
		log.Warn("index records carry no identity field, falling back to array length comparison", logx.String("file", file))
		return curr[len(prev):]
	}

	seen := make(map[string]bool, len(prev))
	for _, r := range prev {
		if key, ok := identityKey(r); ok {
			seen[key] = true
		}
	}

	var out []record
	for _, r := range curr {
		key, ok := identityKey(r)
		if !ok {
			// Identified index with an unidentifiable record: skip it rather
			// than guess.
			continue
		}
		if !seen[key] {
			out = append(out, r)
		}
	}
	return out
}

// parseRecords extracts the record list from raw index JSON. The root may be
// an array, or an object whose first array-valued key (in document order) is
// the list. Anything malformed reads as empty.
func parseRecords(raw []byte) []record {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	if raw[0] == '[' {
		var recs []record
		if err := json.Unmarshal(raw, &recs); err != nil {
			return nil
		}
		return recs
	}
	if raw[0] != '{' {
		return nil
	}

	// Walk top-level keys in document order and take the first array value.
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil { // consume '{'
		return nil
	}
	for dec.More() {
		if _, err := dec.Token(); err != nil { // key
			return nil
		}
		var val json.RawMessage
		if err := dec.Decode(&val); err != nil {
			return nil
		}
		if v := bytes.TrimSpace(val); len(v) > 0 && v[0] == '[' {
			var recs []record
			if err := json.Unmarshal(v, &recs); err != nil {
				return nil
			}
			return recs
		}
	}
	return nil
}

// sectionName maps an index file name to its content section, preferring the
// casing of an actual content directory and falling back to title-casing.
func sectionName(rel string, contentDirs []string) string {
	name := strings.TrimSuffix(filepath.Base(rel), ".json")
	for _, d := range contentDirs {
		if strings.EqualFold(d, name) {
			return d
		}
	}
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
