// Package ledger persists which (url, platform) announcements have already
// been delivered. It is the pipeline's only durable state and the reason
// repeated runs never announce an item twice.
//
// Failure policy is strictly fail-open: a missing or corrupt ledger file reads
// as empty, and a failed write is reported as false, never as an error that
// could abort a run. Better a rare duplicate announcement than a wedged
// pipeline.
package ledger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"announcer/pkg/logx"
)

// Entry is one announced URL and the platforms it reached.
type Entry struct {
	URL       string   `json:"url"`
	Date      string   `json:"date"` // YYYY-MM-DD of first successful delivery
	Platforms []string `json:"platforms"`
}

type file struct {
	Posted []Entry `json:"posted"`
}

// Ledger reads and mutates the on-disk ledger file. Every operation is a full
// read-merge-write cycle; the file is a single transactional unit, never
// partially updated. The process owns the file for the duration of a run
// (concurrent pipeline invocations must be serialized by the caller).
type Ledger struct {
	path string
	log  logx.Logger

	now func() time.Time
}

func New(path string, log logx.Logger) *Ledger {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Ledger{path: path, log: log, now: time.Now}
}

// Path returns the backing file path.
func (l *Ledger) Path() string { return l.path }

// Entries returns the current ledger content, newest first. Fail-open: any
// read or parse problem yields an empty slice.
func (l *Ledger) Entries() []Entry {
	return l.load().Posted
}

func (l *Ledger) load() file {
	b, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.log.Warn("ledger unreadable, treating as empty", logx.String("path", l.path), logx.Err(err))
		}
		return file{Posted: []Entry{}}
	}
	var f file
	if err := json.Unmarshal(b, &f); err != nil || f.Posted == nil {
		l.log.Warn("ledger malformed, treating as empty", logx.String("path", l.path), logx.Err(err))
		return file{Posted: []Entry{}}
	}
	return f
}

func (l *Ledger) save(f file) error {
	b, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	// Atomic replace so a crash mid-write never leaves a truncated ledger.
	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}

// IsPosted reports whether url has already been announced on platform.
// With an empty platform it reports whether the url is known at all.
// Never errors; a broken ledger reads as "not posted".
func (l *Ledger) IsPosted(url, platform string) bool {
	u := normalizeURL(url)
	for _, e := range l.load().Posted {
		if e.URL != u {
			continue
		}
		if platform == "" {
			return true
		}
		return contains(e.Platforms, platform)
	}
	return false
}

// MarkPosted records a successful delivery of url on platform, creating the
// entry (dated today) if needed. Idempotent: marking the same pair twice
// leaves the platform set unchanged. Returns false on any I/O failure; a
// failed mark must not abort the run.
func (l *Ledger) MarkPosted(url, platform string) bool {
	u := normalizeURL(url)
	if u == "" {
		return false
	}

	f := l.load()
	today := l.now().Format("2006-01-02")

	var found *Entry
	for i := range f.Posted {
		if f.Posted[i].URL == u {
			found = &f.Posted[i]
			break
		}
	}
	if found == nil {
		e := Entry{URL: u, Date: today, Platforms: []string{}}
		if platform != "" {
			e.Platforms = append(e.Platforms, platform)
		}
		// Newest first, like the file has always been kept.
		f.Posted = append([]Entry{e}, f.Posted...)
	} else {
		if platform != "" && !contains(found.Platforms, platform) {
			found.Platforms = append(found.Platforms, platform)
		}
		if found.Date == "" {
			found.Date = today
		}
	}

	if err := l.save(f); err != nil {
		l.log.Warn("ledger write failed", logx.String("path", l.path), logx.Err(err))
		return false
	}
	return true
}

func normalizeURL(u string) string { return strings.TrimSpace(u) }

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
