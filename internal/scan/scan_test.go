package scan

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"announcer/internal/feed"
	"announcer/pkg/logx"
)

func TestIdentityKeyPriority(t *testing.T) {
	cases := []struct {
		name string
		rec  record
		want string
	}{
		{"id wins over url", record{"id": "42", "url": "/Jobs/a.html"}, "id:42"},
		{"numeric id", record{"id": float64(42)}, "id:42"},
		{"url over link", record{"url": "/Jobs/a.html", "link": "/Jobs/b.html"}, "url:/Jobs/a.html"},
		{"link", record{"link": "/Jobs/b.html"}, "link:/Jobs/b.html"},
		{"slug", record{"slug": "sib-po-2026"}, "slug:sib-po-2026"},
		{"guid", record{"guid": "abc-123"}, "guid:abc-123"},
		{"title plus date", record{"title": "SIB PO", "date": "2026-08-30"}, "title_date:SIB PO_2026-08-30"},
	}
	for _, tc := range cases {
		got, ok := identityKey(tc.rec)
		if !ok {
			t.Fatalf("%s: no key derived", tc.name)
		}
		if got != tc.want {
			t.Fatalf("%s: key = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestIdentityKeyAbsent(t *testing.T) {
	for _, rec := range []record{
		{},
		{"title": "no date"},
		{"date": "2026-08-30"},
		{"id": ""},
		{"id": "   "},
		{"url": nil},
		{"id": []any{"composite"}},
	} {
		if key, ok := identityKey(rec); ok {
			t.Fatalf("record %v should have no identity, got %q", rec, key)
		}
	}
}

func TestRecordTitlePriority(t *testing.T) {
	r := record{"name": "By Name", "headline": "By Headline"}
	if got, _ := recordTitle(r); got != "By Name" {
		t.Fatalf("title = %q, want name field", got)
	}
	r["title"] = "By Title"
	if got, _ := recordTitle(r); got != "By Title" {
		t.Fatalf("title = %q, want title field", got)
	}
	if _, ok := recordTitle(record{"summary": "x"}); ok {
		t.Fatalf("record without title fields must yield none")
	}
}

func TestRecordURL(t *testing.T) {
	base := "https://example.test"

	cases := []struct {
		name string
		rec  record
		want string
	}{
		{"absolute url", record{"url": "https://other.test/Jobs/a.html"}, "https://other.test/Jobs/a.html"},
		{"relative url joined", record{"url": "/Jobs/a.html"}, "https://example.test/Jobs/a.html"},
		{"link fallback", record{"link": "Jobs/b.html"}, "https://example.test/Jobs/b.html"},
		{"slug synthesized", record{"slug": "sib-po-2026"}, "https://example.test/Jobs/sib-po-2026.html"},
		{"id synthesized", record{"id": float64(7)}, "https://example.test/Jobs/7.html"},
		{"non-page url ignored, slug used", record{"url": "https://other.test/feed", "slug": "x"}, "https://example.test/Jobs/x.html"},
	}
	for _, tc := range cases {
		got, ok := recordURL(tc.rec, base, "Jobs")
		if !ok {
			t.Fatalf("%s: no url derived", tc.name)
		}
		if got != tc.want {
			t.Fatalf("%s: url = %q, want %q", tc.name, got, tc.want)
		}
	}

	if _, ok := recordURL(record{"title": "no locator"}, base, "Jobs"); ok {
		t.Fatalf("record without any locator must yield no url")
	}
}

func TestParseRecords(t *testing.T) {
	if got := parseRecords([]byte(`[{"id":"1"},{"id":"2"}]`)); len(got) != 2 {
		t.Fatalf("root array: got %d records", len(got))
	}

	// Object root: first array-valued key in document order wins.
	raw := []byte(`{"meta":{"count":2},"jobs":[{"id":"1"}],"archive":[{"id":"old"}]}`)
	got := parseRecords(raw)
	if len(got) != 1 {
		t.Fatalf("object root: got %d records", len(got))
	}
	if key, _ := identityKey(got[0]); key != "id:1" {
		t.Fatalf("object root picked wrong array: %v", got[0])
	}

	for _, bad := range [][]byte{
		nil,
		[]byte(""),
		[]byte("  "),
		[]byte(`"just a string"`),
		[]byte(`{"no":"arrays"}`),
		[]byte(`[{"id":`),
		[]byte(`{"jobs":[{]}`),
	} {
		if got := parseRecords(bad); got != nil {
			t.Fatalf("malformed input %q must read as empty, got %v", bad, got)
		}
	}
}

func TestNewRecordsByIdentity(t *testing.T) {
	prev := []record{{"id": "1"}, {"id": "2"}}
	curr := []record{{"id": "3"}, {"id": "1"}, {"id": "2"}}

	got := newRecords(prev, curr, "jobs.json", logx.Nop())
	if len(got) != 1 {
		t.Fatalf("got %d new records, want 1", len(got))
	}
	if key, _ := identityKey(got[0]); key != "id:3" {
		t.Fatalf("new record = %v", got[0])
	}

	// Reordering without additions yields nothing.
	if got := newRecords(prev, []record{{"id": "2"}, {"id": "1"}}, "jobs.json", logx.Nop()); len(got) != 0 {
		t.Fatalf("reorder produced %d records", len(got))
	}
}

func TestNewRecordsLengthFallback(t *testing.T) {
	// Records with no identity field at all: fall back to comparing lengths
	// and taking the trailing entries.
	prev := []record{{"summary": "a"}}
	curr := []record{{"summary": "a"}, {"summary": "b"}, {"summary": "c"}}

	got := newRecords(prev, curr, "jobs.json", logx.Nop())
	if len(got) != 2 {
		t.Fatalf("got %d records, want trailing 2", len(got))
	}
	if got[0]["summary"] != "b" || got[1]["summary"] != "c" {
		t.Fatalf("fallback took wrong records: %v", got)
	}

	// Shrunk or equal-length index yields nothing.
	if got := newRecords(curr, prev, "jobs.json", logx.Nop()); len(got) != 0 {
		t.Fatalf("shrunk index produced %d records", len(got))
	}
}

func TestMergeStructuredWins(t *testing.T) {
	structured := []feed.Item{
		{Title: "From Index", URL: "https://example.test/Jobs/a.html", Source: feed.SourceStructured},
	}
	raw := []feed.Item{
		{Title: "From Page", URL: "https://example.test/Jobs/a.html", Source: feed.SourceRaw},
		{Title: "Only Page", URL: "https://example.test/Jobs/b.html", Source: feed.SourceRaw},
	}

	got := Merge(structured, raw)
	want := []feed.Item{
		{Title: "From Index", URL: "https://example.test/Jobs/a.html", Source: feed.SourceStructured},
		{Title: "Only Page", URL: "https://example.test/Jobs/b.html", Source: feed.SourceRaw},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Merge = %+v, want %+v", got, want)
	}
}

func TestMergeDropsEmptyURLs(t *testing.T) {
	got := Merge([]feed.Item{{Title: "no url"}}, []feed.Item{{Title: "also none"}})
	if len(got) != 0 {
		t.Fatalf("items without urls survived: %+v", got)
	}
}

func TestSectionName(t *testing.T) {
	dirs := []string{"Jobs", "AdmitCards"}
	cases := map[string]string{
		"assets/data/jobs.json":       "Jobs",
		"assets/data/admitcards.json": "AdmitCards",
		"assets/data/results.json":    "Results",
	}
	for rel, want := range cases {
		if got := sectionName(rel, dirs); got != want {
			t.Fatalf("sectionName(%q) = %q, want %q", rel, got, want)
		}
	}
}

func TestHumanizeFilename(t *testing.T) {
	cases := map[string]string{
		"south-indian-bank-po-2026.html": "South Indian Bank Po 2026",
		"admit_card_update.html":         "Admit Card Update",
		"single.html":                    "Single",
	}
	for in, want := range cases {
		if got := humanizeFilename(in); got != want {
			t.Fatalf("humanizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestPageTitleExtraction(t *testing.T) {
	dir := t.TempDir()
	s := &Scanner{}

	write := func(name, body string) string {
		t.Helper()
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	p := write("a.html", `<html><head><title> SIB PO Recruitment </title></head><body><h1>Other</h1></body></html>`)
	if got := s.pageTitle(p, logx.Nop()); got != "SIB PO Recruitment" {
		t.Fatalf("title tag: got %q", got)
	}

	p = write("b.html", `<html><body><h1>Heading Only</h1></body></html>`)
	if got := s.pageTitle(p, logx.Nop()); got != "Heading Only" {
		t.Fatalf("h1 fallback: got %q", got)
	}

	p = write("no-title-or-heading.html", `<html><body><p>text</p></body></html>`)
	if got := s.pageTitle(p, logx.Nop()); got != "No Title Or Heading" {
		t.Fatalf("filename fallback: got %q", got)
	}

	if got := s.pageTitle(filepath.Join(dir, "missing-page.html"), logx.Nop()); got != "Missing Page" {
		t.Fatalf("unreadable file fallback: got %q", got)
	}
}

func TestContentDirs(t *testing.T) {
	root := t.TempDir()
	mk := func(dir string, files ...string) {
		t.Helper()
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			t.Fatal(err)
		}
		for _, f := range files {
			if err := os.WriteFile(filepath.Join(root, dir, f), []byte("x"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
	}
	mk("Jobs", "a.html")
	mk("Results", "b.html")
	mk("assets", "c.html") // ignored
	mk(".github", "d.html")
	mk("empty")
	mk("scripts", "tool.js")

	s := &Scanner{IgnoreDirs: []string{"assets", "scripts"}}
	s.Repo.Dir = root

	got := s.contentDirs(logx.Nop())
	want := []string{"Jobs", "Results"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("contentDirs = %v, want %v", got, want)
	}
}

func TestPageURL(t *testing.T) {
	s := &Scanner{BaseURL: "https://example.test/"}
	if got := s.pageURL("Jobs/a.html"); got != "https://example.test/Jobs/a.html" {
		t.Fatalf("pageURL = %q", got)
	}
}
