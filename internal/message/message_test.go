package message

import (
	"strings"
	"testing"
)

func TestFormatDefaults(t *testing.T) {
	var f Formatter
	got := f.Format("SIB Junior Officer Recruitment 2026", "https://example.test/Jobs/sib.html")

	for _, want := range []string{
		"SIB Junior Officer Recruitment 2026",
		"https://example.test/Jobs/sib.html",
		"View Details:",
		"#MySarkariResult #GovtJobs",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("formatted message missing %q:\n%s", want, got)
		}
	}
}

func TestFormatCustomTemplate(t *testing.T) {
	f := Formatter{Header: "New post", CallToAction: "Read:", Hashtags: "#news"}
	got := f.Format("T", "https://example.test/t.html")
	want := "New post\n\nT\n\nRead:\nhttps://example.test/t.html\n\n#news"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFormatBoundedShortTitleUntouched(t *testing.T) {
	var f Formatter
	url := "https://example.test/Jobs/sib.html"
	if got, want := f.FormatBounded("Short", url, 280), f.Format("Short", url); got != want {
		t.Fatalf("short title must not be truncated:\n%q\n%q", got, want)
	}
}

func TestFormatBoundedTruncatesAtLimit(t *testing.T) {
	var f Formatter
	url := "https://example.test/Jobs/sib.html"
	long := strings.Repeat("x", 400)

	got := f.FormatBounded(long, url, 280)
	if n := len([]rune(got)); n != 280 {
		t.Fatalf("bounded message must land exactly on the limit, got %d runes", n)
	}
	if !strings.Contains(got, "…") {
		t.Fatalf("truncated title must carry the ellipsis marker:\n%s", got)
	}
	if strings.Count(got, "…") != 1 {
		t.Fatalf("exactly one ellipsis expected:\n%s", got)
	}
}

func TestFormatBoundedDerivedPerLimit(t *testing.T) {
	var f Formatter
	url := "https://example.test/Jobs/sib.html"
	long := strings.Repeat("y", 500)

	for _, limit := range []int{120, 280, 480} {
		got := f.FormatBounded(long, url, limit)
		if n := len([]rune(got)); n > limit {
			t.Fatalf("limit %d exceeded: %d runes", limit, n)
		}
	}
}

func TestFormatBoundedZeroMeansUnbounded(t *testing.T) {
	var f Formatter
	long := strings.Repeat("z", 5000)
	got := f.FormatBounded(long, "https://example.test/a.html", 0)
	if !strings.Contains(got, long) {
		t.Fatalf("unbounded render must keep the full title")
	}
}

func TestFormatBoundedMultibyteTitle(t *testing.T) {
	var f Formatter
	url := "https://example.test/Jobs/sib.html"
	long := strings.Repeat("状", 400)

	got := f.FormatBounded(long, url, 280)
	if n := len([]rune(got)); n != 280 {
		t.Fatalf("rune-counted limit violated: %d", n)
	}
}
