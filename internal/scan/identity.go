package scan

import (
	"fmt"
	"strings"
)

// Index records arrive shape-free, so every lookup goes through an ordered
// strategy table instead of ad hoc field probing. The table order is the
// contract: earlier strategies win.

type record map[string]any

// scalar returns the named field rendered as a trimmed string. Numbers are
// accepted (ids are often numeric); empty strings, nulls and composites are
// not.
func (r record) scalar(name string) (string, bool) {
	v, ok := r[name]
	if !ok || v == nil {
		return "", false
	}
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		return s, s != ""
	case float64:
		// encoding/json gives float64 for all numbers; render integers cleanly.
		if x == float64(int64(x)) {
			return fmt.Sprintf("%d", int64(x)), true
		}
		return fmt.Sprintf("%v", x), true
	case bool:
		return fmt.Sprintf("%v", x), true
	default:
		return "", false
	}
}

// identityStrategy derives a dedup key for an index record.
type identityStrategy struct {
	name string
	fn   func(record) (string, bool)
}

func singleField(field string) func(record) (string, bool) {
	return func(r record) (string, bool) {
		v, ok := r.scalar(field)
		if !ok {
			return "", false
		}
		return field + ":" + v, true
	}
}

// identityStrategies is the priority order for record identity:
// id > url > link > slug > guid > title+date.
var identityStrategies = []identityStrategy{
	{"id", singleField("id")},
	{"url", singleField("url")},
	{"link", singleField("link")},
	{"slug", singleField("slug")},
	{"guid", singleField("guid")},
	{"title_date", func(r record) (string, bool) {
		t, ok1 := r.scalar("title")
		d, ok2 := r.scalar("date")
		if !ok1 || !ok2 {
			return "", false
		}
		return "title_date:" + t + "_" + d, true
	}},
}

// identityKey returns the record's dedup key, or false when no strategy
// applies (which triggers the array-length fallback for the whole index).
func identityKey(r record) (string, bool) {
	for _, st := range identityStrategies {
		if key, ok := st.fn(r); ok {
			return key, true
		}
	}
	return "", false
}

// titleFields is the display title priority order.
var titleFields = []string{"title", "name", "headline"}

func recordTitle(r record) (string, bool) {
	for _, f := range titleFields {
		if v, ok := r.scalar(f); ok {
			return v, true
		}
	}
	return "", false
}

// recordURL derives the canonical absolute URL for a record. url/link fields
// must point at a page (contain ".html"); relative values are joined onto the
// base URL. slug and id fall back to <base>/<section>/<value>.html.
func recordURL(r record, baseURL, section string) (string, bool) {
	base := strings.TrimRight(baseURL, "/")

	for _, f := range []string{"url", "link"} {
		v, ok := r.scalar(f)
		if !ok || !strings.Contains(v, ".html") {
			continue
		}
		if strings.HasPrefix(v, "http") {
			return v, true
		}
		return base + "/" + strings.TrimLeft(v, "/"), true
	}
	for _, f := range []string{"slug", "id"} {
		if v, ok := r.scalar(f); ok {
			return base + "/" + section + "/" + v + ".html", true
		}
	}
	return "", false
}
