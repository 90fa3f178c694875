// Package message renders a discovered item into the announcement text shared
// by all platforms, with an optional length-bounded variant for platforms that
// enforce a hard character limit.
package message

import "strings"

const (
	defaultHeader       = "📢 New Update — MySarkariResult"
	defaultCallToAction = "View Details:"
	defaultHashtags     = "#MySarkariResult #GovtJobs"

	ellipsis = "…"
)

// Formatter holds the fixed parts of the announcement template.
// The zero value uses the site defaults.
type Formatter struct {
	Header       string
	CallToAction string
	Hashtags     string
}

func (f Formatter) header() string {
	if f.Header != "" {
		return f.Header
	}
	return defaultHeader
}

func (f Formatter) callToAction() string {
	if f.CallToAction != "" {
		return f.CallToAction
	}
	return defaultCallToAction
}

func (f Formatter) hashtags() string {
	if f.Hashtags != "" {
		return f.Hashtags
	}
	return defaultHashtags
}

// Format renders the platform-neutral announcement.
func (f Formatter) Format(title, url string) string {
	var b strings.Builder
	b.WriteString(f.header())
	b.WriteString("\n\n")
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(f.callToAction())
	b.WriteString("\n")
	b.WriteString(url)
	b.WriteString("\n\n")
	b.WriteString(f.hashtags())
	return b.String()
}

// FormatBounded renders the announcement so that its total rune count never
// exceeds limit. The title budget is derived from the fixed template length
// per call, since limits vary by platform; an over-long title is cut and
// marked with a single ellipsis. limit <= 0 means unbounded.
func (f Formatter) FormatBounded(title, url string, limit int) string {
	if limit <= 0 {
		return f.Format(title, url)
	}

	fixed := len([]rune(f.Format("", url)))
	budget := limit - fixed
	if budget < 0 {
		budget = 0
	}

	r := []rune(title)
	if len(r) > budget {
		if budget >= 1 {
			r = append(r[:budget-1], []rune(ellipsis)...)
		} else {
			r = nil
		}
	}
	return f.Format(string(r), url)
}
