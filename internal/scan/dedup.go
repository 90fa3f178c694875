package scan

import "announcer/internal/feed"

// Merge collapses the two discovery paths into one batch keyed by canonical
// URL. Structured items always win a conflict: index records carry explicit
// section and date metadata, where HTML titles are heuristic. Output order is
// structured items first (in input order), then surviving raw items.
func Merge(structured, raw []feed.Item) []feed.Item {
	seen := make(map[string]bool, len(structured)+len(raw))
	out := make([]feed.Item, 0, len(structured)+len(raw))

	for _, it := range structured {
		if it.URL == "" || seen[it.URL] {
			continue
		}
		seen[it.URL] = true
		out = append(out, it)
	}
	for _, it := range raw {
		if it.URL == "" || seen[it.URL] {
			continue
		}
		seen[it.URL] = true
		out = append(out, it)
	}
	return out
}
