// Package feed defines the Item batch exchanged between the detect and notify
// stages.
package feed

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Source records how an item was discovered.
type Source string

const (
	// SourceStructured items come from a section's JSON index file.
	SourceStructured Source = "structured"
	// SourceRaw items come from added HTML files in a content directory.
	SourceRaw Source = "raw"
)

// Item is one newly published content unit eligible for announcement.
// URL is the canonical absolute address and the identity key everywhere
// downstream.
type Item struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Section string `json:"section"`
	Source  Source `json:"-"`
}

// ReadBatch loads the handoff file. A missing file or an empty array is the
// normal "nothing to do" condition, not an error.
func ReadBatch(path string) ([]Item, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var items []Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// WriteBatch replaces the handoff file with the given items.
func WriteBatch(path string, items []Item) error {
	if items == nil {
		items = []Item{}
	}
	b, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
