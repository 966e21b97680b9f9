// Package tag implements the tag registry: the set of known tag names shared
// by all projects.
//
// Tag names are case-insensitive. Every entry point normalizes names with
// Normalize before touching storage, so "Go", " go " and "GO" all refer to
// the same tag.
package tag

import (
	"strings"
	"time"
)

// Tag is a registered tag name.
type Tag struct {
	Name      string
	CreatorID string
	CreatedAt time.Time
}

// Normalize returns the canonical form of a tag name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeAll normalizes names, drops blanks and duplicates, and keeps the
// order of first occurrence.
func NormalizeAll(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, raw := range names {
		name := Normalize(raw)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
