package dedup

import (
	"github.com/arthur-debert/aptdedup/pkg/sources"
)

// Group collects every entry sharing one canonical form, in traversal
// order. Entries[0] is the occurrence that stays active; the rest get
// commented on apply.
type Group struct {
	Canonical string
	Entries   []sources.Entry
}

// Actionable reports whether the group needs any rewriting.
func (g Group) Actionable() bool {
	return len(g.Entries) > 1
}

// Detect groups entries by canonical key, preserving first-seen group
// order. Entries without a canonical form (blank or marked lines)
// never participate.
func Detect(entries []sources.Entry) []Group {
	index := make(map[string]int)
	var groups []Group

	for _, entry := range entries {
		if entry.Canonical == "" {
			continue
		}
		i, seen := index[entry.Canonical]
		if !seen {
			index[entry.Canonical] = len(groups)
			groups = append(groups, Group{Canonical: entry.Canonical})
			i = len(groups) - 1
		}
		groups[i].Entries = append(groups[i].Entries, entry)
	}

	return groups
}

// Duplicates filters the detection result down to actionable groups.
func Duplicates(groups []Group) []Group {
	var out []Group
	for _, g := range groups {
		if g.Actionable() {
			out = append(out, g)
		}
	}
	return out
}
