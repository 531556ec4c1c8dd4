package dedup

import (
	"fmt"
	"sort"
	"strings"
)

// Report renders the plain-text duplicate report, one actionable group
// per line, sorted by occurrence count descending. Ties keep traversal
// order so repeated runs print identically.
func Report(groups []Group) string {
	dups := Duplicates(groups)

	sort.SliceStable(dups, func(i, j int) bool {
		return len(dups[i].Entries) > len(dups[j].Entries)
	})

	var b strings.Builder
	for _, g := range dups {
		locs := make([]string, 0, len(g.Entries))
		for _, e := range g.Entries {
			locs = append(locs, fmt.Sprintf("%s:%d", e.File, e.Line))
		}
		fmt.Fprintf(&b, "%dx: %s -> %s\n", len(g.Entries), g.Canonical, strings.Join(locs, " "))
	}
	return b.String()
}
