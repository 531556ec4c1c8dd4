// Package dedup groups source entries by canonical form and rewrites
// the files so that only the first occurrence of each duplicated line
// stays active. Later occurrences are commented with the reserved
// marker, never deleted, so every edit is reversible.
package dedup
