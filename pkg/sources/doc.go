// Package sources reads APT source-list files into ordered entries and
// provides the canonical line form used for duplicate matching. The
// canonical form exists only for comparison; output always preserves
// the verbatim original text.
package sources
