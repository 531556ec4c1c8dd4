// Package backup snapshots source files before any mutation and offers
// two independent restore paths: full overwrite from a snapshot, and
// in-place marker stripping that needs no snapshot at all.
package backup
