// Package hashutil computes the checksums recorded in snapshot
// manifests so corrupted blobs are detected before a restore.
package hashutil

import (
	"crypto/sha256"
	"fmt"
)

// Checksum returns the SHA256 digest of the data, prefixed with the
// algorithm name.
func Checksum(data []byte) string {
	return fmt.Sprintf("sha256:%x", sha256.Sum256(data))
}

// Verify reports whether the data matches a previously recorded
// checksum. An empty expected checksum matches anything, so manifests
// written before checksums were recorded stay loadable.
func Verify(data []byte, expected string) bool {
	if expected == "" {
		return true
	}
	return Checksum(data) == expected
}
