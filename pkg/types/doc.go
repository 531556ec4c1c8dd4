// Package types defines the shared interfaces used throughout aptdedup:
// the filesystem seam every file-touching component is built against, and
// the collaborator interfaces (user confirmation) the lock arbiter consumes.
package types
