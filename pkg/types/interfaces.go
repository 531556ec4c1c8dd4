package types

import (
	"io/fs"
)

// FS is the filesystem interface required for aptdedup operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
	Rename(oldpath, newpath string) error
}

// Confirmer is the user-mediated consent collaborator. The lock arbiter
// asks it before any attempt to terminate a lock holder; a false answer
// must always be treated as a refusal.
type Confirmer interface {
	// ConfirmKill asks whether the processes holding the named resource
	// may be terminated.
	ConfirmKill(resource string, holders []int32) bool
}
