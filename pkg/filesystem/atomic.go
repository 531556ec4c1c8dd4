package filesystem

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/arthur-debert/aptdedup/pkg/types"
)

// WriteFileAtomic rewrites path via a temp file in the same directory
// followed by a rename, so a crash mid-write never leaves a truncated
// file observable. The temp file is removed on every failure path; the
// write-then-rename pair is not interruptible from the outside, callers
// that honor cancellation must do so between files, not inside this
// call.
func WriteFileAtomic(fsys types.FS, path string, data []byte, perm fs.FileMode) error {
	tmp := fmt.Sprintf("%s.aptdedup.%d.tmp", path, os.Getpid())

	if err := fsys.WriteFile(tmp, data, perm); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("failed to write temp file for %s: %w", path, err)
	}

	if err := fsys.Rename(tmp, path); err != nil {
		_ = fsys.Remove(tmp)
		return fmt.Errorf("failed to rename temp file onto %s: %w", path, err)
	}

	return nil
}
