package filesystem_test

import (
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/arthur-debert/aptdedup/pkg/filesystem"
	"github.com/arthur-debert/aptdedup/pkg/types"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	fsys := filesystem.NewAferoFS(afero.NewMemMapFs())

	require.NoError(t, fsys.WriteFile("/etc/apt/sources.list", []byte("old content"), 0644))
	require.NoError(t, filesystem.WriteFileAtomic(fsys, "/etc/apt/sources.list", []byte("new content"), 0644))

	data, err := fsys.ReadFile("/etc/apt/sources.list")
	require.NoError(t, err)
	assert.Equal(t, "new content", string(data))
}

func TestWriteFileAtomicCreatesNewFile(t *testing.T) {
	fsys := filesystem.NewAferoFS(afero.NewMemMapFs())

	require.NoError(t, filesystem.WriteFileAtomic(fsys, "/tmp/fresh.list", []byte("content"), 0644))

	data, err := fsys.ReadFile("/tmp/fresh.list")
	require.NoError(t, err)
	assert.Equal(t, "content", string(data))
}

// failRenameFS simulates a crash between temp-write and rename.
type failRenameFS struct {
	types.FS
	removed []string
}

func (f *failRenameFS) Rename(oldpath, newpath string) error {
	return errors.New("simulated rename failure")
}

func (f *failRenameFS) Remove(name string) error {
	f.removed = append(f.removed, name)
	return f.FS.Remove(name)
}

func TestWriteFileAtomicRenameFailureKeepsOriginal(t *testing.T) {
	inner := filesystem.NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, inner.WriteFile("/etc/apt/sources.list", []byte("original"), 0644))

	fsys := &failRenameFS{FS: inner}
	err := filesystem.WriteFileAtomic(fsys, "/etc/apt/sources.list", []byte("replacement"), 0644)
	require.Error(t, err)

	// Original must be fully intact.
	data, readErr := inner.ReadFile("/etc/apt/sources.list")
	require.NoError(t, readErr)
	assert.Equal(t, "original", string(data))

	// The stale temp file must have been cleaned up.
	require.Len(t, fsys.removed, 1)
	assert.True(t, strings.Contains(fsys.removed[0], ".tmp"), "removed file should be the temp file")
	_, statErr := inner.Stat(fsys.removed[0])
	assert.ErrorIs(t, statErr, fs.ErrNotExist)
}

// failWriteFS fails the temp write itself.
type failWriteFS struct {
	types.FS
}

func (f *failWriteFS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return errors.New("simulated write failure")
}

func TestWriteFileAtomicWriteFailureKeepsOriginal(t *testing.T) {
	inner := filesystem.NewAferoFS(afero.NewMemMapFs())
	require.NoError(t, inner.WriteFile("/etc/apt/sources.list", []byte("original"), 0644))

	err := filesystem.WriteFileAtomic(&failWriteFS{FS: inner}, "/etc/apt/sources.list", []byte("replacement"), 0644)
	require.Error(t, err)

	data, readErr := inner.ReadFile("/etc/apt/sources.list")
	require.NoError(t, readErr)
	assert.Equal(t, "original", string(data))
}
