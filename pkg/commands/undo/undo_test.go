// pkg/commands/undo/undo_test.go
// TEST TYPE: Business Logic Integration
// DEPENDENCIES: Memory FS
// PURPOSE: Test the two undo paths against a real apply

package undo_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/aptdedup/pkg/commands/apply"
	"github.com/arthur-debert/aptdedup/pkg/commands/undo"
	"github.com/arthur-debert/aptdedup/pkg/config"
	"github.com/arthur-debert/aptdedup/pkg/errors"
	"github.com/arthur-debert/aptdedup/pkg/testutil"
	"github.com/arthur-debert/aptdedup/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const kali = "deb http://example.org/kali kali-rolling main"

func testConfig() config.Config {
	cfg := config.Default()
	cfg.SourceFiles = []string{"/etc/apt/sources.list", "/a.list"}
	cfg.SourceGlobs = nil
	cfg.BackupRoot = "/var/lib/aptdedup/backups"
	return cfg
}

func applied(t *testing.T) (types.FS, string) {
	t.Helper()
	fs := testutil.NewTestFS()
	testutil.WriteFile(t, fs, "/etc/apt/sources.list", kali+"\n")
	testutil.WriteFile(t, fs, "/a.list", kali+"\n")

	result, err := apply.Apply(context.Background(), apply.Options{Config: testConfig(), FileSystem: fs})
	require.NoError(t, err)
	require.NotNil(t, result.Backup)
	return fs, result.Backup.ID
}

func TestUndoFromBackupByID(t *testing.T) {
	fs, backupID := applied(t)

	result, err := undo.Undo(undo.Options{Config: testConfig(), BackupID: backupID, FileSystem: fs})
	require.NoError(t, err)

	assert.Equal(t, backupID, result.BackupID)
	assert.Equal(t, []string{"/a.list", "/etc/apt/sources.list"}, result.Restored)
	assert.Equal(t, kali+"\n", testutil.ReadFile(t, fs, "/a.list"))
}

func TestUndoLatestBackupByDefault(t *testing.T) {
	fs, backupID := applied(t)

	result, err := undo.Undo(undo.Options{Config: testConfig(), FileSystem: fs})
	require.NoError(t, err)

	assert.Equal(t, backupID, result.BackupID)
	assert.Equal(t, kali+"\n", testutil.ReadFile(t, fs, "/a.list"))
}

func TestUndoMarkersPath(t *testing.T) {
	fs, _ := applied(t)

	result, err := undo.Undo(undo.Options{Config: testConfig(), Markers: true, FileSystem: fs})
	require.NoError(t, err)

	assert.Empty(t, result.BackupID)
	assert.Equal(t, []string{"/a.list"}, result.Restored)
	assert.Equal(t, kali+"\n", testutil.ReadFile(t, fs, "/a.list"))
}

func TestUndoUnknownBackup(t *testing.T) {
	fs := testutil.NewTestFS()

	_, err := undo.Undo(undo.Options{Config: testConfig(), BackupID: "nope", FileSystem: fs})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrBackupMissing))
}
