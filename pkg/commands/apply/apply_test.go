// pkg/commands/apply/apply_test.go
// TEST TYPE: Business Logic Integration
// DEPENDENCIES: Memory FS
// PURPOSE: Test apply orchestration: snapshot gating, rewrite, dry-run

package apply_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/aptdedup/pkg/commands/apply"
	"github.com/arthur-debert/aptdedup/pkg/config"
	"github.com/arthur-debert/aptdedup/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.SourceFiles = []string{"/etc/apt/sources.list", "/a.list"}
	cfg.SourceGlobs = nil
	cfg.BackupRoot = "/var/lib/aptdedup/backups"
	return cfg
}

func TestApplyCommentsDuplicatesAndSnapshots(t *testing.T) {
	fs := testutil.NewTestFS()
	kali := "deb http://example.org/kali kali-rolling main"
	testutil.WriteFile(t, fs, "/etc/apt/sources.list", kali+"\n")
	testutil.WriteFile(t, fs, "/a.list", kali+"\n")

	result, err := apply.Apply(context.Background(), apply.Options{Config: testConfig(), FileSystem: fs})
	require.NoError(t, err)

	require.NotNil(t, result.Backup, "snapshot must gate the mutation")
	assert.Equal(t, []string{"/a.list"}, result.Rewritten)

	assert.Equal(t, kali+"\n", testutil.ReadFile(t, fs, "/etc/apt/sources.list"))
	assert.Equal(t, "# aptdedup-dup: "+kali+"\n", testutil.ReadFile(t, fs, "/a.list"))

	// The snapshot holds the pre-mutation bytes.
	assert.Equal(t, []byte(kali+"\n"), result.Backup.Files["/a.list"])
}

func TestApplyNothingToDo(t *testing.T) {
	fs := testutil.NewTestFS()
	testutil.WriteFile(t, fs, "/etc/apt/sources.list", "deb http://a main\n")
	testutil.WriteFile(t, fs, "/a.list", "deb http://b main\n")

	result, err := apply.Apply(context.Background(), apply.Options{Config: testConfig(), FileSystem: fs})
	require.NoError(t, err)

	assert.Nil(t, result.Backup, "no snapshot when nothing mutates")
	assert.Empty(t, result.Rewritten)
}

func TestApplyDryRunWritesNothing(t *testing.T) {
	fs := testutil.NewTestFS()
	kali := "deb http://example.org/kali kali-rolling main"
	testutil.WriteFile(t, fs, "/etc/apt/sources.list", kali+"\n")
	testutil.WriteFile(t, fs, "/a.list", kali+"\n")

	result, err := apply.Apply(context.Background(), apply.Options{
		Config:     testConfig(),
		DryRun:     true,
		FileSystem: fs,
	})
	require.NoError(t, err)

	assert.True(t, result.DryRun)
	assert.Nil(t, result.Backup)
	assert.Empty(t, result.Rewritten)
	assert.Len(t, result.Scan.Duplicates, 1)
	assert.Equal(t, kali+"\n", testutil.ReadFile(t, fs, "/a.list"), "dry run must not touch files")
}

func TestApplyTwiceIsNoOp(t *testing.T) {
	fs := testutil.NewTestFS()
	kali := "deb http://example.org/kali kali-rolling main"
	testutil.WriteFile(t, fs, "/etc/apt/sources.list", kali+"\n")
	testutil.WriteFile(t, fs, "/a.list", kali+"\n")

	_, err := apply.Apply(context.Background(), apply.Options{Config: testConfig(), FileSystem: fs})
	require.NoError(t, err)
	after := testutil.ReadFile(t, fs, "/a.list")

	second, err := apply.Apply(context.Background(), apply.Options{Config: testConfig(), FileSystem: fs})
	require.NoError(t, err)

	assert.Nil(t, second.Backup, "second apply has nothing to snapshot")
	assert.Empty(t, second.Rewritten)
	assert.Equal(t, after, testutil.ReadFile(t, fs, "/a.list"), "byte-identical after re-apply")
}
