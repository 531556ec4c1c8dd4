package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/aptdedup/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackupsDirOverride(t *testing.T) {
	t.Setenv(paths.EnvBackupDir, "/custom/backups")
	assert.Equal(t, "/custom/backups", paths.BackupsDir())
}

func TestBackupsDirDefaultUnderState(t *testing.T) {
	t.Setenv(paths.EnvBackupDir, "")
	dir := paths.BackupsDir()
	assert.Contains(t, dir, filepath.Join("aptdedup", "backups"))
}

func TestConfigFileCandidatesOverride(t *testing.T) {
	t.Setenv(paths.EnvConfigFile, "/tmp/my.toml")
	assert.Equal(t, []string{"/tmp/my.toml"}, paths.ConfigFileCandidates())
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "aptdedup.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[sources]\n"), 0644))

	t.Setenv(paths.EnvConfigFile, cfg)
	assert.Equal(t, cfg, paths.FindConfigFile())
}

func TestFindConfigFileMissing(t *testing.T) {
	t.Setenv(paths.EnvConfigFile, filepath.Join(t.TempDir(), "absent.toml"))
	assert.Equal(t, "", paths.FindConfigFile())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	t.Setenv("APTDEDUP_TEST_DIR", "/srv/apt")

	assert.Equal(t, home, paths.ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "backups"), paths.ExpandPath("~/backups"))
	assert.Equal(t, "/srv/apt/lists", paths.ExpandPath("$APTDEDUP_TEST_DIR/lists"))
	assert.Equal(t, "/etc/apt/sources.list", paths.ExpandPath("/etc/apt/sources.list"))
}
