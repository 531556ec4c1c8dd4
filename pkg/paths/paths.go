// Package paths provides centralized path handling for aptdedup.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvBackupDir overrides the backup root directory
	EnvBackupDir = "APTDEDUP_BACKUP_DIR"

	// EnvConfigFile overrides config file discovery entirely
	EnvConfigFile = "APTDEDUP_CONFIG_FILE"
)

// appDir is the per-app directory name under each XDG base directory.
const appDir = "aptdedup"

// BackupsDir returns the root directory for snapshot backups. It honors
// APTDEDUP_BACKUP_DIR and falls back to $XDG_STATE_HOME/aptdedup/backups.
func BackupsDir() string {
	if dir := os.Getenv(EnvBackupDir); dir != "" {
		return dir
	}
	return filepath.Join(xdg.StateHome, appDir, "backups")
}

// StateDir returns the XDG state directory for aptdedup.
func StateDir() string {
	return filepath.Join(xdg.StateHome, appDir)
}

// ConfigFileCandidates returns the config file paths in load priority
// order, highest priority first. The first existing one wins.
func ConfigFileCandidates() []string {
	if path := os.Getenv(EnvConfigFile); path != "" {
		return []string{path}
	}
	return []string{
		filepath.Join(xdg.ConfigHome, appDir, "aptdedup.toml"),
		"/etc/aptdedup.toml",
	}
}

// FindConfigFile returns the first existing config file candidate, or
// an empty string when none exists (defaults apply).
func FindConfigFile() string {
	for _, path := range ConfigFileCandidates() {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ExpandPath expands a leading ~ and environment variables in a path.
// Paths that cannot be expanded are returned unchanged.
func ExpandPath(path string) string {
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return path
	}

	if len(path) > 1 && path[0] == '~' && path[1] == '/' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
		return path
	}

	return os.ExpandEnv(path)
}
