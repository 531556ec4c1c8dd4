// Package backups lists the stored snapshots.
package backups

import (
	"github.com/arthur-debert/aptdedup/pkg/backup"
	"github.com/arthur-debert/aptdedup/pkg/config"
	"github.com/arthur-debert/aptdedup/pkg/filesystem"
	"github.com/arthur-debert/aptdedup/pkg/logging"
	"github.com/arthur-debert/aptdedup/pkg/types"
)

// Options holds options for the backups command
type Options struct {
	Config     config.Config
	FileSystem types.FS
}

// Result is the snapshot inventory, oldest first.
type Result struct {
	Backups []backup.Info
}

// List reads the snapshot inventory under the configured backup root.
func List(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.backups")

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	infos, err := backup.NewManager(fs, opts.Config.BackupRoot, opts.Config.Marker).List()
	if err != nil {
		logger.Error().Err(err).Msg("Could not list backups")
		return nil, err
	}

	logger.Debug().Int("backups", len(infos)).Msg("Listed backups")
	return &Result{Backups: infos}, nil
}
