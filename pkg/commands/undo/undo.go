// Package undo reverses a deduplication through either restore path:
// full overwrite from a snapshot, or in-place marker stripping that
// needs no snapshot at all.
package undo

import (
	"sort"

	"github.com/arthur-debert/aptdedup/pkg/backup"
	"github.com/arthur-debert/aptdedup/pkg/commands/scan"
	"github.com/arthur-debert/aptdedup/pkg/config"
	"github.com/arthur-debert/aptdedup/pkg/filesystem"
	"github.com/arthur-debert/aptdedup/pkg/logging"
	"github.com/arthur-debert/aptdedup/pkg/types"
)

// Options holds options for the undo command
type Options struct {
	Config config.Config
	// BackupID selects a snapshot to restore; empty means the latest
	// snapshot when Markers is false.
	BackupID string
	// Markers strips marker prefixes in place instead of restoring a
	// snapshot.
	Markers    bool
	Files      []string // overrides the configured file set when non-empty
	FileSystem types.FS
	Glob       func(pattern string) ([]string, error)
}

// Result is the outcome of one undo.
type Result struct {
	BackupID string   // empty for the marker-strip path
	Restored []string // files written back or changed
}

// Undo restores the source files to a marker-free state.
func Undo(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.undo")

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	mgr := backup.NewManager(fs, opts.Config.BackupRoot, opts.Config.Marker)

	if opts.Markers {
		files, err := scan.ResolveFiles(scan.Options{
			Config: opts.Config,
			Files:  opts.Files,
			Glob:   opts.Glob,
		})
		if err != nil {
			return nil, err
		}

		changed, err := mgr.UndoMarkers(files)
		if err != nil {
			logger.Error().Err(err).Strs("changed", changed).Msg("Marker strip aborted")
			return &Result{Restored: changed}, err
		}

		logger.Info().Strs("changed", changed).Msg("Markers stripped")
		return &Result{Restored: changed}, nil
	}

	var b *backup.Backup
	var err error
	if opts.BackupID != "" {
		b, err = mgr.Load(opts.BackupID)
	} else {
		b, err = mgr.Latest()
	}
	if err != nil {
		logger.Error().Err(err).Str("backup", opts.BackupID).Msg("Could not load backup")
		return nil, err
	}

	if err := mgr.Restore(b); err != nil {
		logger.Error().Err(err).Str("backup", b.ID).Msg("Restore failed")
		return nil, err
	}

	restored := make([]string, 0, len(b.Files))
	for file := range b.Files {
		restored = append(restored, file)
	}
	sort.Strings(restored)

	logger.Info().Str("backup", b.ID).Strs("restored", restored).Msg("Restored from backup")
	return &Result{BackupID: b.ID, Restored: restored}, nil
}
