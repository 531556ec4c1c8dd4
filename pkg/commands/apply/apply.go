// Package apply implements the mutating half of the reconciliation:
// snapshot first, then comment out every duplicate occurrence after
// the first, file by file, atomically.
package apply

import (
	"context"

	"github.com/arthur-debert/aptdedup/pkg/backup"
	"github.com/arthur-debert/aptdedup/pkg/commands/scan"
	"github.com/arthur-debert/aptdedup/pkg/config"
	"github.com/arthur-debert/aptdedup/pkg/dedup"
	"github.com/arthur-debert/aptdedup/pkg/filesystem"
	"github.com/arthur-debert/aptdedup/pkg/logging"
	"github.com/arthur-debert/aptdedup/pkg/types"
)

// Options holds options for the apply command
type Options struct {
	Config     config.Config
	Files      []string // overrides the configured file set when non-empty
	DryRun     bool
	FileSystem types.FS
	Glob       func(pattern string) ([]string, error)
}

// Result is the outcome of one apply.
type Result struct {
	Scan      *scan.Result
	Backup    *backup.Backup // nil when nothing needed rewriting or on dry-run
	Rewritten []string
	DryRun    bool
}

// Apply scans, snapshots and rewrites. The snapshot strictly precedes
// the first mutation; if it cannot be created nothing is touched. A
// write failure mid-batch keeps completed files in their new state and
// returns both the partial Result and the error.
func Apply(ctx context.Context, opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.apply")

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	scanResult, err := scan.Scan(scan.Options{
		Config:     opts.Config,
		Files:      opts.Files,
		FileSystem: fs,
		Glob:       opts.Glob,
	})
	if err != nil {
		return nil, err
	}

	result := &Result{Scan: scanResult, DryRun: opts.DryRun}

	if len(scanResult.Duplicates) == 0 {
		logger.Info().Msg("No duplicates found, nothing to do")
		return result, nil
	}
	if opts.DryRun {
		logger.Info().Int("duplicate_groups", len(scanResult.Duplicates)).Msg("Dry run, no changes made")
		return result, nil
	}

	mgr := backup.NewManager(fs, opts.Config.BackupRoot, opts.Config.Marker)
	b, err := mgr.Snapshot(scanResult.Files)
	if err != nil {
		logger.Error().Err(err).Msg("Snapshot failed, aborting before any mutation")
		return nil, err
	}
	result.Backup = b

	rewritten, err := dedup.New(fs, opts.Config.Marker).Apply(ctx, scanResult.Groups, scanResult.Files)
	result.Rewritten = rewritten
	if err != nil {
		logger.Error().Err(err).
			Strs("rewritten", rewritten).
			Str("backup", b.ID).
			Msg("Apply aborted mid-batch, completed files keep their new state")
		return result, err
	}

	logger.Info().
		Strs("rewritten", rewritten).
		Str("backup", b.ID).
		Msg("Apply completed")

	return result, nil
}
