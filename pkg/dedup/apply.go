package dedup

import (
	"context"
	"io/fs"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/aptdedup/pkg/errors"
	"github.com/arthur-debert/aptdedup/pkg/filesystem"
	"github.com/arthur-debert/aptdedup/pkg/logging"
	"github.com/arthur-debert/aptdedup/pkg/sources"
	"github.com/arthur-debert/aptdedup/pkg/types"
)

// Deduplicator rewrites source files so that within every duplicate
// group only the first occurrence stays active.
type Deduplicator struct {
	fs     types.FS
	marker string
	logger zerolog.Logger
}

// New creates a Deduplicator using the given marker prefix.
func New(fs types.FS, marker string) *Deduplicator {
	return &Deduplicator{
		fs:     fs,
		marker: marker,
		logger: logging.GetLogger("dedup"),
	}
}

// Apply rewrites the files in the given fixed order, commenting every
// occurrence with index > 1. Each file is rewritten atomically; a
// failure stops processing and leaves already-rewritten files in their
// valid new state. The returned slice always lists the files that were
// actually rewritten, error or not. Cancellation is honored between
// files only, never mid-rewrite.
func (d *Deduplicator) Apply(ctx context.Context, groups []Group, files []string) ([]string, error) {
	marks := markIndex(groups)
	done := make(map[string]bool, len(files))

	var rewritten []string
	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return rewritten, errors.Wrap(err, errors.ErrWriteFailed, "apply canceled").
				WithDetail("unprocessed", files[i:])
		}

		if done[file] {
			continue // a repeated path must not be rewritten twice
		}
		done[file] = true

		lines := marks[file]
		if len(lines) == 0 {
			continue
		}

		if err := d.rewriteFile(file, lines); err != nil {
			d.logger.Error().Err(err).Str("file", file).Msg("Rewrite failed, aborting remaining files")
			return rewritten, errors.Wrapf(err, errors.ErrWriteFailed, "failed to rewrite %s", file).
				WithDetail("file", file).
				WithDetail("unprocessed", files[i:])
		}

		d.logger.Info().Str("file", file).Int("lines", len(lines)).Msg("Commented duplicate lines")
		rewritten = append(rewritten, file)
	}

	return rewritten, nil
}

// markIndex maps file -> set of 1-based line numbers to comment.
func markIndex(groups []Group) map[string]map[int]bool {
	marks := make(map[string]map[int]bool)
	for _, g := range groups {
		for i, e := range g.Entries {
			if i == 0 {
				continue // first occurrence stays active
			}
			if marks[e.File] == nil {
				marks[e.File] = make(map[int]bool)
			}
			marks[e.File][e.Line] = true
		}
	}
	return marks
}

func (d *Deduplicator) rewriteFile(file string, markLines map[int]bool) error {
	data, err := d.fs.ReadFile(file)
	if err != nil {
		return err
	}

	perm := defaultPerm(d.fs, file)
	content := string(data)
	trailingNewline := strings.HasSuffix(content, "\n")

	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	for i := range lines {
		if markLines[i+1] && !sources.IsMarked(lines[i], d.marker) {
			lines[i] = sources.Mark(lines[i], d.marker)
		}
	}

	out := strings.Join(lines, "\n")
	if trailingNewline {
		out += "\n"
	}

	return filesystem.WriteFileAtomic(d.fs, file, []byte(out), perm)
}

func defaultPerm(fsys types.FS, file string) fs.FileMode {
	if info, err := fsys.Stat(file); err == nil {
		return info.Mode().Perm()
	}
	return 0644
}
