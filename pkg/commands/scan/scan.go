// Package scan implements the read-only duplicate scan: collect the
// configured source files, group by canonical form, render the report.
package scan

import (
	"sort"

	"github.com/arthur-debert/aptdedup/pkg/config"
	"github.com/arthur-debert/aptdedup/pkg/dedup"
	"github.com/arthur-debert/aptdedup/pkg/filesystem"
	"github.com/arthur-debert/aptdedup/pkg/logging"
	"github.com/arthur-debert/aptdedup/pkg/sources"
	"github.com/arthur-debert/aptdedup/pkg/types"
)

// Options holds options for the scan command
type Options struct {
	Config     config.Config
	Files      []string // overrides the configured file set when non-empty
	FileSystem types.FS // allow injecting a filesystem for testing
	Glob       func(pattern string) ([]string, error)
}

// Result is the outcome of one scan.
type Result struct {
	Files      []string // files actually scanned, in traversal order
	Entries    int
	Groups     []dedup.Group
	Duplicates []dedup.Group
	Report     string
}

// Scan collects the source files and detects duplicate groups. It
// never mutates anything.
func Scan(opts Options) (*Result, error) {
	logger := logging.GetLogger("commands.scan")

	fs := opts.FileSystem
	if fs == nil {
		fs = filesystem.NewOS()
	}

	files, err := ResolveFiles(opts)
	if err != nil {
		return nil, err
	}

	entries, err := sources.NewCollector(fs, opts.Config.Marker).Collect(files)
	if err != nil {
		logger.Error().Err(err).Msg("Scan failed")
		return nil, err
	}

	groups := dedup.Detect(entries)
	result := &Result{
		Files:      files,
		Entries:    len(entries),
		Groups:     groups,
		Duplicates: dedup.Duplicates(groups),
		Report:     dedup.Report(groups),
	}

	logger.Info().
		Int("files", len(files)).
		Int("entries", result.Entries).
		Int("duplicate_groups", len(result.Duplicates)).
		Msg("Scan completed")

	return result, nil
}

// ResolveFiles computes the ordered file set: explicit override files
// first, otherwise the configured files followed by sorted glob
// expansions. Glob patterns that match nothing contribute nothing.
// Repeated paths keep only their first position; a file listed twice
// would make every one of its lines a duplicate of itself.
func ResolveFiles(opts Options) ([]string, error) {
	logger := logging.GetLogger("commands.scan")

	if len(opts.Files) > 0 {
		return uniqueFiles(opts.Files), nil
	}

	files := append([]string{}, opts.Config.SourceFiles...)
	if opts.Glob == nil {
		return uniqueFiles(files), nil
	}

	for _, pattern := range opts.Config.SourceGlobs {
		matches, err := opts.Glob(pattern)
		if err != nil {
			// A bad pattern skips, it cannot fail the scan.
			logger.Warn().Err(err).Str("pattern", pattern).Msg("Skipping malformed glob pattern")
			continue
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}
	return uniqueFiles(files), nil
}

func uniqueFiles(files []string) []string {
	seen := make(map[string]bool, len(files))
	unique := make([]string, 0, len(files))
	for _, file := range files {
		if seen[file] {
			continue
		}
		seen[file] = true
		unique = append(unique, file)
	}
	return unique
}
