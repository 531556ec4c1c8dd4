package sources

import (
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/aptdedup/pkg/errors"
	"github.com/arthur-debert/aptdedup/pkg/logging"
	"github.com/arthur-debert/aptdedup/pkg/types"
)

// Entry is one line of one source file, with the canonical form used
// for matching alongside the verbatim text used for output.
type Entry struct {
	Raw       string // verbatim line text, never normalized
	Canonical string // comparison key, empty for ungroupable lines
	File      string // owning file path as given to Collect
	Line      int    // 1-based line number within File
	Ordinal   int    // 0-based position in the overall traversal
}

// Collector reads an ordered list of source files into ordered entries.
type Collector struct {
	fs     types.FS
	marker string
	logger zerolog.Logger
}

// NewCollector creates a Collector. The marker is needed because
// marked lines are collected (they must survive rewrites verbatim)
// but never given a canonical form.
func NewCollector(fs types.FS, marker string) *Collector {
	return &Collector{
		fs:     fs,
		marker: marker,
		logger: logging.GetLogger("sources.collector"),
	}
}

// Collect reads the given files in order and returns one Entry per
// line, preserving file order and ascending line order. A missing file
// contributes no entries; a file repeated in the list is read only at
// its first position, so its lines never count as duplicates of
// themselves. A read failure on an existing file is a scan error and
// aborts the whole collection.
func (c *Collector) Collect(files []string) ([]Entry, error) {
	var entries []Entry
	ordinal := 0
	seen := make(map[string]bool, len(files))

	for _, file := range files {
		if seen[file] {
			c.logger.Debug().Str("file", file).Msg("Source file listed twice, skipping repeat")
			continue
		}
		seen[file] = true

		data, err := c.fs.ReadFile(file)
		if err != nil {
			if os.IsNotExist(err) {
				c.logger.Debug().Str("file", file).Msg("Source file missing, skipping")
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrScanFailed, "failed to read %s", file).
				WithDetail("file", file)
		}

		for i, raw := range splitLines(string(data)) {
			entry := Entry{
				Raw:     raw,
				File:    file,
				Line:    i + 1,
				Ordinal: ordinal,
			}
			if Groupable(raw, c.marker) {
				entry.Canonical = Canonicalize(raw)
			}
			entries = append(entries, entry)
			ordinal++
		}
	}

	c.logger.Debug().Int("files", len(files)).Int("entries", len(entries)).Msg("Collected source entries")
	return entries, nil
}

// splitLines splits file content into lines without inventing a
// phantom empty line for the trailing newline.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
