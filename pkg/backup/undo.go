package backup

import (
	"os"
	"strings"

	"github.com/arthur-debert/aptdedup/pkg/errors"
	"github.com/arthur-debert/aptdedup/pkg/filesystem"
	"github.com/arthur-debert/aptdedup/pkg/sources"
)

// UndoMarkers strips the reserved marker prefix from every marked line
// in the given files, restoring the original active lines in place.
// It needs no snapshot and returns the files it actually changed.
// Missing files are skipped.
func (m *Manager) UndoMarkers(files []string) ([]string, error) {
	var changed []string

	for i, file := range files {
		data, err := m.fs.ReadFile(file)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return changed, errors.Wrapf(err, errors.ErrRestoreFailed, "failed to read %s", file).
				WithDetail("file", file)
		}

		content := string(data)
		trailingNewline := strings.HasSuffix(content, "\n")
		lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")

		stripped := 0
		for j, line := range lines {
			if restored, was := sources.Unmark(line, m.marker); was {
				lines[j] = restored
				stripped++
			}
		}
		if stripped == 0 {
			continue
		}

		out := strings.Join(lines, "\n")
		if trailingNewline {
			out += "\n"
		}

		perm := os.FileMode(0644)
		if info, statErr := m.fs.Stat(file); statErr == nil {
			perm = info.Mode().Perm()
		}
		if err := filesystem.WriteFileAtomic(m.fs, file, []byte(out), perm); err != nil {
			return changed, errors.Wrapf(err, errors.ErrWriteFailed, "failed to rewrite %s", file).
				WithDetail("file", file).
				WithDetail("unprocessed", files[i:])
		}

		m.logger.Info().Str("file", file).Int("lines", stripped).Msg("Stripped duplicate markers")
		changed = append(changed, file)
	}

	return changed, nil
}
