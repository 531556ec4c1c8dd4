package backup

import (
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/aptdedup/pkg/errors"
	"github.com/arthur-debert/aptdedup/pkg/filesystem"
	"github.com/arthur-debert/aptdedup/pkg/internal/hashutil"
	"github.com/arthur-debert/aptdedup/pkg/logging"
	"github.com/arthur-debert/aptdedup/pkg/types"
)

// Backup is one snapshot: per-file byte content taken strictly before
// the first mutation of the covered file set.
type Backup struct {
	ID        string
	CreatedAt time.Time
	Files     map[string][]byte
	Modes     map[string]fs.FileMode
	Missing   []string // files absent at snapshot time, tolerated
}

// Mode returns the recorded permission bits for a covered file, or
// 0644 when the snapshot predates mode recording.
func (b *Backup) Mode(file string) fs.FileMode {
	if mode, ok := b.Modes[file]; ok {
		return mode
	}
	return 0644
}

// Info is the inventory view of a stored snapshot.
type Info struct {
	ID        string
	CreatedAt time.Time
	Files     []string
	Size      int64
}

// manifest is the on-disk index of one snapshot directory.
type manifest struct {
	ID        string            `toml:"id"`
	CreatedAt time.Time         `toml:"created_at"`
	Files     []string          `toml:"files"`
	Missing   []string          `toml:"missing,omitempty"`
	Checksums map[string]string `toml:"checksums,omitempty"`
	Modes     map[string]uint32 `toml:"modes,omitempty"`
}

// Manager persists snapshots under a writable backup root, one
// directory per snapshot with a TOML manifest next to the file blobs.
type Manager struct {
	fs     types.FS
	root   string
	marker string
	logger zerolog.Logger
	now    func() time.Time
}

// NewManager creates a Manager rooted at the given directory.
func NewManager(fs types.FS, root, marker string) *Manager {
	return &Manager{
		fs:     fs,
		root:   root,
		marker: marker,
		logger: logging.GetLogger("backup"),
		now:    time.Now,
	}
}

// Snapshot captures the current content of every existing file in the
// set and persists it. It must run before any mutation of the same
// files; a snapshot taken afterwards would preserve the wrong bytes.
func (m *Manager) Snapshot(files []string) (*Backup, error) {
	now := m.now()
	b := &Backup{
		ID:        now.Format("20060102-150405.000000000"),
		CreatedAt: now,
		Files:     make(map[string][]byte),
		Modes:     make(map[string]fs.FileMode),
	}

	var covered []string
	for _, file := range files {
		data, err := m.fs.ReadFile(file)
		if err != nil {
			if os.IsNotExist(err) {
				b.Missing = append(b.Missing, file)
				continue
			}
			return nil, errors.Wrapf(err, errors.ErrBackupCreate, "failed to read %s for snapshot", file).
				WithDetail("file", file)
		}
		b.Files[file] = data
		b.Modes[file] = 0644
		if info, err := m.fs.Stat(file); err == nil {
			b.Modes[file] = info.Mode().Perm()
		}
		covered = append(covered, file)
	}

	if err := m.persist(b, covered); err != nil {
		return nil, err
	}

	m.logger.Info().Str("backup", b.ID).Int("files", len(covered)).Msg("Snapshot created")
	return b, nil
}

func (m *Manager) persist(b *Backup, covered []string) error {
	dir := filepath.Join(m.root, b.ID)
	blobDir := filepath.Join(dir, "files")
	if err := m.fs.MkdirAll(blobDir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrBackupCreate, "failed to create backup dir %s", dir)
	}

	checksums := make(map[string]string, len(covered))
	modes := make(map[string]uint32, len(covered))
	for _, file := range covered {
		blob := filepath.Join(blobDir, encodePath(file))
		if err := m.fs.WriteFile(blob, b.Files[file], 0644); err != nil {
			return errors.Wrapf(err, errors.ErrBackupCreate, "failed to store snapshot of %s", file).
				WithDetail("file", file)
		}
		checksums[file] = hashutil.Checksum(b.Files[file])
		modes[file] = uint32(b.Mode(file))
	}

	man := manifest{
		ID:        b.ID,
		CreatedAt: b.CreatedAt,
		Files:     covered,
		Missing:   b.Missing,
		Checksums: checksums,
		Modes:     modes,
	}
	data, err := toml.Marshal(man)
	if err != nil {
		return errors.Wrap(err, errors.ErrBackupCreate, "failed to encode manifest")
	}
	if err := m.fs.WriteFile(filepath.Join(dir, "manifest.toml"), data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrBackupCreate, "failed to write manifest")
	}

	return nil
}

// Restore overwrites every covered file with its snapshot content.
// Files missing at snapshot time are left alone.
func (m *Manager) Restore(b *Backup) error {
	files := make([]string, 0, len(b.Files))
	for file := range b.Files {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		if err := filesystem.WriteFileAtomic(m.fs, file, b.Files[file], b.Mode(file)); err != nil {
			return errors.Wrapf(err, errors.ErrRestoreFailed, "failed to restore %s", file).
				WithDetail("file", file).
				WithDetail("backup", b.ID)
		}
	}

	m.logger.Info().Str("backup", b.ID).Int("files", len(files)).Msg("Restored from snapshot")
	return nil
}

// Load reads a stored snapshot back by id.
func (m *Manager) Load(id string) (*Backup, error) {
	dir := filepath.Join(m.root, id)
	data, err := m.fs.ReadFile(filepath.Join(dir, "manifest.toml"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrBackupMissing, "no backup with id %s", id)
		}
		return nil, errors.Wrapf(err, errors.ErrRestoreFailed, "failed to read manifest of %s", id)
	}

	var man manifest
	if err := toml.Unmarshal(data, &man); err != nil {
		return nil, errors.Wrapf(err, errors.ErrRestoreFailed, "corrupt manifest in backup %s", id)
	}

	b := &Backup{
		ID:        man.ID,
		CreatedAt: man.CreatedAt,
		Files:     make(map[string][]byte, len(man.Files)),
		Modes:     make(map[string]fs.FileMode, len(man.Modes)),
		Missing:   man.Missing,
	}
	for file, mode := range man.Modes {
		b.Modes[file] = fs.FileMode(mode)
	}
	for _, file := range man.Files {
		blob, err := m.fs.ReadFile(filepath.Join(dir, "files", encodePath(file)))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrRestoreFailed, "backup %s is missing the snapshot of %s", id, file).
				WithDetail("file", file)
		}
		if !hashutil.Verify(blob, man.Checksums[file]) {
			return nil, errors.Newf(errors.ErrRestoreFailed, "backup %s has a corrupt snapshot of %s", id, file).
				WithDetail("file", file)
		}
		b.Files[file] = blob
	}

	return b, nil
}

// List returns the stored snapshots, oldest first.
func (m *Manager) List() ([]Info, error) {
	dirEntries, err := m.fs.ReadDir(m.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrRestoreFailed, "failed to list backups under %s", m.root)
	}

	var infos []Info
	for _, entry := range dirEntries {
		if !entry.IsDir() {
			continue
		}
		b, err := m.Load(entry.Name())
		if err != nil {
			m.logger.Warn().Err(err).Str("backup", entry.Name()).Msg("Skipping unreadable backup")
			continue
		}
		info := Info{ID: b.ID, CreatedAt: b.CreatedAt}
		for file, data := range b.Files {
			info.Files = append(info.Files, file)
			info.Size += int64(len(data))
		}
		sort.Strings(info.Files)
		infos = append(infos, info)
	}

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos, nil
}

// Latest loads the most recent snapshot.
func (m *Manager) Latest() (*Backup, error) {
	infos, err := m.List()
	if err != nil {
		return nil, err
	}
	if len(infos) == 0 {
		return nil, errors.New(errors.ErrBackupMissing, "no backups found")
	}
	return m.Load(infos[len(infos)-1].ID)
}

// encodePath flattens an absolute path into a single blob file name.
func encodePath(path string) string {
	return url.PathEscape(path)
}
